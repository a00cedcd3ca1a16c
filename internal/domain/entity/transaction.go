package entity

type TxnDirection string

const (
	TxnCredit TxnDirection = "credit"
	TxnDebit  TxnDirection = "debit"
)

// Transaction — запись звёздного леджера. Направление выводится из наличия
// источника у транзакции: есть источник — зачисление, нет — списание.
type Transaction struct {
	ID        string
	Amount    int64
	Direction TxnDirection
}

func (t Transaction) Signed() int64 {
	if t.Direction == TxnDebit {
		return -t.Amount
	}
	return t.Amount
}
