package catalog

import (
	"sort"

	"github.com/samber/lo"

	"tg_gifts/internal/domain/entity"
)

// Filter отбирает подарки, попадающие в инклюзивные границы цены и саплая,
// и сортирует по убыванию цены: при фиксированном бюджете по количеству
// сначала берём самое дорогое. Сортировка стабильна — при равной цене
// сохраняется порядок каталога.
func Filter(items []entity.Gift, minPrice, maxPrice, minSupply, maxSupply int64) []entity.Gift {
	eligible := lo.Filter(items, func(g entity.Gift, _ int) bool {
		return g.Price >= minPrice && g.Price <= maxPrice &&
			g.Supply >= minSupply && g.Supply <= maxSupply
	})

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Price > eligible[j].Price
	})

	return eligible
}
