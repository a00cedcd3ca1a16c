// Package lox дополняет samber/lo тем, чего в нём нет или что удобнее
// в нашей форме.
package lox

// Map преобразует слайс поэлементно.
func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}
