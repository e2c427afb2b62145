package slice

func Map[T any, U any](input []T, fn func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = fn(v)
	}
	return result
}

func Find[T any](input []T, pred func(T) bool) (T, bool) {
	for _, v := range input {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func Sum[T any](input []T, fn func(T) float64) float64 {
	var total float64
	for _, v := range input {
		total += fn(v)
	}
	return total
}
