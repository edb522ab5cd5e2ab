package pkg

func Filter[T any](items []T, predicate func(T) bool) []T {
	filtered := []T{}
	for _, item := range items {
		if predicate(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Partition splits items into those matching predicate and the rest,
// keeping the relative order of both.
func Partition[T any](items []T, predicate func(T) bool) (matched, rest []T) {
	matched, rest = []T{}, []T{}
	for _, item := range items {
		if predicate(item) {
			matched = append(matched, item)
		} else {
			rest = append(rest, item)
		}
	}
	return matched, rest
}
