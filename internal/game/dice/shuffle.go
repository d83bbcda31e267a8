package dice

// Choice returns a uniformly random element of items.
//
// Precondition: items must be non-empty. Panics with
// "dice: Choice called with empty slice" otherwise.
func Choice[T any](src Source, items []T) T {
	if len(items) == 0 {
		panic("dice: Choice called with empty slice")
	}
	return items[src.Intn(len(items))]
}

// Shuffle returns a new slice holding a Fisher-Yates shuffle of items.
// The input slice is left untouched.
//
// Postcondition: the returned slice is a permutation of items;
// items is unchanged.
func Shuffle[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
