package domain

// IsSet reports whether three cards form a set: in each of the four
// dimensions the values are either all equal or all different.
// The result does not depend on argument order.
func IsSet(a, b, c Card) bool {
	return sameOrDistinct(a.Style, b.Style, c.Style) &&
		sameOrDistinct(a.Shape, b.Shape, c.Shape) &&
		sameOrDistinct(a.Color, b.Color, c.Color) &&
		sameOrDistinct(a.Count, b.Count, c.Count)
}

func sameOrDistinct[T comparable](a, b, c T) bool {
	same := a == b && b == c
	diff := a != b && b != c && a != c
	return same || diff
}

// FindSet returns the positions of the first set found among cards,
// scanning in board order.
func FindSet(cards []Card) ([3]int, bool) {
	n := len(cards)
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				if IsSet(cards[i], cards[j], cards[k]) {
					return [3]int{i, j, k}, true
				}
			}
		}
	}
	return [3]int{}, false
}

// AllSets returns the positions of every set among cards.
func AllSets(cards []Card) [][3]int {
	var out [][3]int
	n := len(cards)
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				if IsSet(cards[i], cards[j], cards[k]) {
					out = append(out, [3]int{i, j, k})
				}
			}
		}
	}
	return out
}

// CountSets returns how many sets are present among cards.
func CountSets(cards []Card) int {
	return len(AllSets(cards))
}
