package aggregate

import (
	"cmp"
	"slices"

	"github.com/sadopc/workhours/internal/store"
)

// CompareDefault orders intervals newest date first, then latest start
// first, then highest id first.
func CompareDefault(a, b store.WorkInterval) int {
	if c := cmp.Compare(b.Date, a.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(b.StartTime, a.StartTime); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func SortDefault(ivs []store.WorkInterval) {
	slices.SortStableFunc(ivs, CompareDefault)
}

// Insert returns a copy of ivs with iv at its canonical position. ivs must
// already be in default order.
func Insert(ivs []store.WorkInterval, iv store.WorkInterval) []store.WorkInterval {
	i, _ := slices.BinarySearchFunc(ivs, iv, CompareDefault)
	out := make([]store.WorkInterval, 0, len(ivs)+1)
	out = append(out, ivs[:i]...)
	out = append(out, iv)
	return append(out, ivs[i:]...)
}

// Replace returns a copy of ivs with the interval sharing iv's id swapped for
// iv, re-sorted. If no interval has that id, iv is inserted.
func Replace(ivs []store.WorkInterval, iv store.WorkInterval) []store.WorkInterval {
	out := Remove(ivs, iv.ID)
	return Insert(out, iv)
}

// Remove returns a copy of ivs without the interval with the given id.
func Remove(ivs []store.WorkInterval, id int64) []store.WorkInterval {
	out := make([]store.WorkInterval, 0, len(ivs))
	for _, iv := range ivs {
		if iv.ID != id {
			out = append(out, iv)
		}
	}
	return out
}
