package date

import (
	"iter"
	"slices"
)

// History is a sparse time series: at most one value per day, kept in
// chronological order whatever the insertion order. The book uses it to
// carry declared balances through restatements, where the last entry for
// a day wins.
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// Len returns the number of recorded days.
func (h *History[T]) Len() int { return len(h.days) }

func compareDays(a, b Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// Append records a value on a day. A day recorded twice keeps the last
// value.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, compareDays)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Values iterates the day/value pairs in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// ValueAsOf returns the value in force on a day: the entry on that day,
// or the most recent one before it. The boolean is false when the day
// predates the whole series.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, compareDays)
	if found {
		return h.values[i], true
	}
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}
