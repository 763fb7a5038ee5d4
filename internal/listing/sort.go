package listing

import (
	"sort"
	"strings"
	"time"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortBy orders records by the given three-way comparator, negated for
// descending. The input is copied, never sorted in place, and the sort is
// stable so ties keep the order the prior pipeline stage produced.
func SortBy[T any](records []T, cmp func(a, b T) int, dir Direction) []T {
	if len(records) <= 1 {
		return records
	}

	sorted := make([]T, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		c := cmp(sorted[i], sorted[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})

	return sorted
}

// ByString builds a comparator from a string accessor.
func ByString[T any](field func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return strings.Compare(field(a), field(b))
	}
}

// ByFloat64 builds a comparator from a numeric accessor.
func ByFloat64[T any](field func(T) float64) func(a, b T) int {
	return func(a, b T) int {
		va, vb := field(a), field(b)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
		return 0
	}
}

// ByInt64 builds a comparator from an integer accessor.
func ByInt64[T any](field func(T) int64) func(a, b T) int {
	return func(a, b T) int {
		va, vb := field(a), field(b)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
		return 0
	}
}

// ByTime builds a comparator from a time accessor.
func ByTime[T any](field func(T) time.Time) func(a, b T) int {
	return func(a, b T) int {
		va, vb := field(a), field(b)
		switch {
		case va.Before(vb):
			return -1
		case va.After(vb):
			return 1
		}
		return 0
	}
}

// ByUrgency builds a comparator on the synthetic priority derived from
// time remaining until a record's start date: high sorts before medium,
// medium before low.
func ByUrgency[T any](bucket func(T) Urgency) func(a, b T) int {
	return func(a, b T) int {
		ra, rb := urgencyRank(bucket(a)), urgencyRank(bucket(b))
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
		return 0
	}
}

func urgencyRank(u Urgency) int {
	switch u {
	case UrgencyHigh:
		return 0
	case UrgencyMedium:
		return 1
	}
	return 2
}
