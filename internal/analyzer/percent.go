package analyzer

import (
	"math"
	"strconv"
)

// Percent is a floored percentage. It is invalid when the reported total
// was zero or negative; an invalid Percent fails every threshold.
type Percent struct {
	Value int
	Valid bool
}

// PercentOf returns floor(100*part/total).
func PercentOf(part, total int) Percent {
	if total <= 0 {
		return Percent{}
	}
	return Percent{Value: int(math.Floor(100.0 * float64(part) / float64(total))), Valid: true}
}

// RankDiff compares an observed rank to an expected one. Positive means the
// tweet sits higher on the page than expected.
func RankDiff(observed, expected, total int) Percent {
	return PercentOf(expected-observed, total)
}

func (p Percent) Above(n int) bool   { return p.Valid && p.Value > n }
func (p Percent) AtLeast(n int) bool { return p.Valid && p.Value >= n }
func (p Percent) Below(n int) bool   { return p.Valid && p.Value < n }

func (p Percent) String() string {
	if !p.Valid {
		return "n/a"
	}
	return strconv.Itoa(p.Value)
}
