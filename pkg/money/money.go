package money

import "math"

// Epsilon is the rounding tolerance for currency comparisons (one cent).
const Epsilon = 0.01

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// Equal reports whether two amounts match within Epsilon.
func Equal(a, b float64) bool { return math.Abs(a-b) <= Epsilon }
