package service

import "math/big"

// trialDivisionCeiling is the largest value checked by trial division;
// above it primality falls back to Baillie-PSW, which is exact for 64-bit inputs.
const trialDivisionCeiling = 1 << 32

// Fibonacci returns the first n terms of the sequence starting 0, 1.
// n must already be validated as positive.
func Fibonacci(n int) []*big.Int {
	seq := make([]*big.Int, 0, n)
	a, b := big.NewInt(0), big.NewInt(1)
	for i := 0; i < n; i++ {
		seq = append(seq, new(big.Int).Set(a))
		a.Add(a, b)
		a, b = b, a
	}
	return seq
}

// PrimeFilter returns the prime elements of xs in their original order.
func PrimeFilter(xs []int64) []int64 {
	out := make([]int64, 0, len(xs))
	for _, x := range xs {
		if IsPrime(x) {
			out = append(out, x)
		}
	}
	return out
}

// IsPrime reports whether n is prime. Values below 2 are never prime.
func IsPrime(n int64) bool {
	switch {
	case n < 2:
		return false
	case n < 4:
		return true
	case n%2 == 0:
		return false
	case n > trialDivisionCeiling:
		return big.NewInt(n).ProbablyPrime(0)
	}
	for i := int64(3); i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// GCD is Euclid's algorithm on non-negative operands.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// HCF reduces xs pairwise with GCD. xs must be non-empty and positive.
func HCF(xs []int64) int64 {
	acc := xs[0]
	for _, x := range xs[1:] {
		acc = GCD(acc, x)
	}
	return acc
}

// LCM reduces xs pairwise with |a*b|/gcd(a,b) in arbitrary precision.
// xs must be non-empty and positive.
func LCM(xs []int64) *big.Int {
	acc := big.NewInt(xs[0])
	g := new(big.Int)
	for _, x := range xs[1:] {
		b := big.NewInt(x)
		g.GCD(nil, nil, acc, b)
		acc.Mul(acc, b)
		acc.Quo(acc, g)
	}
	return acc
}
