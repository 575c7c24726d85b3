package primes

import (
	"fmt"
	"math/big"
	"math/rand"
)

// Factor is one (prime, exponent) pair of a factorization.
type Factor struct {
	Prime    *big.Int
	Exponent int
}

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// Factor returns the ordered factorization of x by trial division
// against the table, sorted by prime ascending, appending any residual
// cofactor as a newly observed prime. x must be >= 2; factor(0) and
// factor(1) are undefined in this domain, per the core's invariant that
// every chunk is >= 2.
func (t *Table) Factor(x *big.Int) ([]Factor, error) {
	if x.Cmp(big2) < 0 {
		return nil, fmt.Errorf("primes: factor undefined for x < 2 (got %s)", x)
	}
	remaining := new(big.Int).Set(x)
	var result []Factor

	for i := 0; ; i++ {
		p := t.NthPrime(i)
		sq := new(big.Int).Mul(p, p)
		if sq.Cmp(remaining) > 0 {
			break
		}
		if count := divideOut(remaining, p); count > 0 {
			result = append(result, Factor{Prime: p, Exponent: count})
		}
	}
	if remaining.Cmp(big1) > 0 {
		t.Observe(remaining)
		result = append(result, Factor{Prime: remaining, Exponent: 1})
	}
	return result, nil
}

// divideOut repeatedly divides n by p in place, returning how many
// times p divided evenly.
func divideOut(n *big.Int, p *big.Int) int {
	count := 0
	q, r := new(big.Int), new(big.Int)
	for {
		q.DivMod(n, p, r)
		if r.Sign() != 0 {
			break
		}
		n.Set(q)
		count++
	}
	return count
}

// MillerRabin reports whether n is probably prime. It delegates to
// big.Int.ProbablyPrime with 20 Miller-Rabin rounds (plus the
// Baillie-PSW test ProbablyPrime always applies); no fixed witness
// bases are used.
func MillerRabin(n *big.Int) bool {
	if n.Cmp(big2) < 0 {
		return false
	}
	return n.ProbablyPrime(20)
}

// PollardRho returns a non-trivial factor of composite n.
func PollardRho(n *big.Int) *big.Int {
	if new(big.Int).Mod(n, big2).Sign() == 0 {
		return new(big.Int).Set(big2)
	}
	rnd := rand.New(rand.NewSource(1))
	one := big.NewInt(1)
	for {
		c := randBelow(rnd, n)
		x := randBelow(rnd, n)
		y := new(big.Int).Set(x)
		d := big.NewInt(1)
		f := func(v *big.Int) *big.Int {
			r := new(big.Int).Mul(v, v)
			r.Add(r, c)
			r.Mod(r, n)
			return r
		}
		tmp := new(big.Int)
		for d.Cmp(one) == 0 {
			x = f(x)
			y = f(f(y))
			tmp.Sub(x, y)
			tmp.Abs(tmp)
			d.GCD(nil, nil, tmp, n)
		}
		if d.Cmp(n) != 0 {
			return d
		}
	}
}

func randBelow(r *rand.Rand, n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		return big.NewInt(0)
	}
	bitLen := n.BitLen()
	for {
		v := new(big.Int).Rand(r, n)
		if v.Sign() > 0 || bitLen == 0 {
			return v
		}
	}
}

// OptimizedFactorize factors n via Pollard's Rho + Miller-Rabin. Its
// result must agree with Factor (trial division) on every input both
// can handle; it exists as the fast path for large semiprimes that
// trial division would take too long to crack.
func (t *Table) OptimizedFactorize(n *big.Int) []Factor {
	var raw []*big.Int
	var split func(m *big.Int)
	split = func(m *big.Int) {
		if m.Cmp(big1) == 0 {
			return
		}
		if MillerRabin(m) {
			raw = append(raw, new(big.Int).Set(m))
			return
		}
		d := PollardRho(m)
		split(d)
		split(new(big.Int).Div(m, d))
	}
	split(n)

	sortBigInts(raw)

	var result []Factor
	i := 0
	for i < len(raw) {
		p := raw[i]
		count := 1
		i++
		for i < len(raw) && raw[i].Cmp(p) == 0 {
			count++
			i++
		}
		t.Observe(p)
		result = append(result, Factor{Prime: p, Exponent: count})
	}
	return result
}

func sortBigInts(xs []*big.Int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1].Cmp(xs[j]) > 0; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
