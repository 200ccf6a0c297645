package bandit

import (
	"math"
	"math/rand"
)

// sampler draws from the distributions used by Thompson sampling.
// It is not safe for concurrent use; the selector guards it with its mutex.
type sampler struct {
	rng *rand.Rand
}

// uniform returns a draw in (0, 1).
func (s sampler) uniform() float64 {
	for {
		if u := s.rng.Float64(); u > 0 {
			return u
		}
	}
}

// normal uses the Box-Muller transform.
func (s sampler) normal() float64 {
	u1 := s.uniform()
	u2 := s.uniform()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// gamma draws Gamma(shape, 1). Marsaglia-Tsang for shape >= 1, boosted
// with U^(1/shape) below that.
func (s sampler) gamma(shape float64) float64 {
	if shape <= 0 {
		return 0
	}
	if shape < 1 {
		return s.gamma(shape+1) * math.Pow(s.uniform(), 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)

	for {
		x := s.normal()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.uniform()

		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// beta draws Beta(alpha, beta) as Ga/(Ga+Gb).
func (s sampler) beta(alpha, beta float64) float64 {
	x := s.gamma(alpha)
	y := s.gamma(beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}
