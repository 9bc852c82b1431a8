// Package trig generates the twiddle tables used by the FFT stages of the
// compute engine and caches them process-wide, keyed by FFT geometry.
package trig

import (
	"math"
)

// Root1 returns the primitive root of unity of order n, to the power k,
// as (cos, sin). The angle is reduced to the first octant so the table is
// built from the best-conditioned region of cos/sin.
func Root1(n, k uint32) (float64, float64) {
	if k >= n/2 {
		c, s := Root1(n, k-n/2)
		return -c, -s
	}
	if k > n/4 {
		c, s := Root1(n, n/2-k)
		return -c, s
	}
	if k > n/8 {
		c, s := Root1(n, n/4-k)
		return s, c
	}
	angle := math.Pi * float64(k) / float64(n/2)
	return math.Cos(angle), math.Sin(angle)
}

// Root1Fancy returns cos-1 instead of cos for small angles, which keeps
// precision when the cosine is close to one. cos(x)-1 is computed as
// -2*sin^2(x/2) to avoid the cancellation.
func Root1Fancy(n, k uint32) (float64, float64) {
	angle := math.Pi * float64(k) / float64(n/2)
	s := math.Sin(angle / 2)
	return -2 * s * s, math.Sin(angle)
}

// SmallTrig builds the per-line twiddle table for a width-stage FFT of the
// given size and radix.
func SmallTrig(size, radix uint32) []complex128 {
	tab := make([]complex128, 0, size)
	for line := uint32(1); line < radix; line++ {
		for col := uint32(0); col < size/radix; col++ {
			var c, s float64
			if radix/line >= 8 {
				c, s = Root1Fancy(size, col*line)
			} else {
				c, s = Root1(size, col*line)
			}
			tab = append(tab, complex(c, s))
		}
	}
	for uint32(len(tab)) < size {
		tab = append(tab, 0)
	}
	return tab[:size]
}
