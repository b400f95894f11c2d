// Package constraint enforces per-shape dimension limits on proposed geometry.
// Every function is pure: it takes the current geometry plus a candidate and
// returns the accepted geometry. Violations are corrected, never reported.
package constraint

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// SearchIterations is the number of bisection steps used when re-projecting a
// curve point.
const SearchIterations = 30

// Clamp limits v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// IsFixed reports whether a range collapses to a single value. Interactive
// resizing of a fixed dimension is disabled.
func IsFixed(min, max float64) bool {
	return min == max
}

// ClampRadius returns the distance from center to pointer limited to [min, max].
func ClampRadius(center, pointer r2.Vec, min, max float64) float64 {
	return Clamp(r2.Norm(r2.Sub(pointer, center)), min, max)
}

// ClampSegmentEnd moves candidate along the fixed→candidate direction so the
// segment length lies in [min, max]. A zero-length candidate is extended along
// +x when min is positive.
func ClampSegmentEnd(fixed, candidate r2.Vec, min, max float64) r2.Vec {
	d := r2.Sub(candidate, fixed)
	length := r2.Norm(d)
	if length >= min && length <= max {
		return candidate
	}
	target := Clamp(length, min, max)
	if length == 0 {
		return r2.Add(fixed, r2.Vec{X: target})
	}
	return r2.Add(fixed, r2.Scale(target/length, d))
}

// Point returns the i-th point of a flat [x0, y0, x1, y1, ...] list.
func Point(points []float64, i int) r2.Vec {
	return r2.Vec{X: points[2*i], Y: points[2*i+1]}
}

// SetPoint writes p as the i-th point of a flat list.
func SetPoint(points []float64, i int, p r2.Vec) {
	points[2*i] = p.X
	points[2*i+1] = p.Y
}

// PointCount is the number of points in a flat list.
func PointCount(points []float64) int {
	return len(points) / 2
}

func segmentLengths(points []float64) []float64 {
	n := PointCount(points)
	if n < 2 {
		return nil
	}
	lens := make([]float64, n-1)
	for i := 1; i < n; i++ {
		lens[i-1] = r2.Norm(r2.Sub(Point(points, i), Point(points, i-1)))
	}
	return lens
}

// PathLength is the sum of consecutive Euclidean segment lengths.
func PathLength(points []float64) float64 {
	lens := segmentLengths(points)
	if len(lens) == 0 {
		return 0
	}
	return floats.Sum(lens)
}

// CumulativeLengths returns the travelled distance at every point, starting
// with 0 at the first point.
func CumulativeLengths(points []float64) []float64 {
	n := PointCount(points)
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	lens := segmentLengths(points)
	if len(lens) > 0 {
		floats.CumSum(out[1:], lens)
	}
	return out
}

// ClampCurvePoint moves point index towards target as far as possible while
// the total path length stays at or below max. When the full move fits the
// target is returned unchanged; otherwise the largest interpolation factor
// t ∈ [0, 1] between the current position and target is found by bisection.
func ClampCurvePoint(points []float64, index int, target r2.Vec, max float64) r2.Vec {
	work := make([]float64, len(points))
	copy(work, points)

	SetPoint(work, index, target)
	if PathLength(work) <= max {
		return target
	}

	start := Point(points, index)
	delta := r2.Sub(target, start)
	lo, hi := 0.0, 1.0
	for i := 0; i < SearchIterations; i++ {
		mid := (lo + hi) / 2
		SetPoint(work, index, r2.Add(start, r2.Scale(mid, delta)))
		if PathLength(work) <= max {
			lo = mid
		} else {
			hi = mid
		}
	}
	return r2.Add(start, r2.Scale(lo, delta))
}

// Redistribute replaces the intermediate points of a path with n points placed
// by linear interpolation over the existing point sequence, parameterized by
// point index. The first and last points are kept exactly; the result holds
// 2(n+2) values.
func Redistribute(points []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	m := PointCount(points)
	if m == 0 {
		return nil
	}
	out := make([]float64, 2*(n+2))
	first := Point(points, 0)
	last := Point(points, m-1)
	SetPoint(out, 0, first)
	SetPoint(out, n+1, last)
	if m == 1 {
		for i := 1; i <= n; i++ {
			SetPoint(out, i, first)
		}
		return out
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		u := t * float64(m-1)
		seg := int(math.Floor(u))
		if seg > m-2 {
			seg = m - 2
		}
		frac := u - float64(seg)
		a, b := Point(points, seg), Point(points, seg+1)
		SetPoint(out, i, r2.Add(a, r2.Scale(frac, r2.Sub(b, a))))
	}
	return out
}

// AppendGuided appends candidate to a guided trajectory only if the resulting
// cumulative length stays within max. The returned slice is a new list; ok is
// false when the point was dropped.
func AppendGuided(points []float64, candidate r2.Vec, max float64) ([]float64, bool) {
	out := make([]float64, len(points), len(points)+2)
	copy(out, points)
	n := PointCount(points)
	if n > 0 {
		step := r2.Norm(r2.Sub(candidate, Point(points, n-1)))
		if PathLength(points)+step > max {
			return out, false
		}
	}
	return append(out, candidate.X, candidate.Y), true
}

// ScalePath scales every point about the first one.
func ScalePath(points []float64, factor float64) []float64 {
	out := make([]float64, len(points))
	copy(out, points)
	n := PointCount(points)
	if n == 0 {
		return out
	}
	origin := Point(points, 0)
	for i := 1; i < n; i++ {
		SetPoint(out, i, r2.Add(origin, r2.Scale(factor, r2.Sub(Point(points, i), origin))))
	}
	return out
}

// EnforceMinLength extends the last non-degenerate segment so the path is at
// least min long. A fully degenerate path is extended along +x.
func EnforceMinLength(points []float64, min float64) []float64 {
	length := PathLength(points)
	if PointCount(points) < 2 || length >= min {
		out := make([]float64, len(points))
		copy(out, points)
		return out
	}
	return extendEnd(points, min-length)
}

// extendEnd moves the last point by the given distance along the direction of
// the last non-degenerate segment.
func extendEnd(points []float64, by float64) []float64 {
	out := make([]float64, len(points))
	copy(out, points)
	n := PointCount(points)
	dir := r2.Vec{X: 1}
	for i := n - 1; i > 0; i-- {
		d := r2.Sub(Point(points, i), Point(points, i-1))
		if r2.Norm(d) > 0 {
			dir = r2.Unit(d)
			break
		}
	}
	SetPoint(out, n-1, r2.Add(Point(points, n-1), r2.Scale(by, dir)))
	return out
}

// ClampPathLength brings a committed path into [min, max]: too long paths are
// scaled towards their first point, too short ones extended at the end. The
// upper bound always holds; when min == max rounding may leave the result a
// few ulps short of min.
func ClampPathLength(points []float64, min, max float64) []float64 {
	length := PathLength(points)
	switch {
	case length > max && length > 0:
		return backOff(max/length, 1/length, max, func(f float64) []float64 {
			return ScalePath(points, f)
		})
	case length < min && PointCount(points) >= 2:
		return backOff(min-length, 1, max, func(by float64) []float64 {
			return extendEnd(points, by)
		})
	}
	out := make([]float64, len(points))
	copy(out, points)
	return out
}

// backOff builds a path from v and lowers v until the path is no longer than
// max. perUnit converts an excess length into a change of v. v reaching zero
// always yields a path within max.
func backOff(v, perUnit, max float64, build func(float64) []float64) []float64 {
	out := build(v)
	step := math.Nextafter(max, math.Inf(1)) - max
	for i := 0; i < 64; i++ {
		excess := PathLength(out) - max
		if excess <= 0 {
			break
		}
		v = math.Max(v-math.Max(excess, step)*perUnit, 0)
		step *= 2
		out = build(v)
	}
	return out
}
