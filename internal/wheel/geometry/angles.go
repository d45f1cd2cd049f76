package geometry

import "math"

// FullCircleDegree is one complete revolution of the wheel.
const FullCircleDegree = 360.0

// Resolver converts slice indices into wheel angles.
//
// Slices are laid out clockwise from the 12-o'clock reference: slice 0's
// leading edge sits at angle 0, and each slice occupies 360/count degrees.
// A count of zero is a precondition violation; callers must guarantee at
// least one slice (config.Load enforces this at startup).
type Resolver struct{}

// NewResolver creates an angle resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// SectorDegree returns the angular width of one slice.
func (r *Resolver) SectorDegree(count int) float64 {
	return FullCircleDegree / float64(count)
}

// SliceDegree returns the angle of the center of the given slice,
// measured clockwise from the 12-o'clock reference.
// Out-of-range indices clamp to the last valid slice.
func (r *Resolver) SliceDegree(index, count int) float64 {
	index = ClampIndex(index, count)
	sector := r.SectorDegree(count)
	return float64(index)*sector + sector/2
}

// RotationToIndex returns the wheel rotation that brings the given
// slice's center under the fixed pointer.
func (r *Resolver) RotationToIndex(index, count int) float64 {
	return FullCircleDegree - r.SliceDegree(index, count)
}

// IndexAtRotation returns the slice sitting under the fixed pointer for
// a wheel rotated by deg. The rotation may be any real angle, including
// negative values and values past 360.
func (r *Resolver) IndexAtRotation(deg float64, count int) int {
	sector := r.SectorDegree(count)
	pointer := math.Mod(FullCircleDegree-math.Mod(deg, FullCircleDegree), FullCircleDegree)
	index := int(pointer / sector)
	if index >= count {
		index = count - 1
	}
	return index
}

// ClampIndex applies the last-slice clamp policy: indices past the end
// map to the last valid slice. Negative indices clamp to zero.
func ClampIndex(index, count int) int {
	if index >= count {
		return count - 1
	}
	if index < 0 {
		return 0
	}
	return index
}
