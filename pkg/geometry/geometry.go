// Package geometry provides the small set of 2-D/3-D primitives used by the
// offset algebra and placement resolver: a plain 3-component vector, rotation
// of the horizontal plane about the vertical axis, and angle normalization.
//
// Rotations are expressed in degrees, counter-clockwise positive, and only
// ever act on the X/Y plane - the Z component always passes through
// unchanged. This matches the equipment model, where sub-components sit in
// the parent's horizontal plane and rotate about the vertical axis.
package geometry

import "math"

// Vec3 is a 3-component vector. The zero value is the world origin.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Add returns the component-wise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// RotateXY rotates the X/Y components of v by angleDeg degrees
// counter-clockwise about the Z axis. The Z component is unchanged.
// NaN or infinite angles are treated as zero rotation.
func RotateXY(v Vec3, angleDeg float64) Vec3 {
	if math.IsNaN(angleDeg) || math.IsInf(angleDeg, 0) {
		angleDeg = 0
	}
	rad := angleDeg * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return Vec3{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
		Z: v.Z,
	}
}

// NormalizeAngle reduces angleDeg to the interval (-180, 180] by repeated
// +/-360 adjustment. Stored rotation deltas accumulate across serialization
// round-trips, so comparable angles must share one canonical range.
// NormalizeAngle is idempotent. NaN and infinite inputs normalize to 0.
func NormalizeAngle(angleDeg float64) float64 {
	if math.IsNaN(angleDeg) || math.IsInf(angleDeg, 0) {
		return 0
	}
	for angleDeg > 180.0 {
		angleDeg -= 360.0
	}
	for angleDeg <= -180.0 {
		angleDeg += 360.0
	}
	return angleDeg
}
