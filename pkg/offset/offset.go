// Package offset implements the algebra between a parent's local reference
// frame and world space.
//
// An Offset is a translation in the parent's horizontal plane plus a rotation
// delta about the vertical axis. The package converts offsets to world-space
// target points, derives offsets from two known world poses, and composes
// rotations, satisfying the round-trip law
//
//	FromPoints(P, Rp, TargetPoint(P, Rp, O), ChildRotation(Rp, O)) == O
//
// within the package's own 6-decimal rounding.
//
// Offsets stored in catalog records are plain mappings with the keys
// x_inches, y_inches, z_inches, and rotation_deg. Conversion from records is
// deliberately tolerant: missing or non-numeric components read as zero,
// because authoring data is routinely incomplete.
package offset

import (
	"math"

	"github.com/cedtools/equiplink/pkg/geometry"
	"github.com/cedtools/equiplink/pkg/omap"
)

// Record keys for a serialized offset, in canonical order.
const (
	KeyX        = "x_inches"
	KeyY        = "y_inches"
	KeyZ        = "z_inches"
	KeyRotation = "rotation_deg"
)

// Offset is a parent-local translation plus a rotation delta about the
// vertical axis. The zero value is the identity offset.
type Offset struct {
	XInches     float64
	YInches     float64
	ZInches     float64
	RotationDeg float64
}

// IsZero reports whether the offset is the identity.
func (o Offset) IsZero() bool {
	return o == Offset{}
}

// Vec returns the translation component as a vector.
func (o Offset) Vec() geometry.Vec3 {
	return geometry.Vec3{X: o.XInches, Y: o.YInches, Z: o.ZInches}
}

// ToMap serializes the offset as an ordered mapping in canonical key order.
func (o Offset) ToMap() *omap.Map {
	m := omap.New()
	m.Set(KeyX, o.XInches)
	m.Set(KeyY, o.YInches)
	m.Set(KeyZ, o.ZInches)
	m.Set(KeyRotation, o.RotationDeg)
	return m
}

// FromMap reads an offset from a record value. Nil values, non-mapping
// values, and missing or non-numeric components all read as zero.
func FromMap(v any) Offset {
	m, _ := v.(*omap.Map)
	if m == nil {
		return Offset{}
	}
	return Offset{
		XInches:     numberOr(m, KeyX, 0),
		YInches:     numberOr(m, KeyY, 0),
		ZInches:     numberOr(m, KeyZ, 0),
		RotationDeg: numberOr(m, KeyRotation, 0),
	}
}

// numberOr reads a numeric component, tolerating the integer and float
// forms the YAML decoder produces. Anything else reads as fallback.
func numberOr(m *omap.Map, key string, fallback float64) float64 {
	v, ok := m.Get(key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return fallback
}

// round6 rounds to 6 decimal places so serialized offsets stay stable
// across repeated round-trips.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// FromPoints computes the offset that carries a parent pose to a child pose:
// the world delta childPoint - parentPoint expressed in the parent's local
// frame, and the normalized rotation difference. All components are rounded
// to 6 decimal places. If either point is absent the zero offset is
// returned; incomplete placement data is expected, not an error.
func FromPoints(parentPoint *geometry.Vec3, parentRotationDeg float64, childPoint *geometry.Vec3, childRotationDeg float64) Offset {
	if parentPoint == nil || childPoint == nil {
		return Offset{}
	}
	local := geometry.RotateXY(childPoint.Sub(*parentPoint), -parentRotationDeg)
	return Offset{
		XInches:     round6(local.X),
		YInches:     round6(local.Y),
		ZInches:     round6(local.Z),
		RotationDeg: round6(geometry.NormalizeAngle(childRotationDeg - parentRotationDeg)),
	}
}

// TargetPoint resolves an offset against a parent pose: the local translation
// is rotated into world space by the parent's rotation and added to the
// parent point. A nil parent point is treated as the world origin.
func TargetPoint(parentPoint *geometry.Vec3, parentRotationDeg float64, o Offset) geometry.Vec3 {
	base := geometry.Vec3{}
	if parentPoint != nil {
		base = *parentPoint
	}
	return base.Add(geometry.RotateXY(o.Vec(), parentRotationDeg))
}

// ChildRotation composes the parent rotation with the offset's rotation
// delta, normalized to (-180, 180].
func ChildRotation(parentRotationDeg float64, o Offset) float64 {
	return geometry.NormalizeAngle(parentRotationDeg + o.RotationDeg)
}
