package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestRotateXY(t *testing.T) {
	tests := []struct {
		name  string
		in    Vec3
		angle float64
		want  Vec3
	}{
		{"zero rotation", Vec3{X: 1, Y: 2, Z: 3}, 0, Vec3{X: 1, Y: 2, Z: 3}},
		{"quarter turn", Vec3{X: 1, Y: 0, Z: 5}, 90, Vec3{X: 0, Y: 1, Z: 5}},
		{"half turn", Vec3{X: 1, Y: 1, Z: 0}, 180, Vec3{X: -1, Y: -1, Z: 0}},
		{"negative quarter", Vec3{X: 0, Y: 1, Z: -2}, -90, Vec3{X: 1, Y: 0, Z: -2}},
		{"full turn", Vec3{X: 3, Y: -4, Z: 1}, 360, Vec3{X: 3, Y: -4, Z: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotateXY(tt.in, tt.angle)
			if !approxEqual(got.X, tt.want.X) || !approxEqual(got.Y, tt.want.Y) || !approxEqual(got.Z, tt.want.Z) {
				t.Errorf("RotateXY(%v, %v) = %v, want %v", tt.in, tt.angle, got, tt.want)
			}
		})
	}
}

func TestRotateXYPreservesZ(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 42.5}
	for _, angle := range []float64{0, 15, 90, 123.4, -270, 720} {
		got := RotateXY(v, angle)
		if got.Z != v.Z {
			t.Errorf("RotateXY(%v, %v) changed Z: %v", v, angle, got.Z)
		}
	}
}

func TestRotateXYInvalidAngle(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	for _, angle := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		got := RotateXY(v, angle)
		if got != v {
			t.Errorf("RotateXY(%v, %v) = %v, want unchanged", v, angle, got)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{181, -179},
		{360, 0},
		{-360, 0},
		{540, 180},
		{-540, 180},
		{90, 90},
		{-90, -90},
		{720.5, 0.5},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		if !approxEqual(got, tt.want) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAngleIdempotent(t *testing.T) {
	for _, a := range []float64{-1000, -180.0001, -180, -17.3, 0, 45, 180, 180.0001, 999} {
		once := NormalizeAngle(a)
		twice := NormalizeAngle(once)
		if once != twice {
			t.Errorf("NormalizeAngle not idempotent for %v: %v != %v", a, once, twice)
		}
		if once <= -180 || once > 180 {
			t.Errorf("NormalizeAngle(%v) = %v outside (-180, 180]", a, once)
		}
	}
}

func TestVecAddSub(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -4, Y: 5, Z: 0.5}
	sum := a.Add(b)
	if sum != (Vec3{X: -3, Y: 7, Z: 3.5}) {
		t.Errorf("Add = %v", sum)
	}
	if diff := sum.Sub(b); diff != a {
		t.Errorf("Sub round-trip = %v, want %v", diff, a)
	}
}
