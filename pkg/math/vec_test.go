package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	if got := v.Length(); got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 0}.Normalize()
	if !n.ApproxEqual(Vec3{0.6, 0.8, 0}, 1e-12) {
		t.Errorf("Vec3.Normalize() = %v, want (0.6, 0.8, 0)", n)
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero vector should normalize to zero, got %v", z)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got := a.Min(b); got != (Vec3{1, -1, -2}) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, 0}) {
		t.Errorf("Max = %v", got)
	}
}

func TestV3RoundTrip(t *testing.T) {
	a := [3]float64{1, 2, 3}
	if got := V3(a).Array(); got != a {
		t.Errorf("V3(...).Array() = %v, want %v", got, a)
	}
}
