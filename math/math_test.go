package math

import (
	"math"
	"testing"
)

func approx(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	if got, want := v1.Add(v2), NewVec3(5, 7, 9); got != want {
		t.Errorf("Add: expected %v, got %v", want, got)
	}
	if got, want := v2.Sub(v1), NewVec3(3, 3, 3); got != want {
		t.Errorf("Sub: expected %v, got %v", want, got)
	}
	if got, want := v1.MulVec(v2), NewVec3(4, 10, 18); got != want {
		t.Errorf("MulVec: expected %v, got %v", want, got)
	}
	if dot := v1.Dot(v2); dot != 32 {
		t.Errorf("Dot: expected 32, got %v", dot)
	}

	// Right x Up = Front in a right-handed system
	if cross := Vec3Right.Cross(Vec3Up); cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Reflect(t *testing.T) {
	in := NewVec3(1, -1, 0)
	got := in.Reflect(Vec3Up)
	if got != NewVec3(1, 1, 0) {
		t.Errorf("Reflect: expected (1,1,0), got %v", got)
	}
}

func TestLerpEndpoints(t *testing.T) {
	a, b := NewVec3(0.04, 0.04, 0.04), NewVec3(0.2, 0.4, 0.6)
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0): expected %v, got %v", a, got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1): expected %v, got %v", b, got)
	}
	p, q := NewVec4(0.04, 0.1, 0.3, 1), NewVec4(0.2, 0.7, 0.9, 0)
	if got := p.Lerp(q, 1); got != q {
		t.Errorf("Vec4 Lerp(1): expected %v, got %v", q, got)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := Vec3Zero.Normalize(); got != Vec3Zero {
		t.Errorf("Normalize(zero): expected zero, got %v", got)
	}
	n := NewVec3(3, 0, 4).Normalize()
	if !approx(n.Length(), 1, 1e-6) {
		t.Errorf("Normalize: expected length 1, got %v", n.Length())
	}
}

func TestIsFinite(t *testing.T) {
	nan := float32(math.NaN())
	if NewVec3(0, nan, 0).IsFinite() {
		t.Error("IsFinite: NaN component reported finite")
	}
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("IsFinite: finite vector reported non-finite")
	}
}

func TestClampAndMix(t *testing.T) {
	tests := []struct {
		x, lo, hi, want float32
	}{
		{-1, 0, 1, 0},
		{0.5, 0, 1, 0.5},
		{3, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.x, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.x, tt.lo, tt.hi, got, tt.want)
		}
	}
	if got := Mix(2, 4, 0.25); got != 2.5 {
		t.Errorf("Mix: expected 2.5, got %v", got)
	}
	if got := Asin(1.0000001); !approx(got, Pi/2, 1e-6) {
		t.Errorf("Asin: expected pi/2 for slightly out-of-range input, got %v", got)
	}
}

func TestMat4Multiplication(t *testing.T) {
	a := Mat4Translation(NewVec3(1, 2, 3))
	b := Mat4Scale(NewVec3(2, 2, 2))

	// Row vectors: translate first, then scale.
	got := a.Mul(b).MulPoint(Vec3Zero)
	if got != NewVec3(2, 4, 6) {
		t.Errorf("Mul: expected (2,4,6), got %v", got)
	}
	if id := Mat4Identity().Mul(Mat4Identity()); id != Mat4Identity() {
		t.Errorf("Mul: identity * identity = %v", id)
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if m[3][0] != 1 || m[3][1] != 2 || m[3][2] != 3 {
		t.Errorf("Translation: expected (1,2,3), got (%v,%v,%v)", m[3][0], m[3][1], m[3][2])
	}
	if got := m.MulPoint(Vec3Zero); got != translation {
		t.Errorf("Translation: expected %v, got %v", translation, got)
	}
	if got := m.MulDirection(Vec3Up); got != Vec3Up {
		t.Errorf("Translation must not move directions, got %v", got)
	}
}

func TestMat4Flat(t *testing.T) {
	m := Mat4Translation(NewVec3(7, 8, 9))
	flat := m.Flat()
	if flat[12] != 7 || flat[13] != 8 || flat[14] != 9 || flat[15] != 1 {
		t.Errorf("Flat: translation not in elements 12..14: %v", flat)
	}
	if m.Transpose().Transpose() != m {
		t.Error("Transpose twice should be identity")
	}
}

func TestMat4Perspective(t *testing.T) {
	near, far := float32(0.1), float32(100)
	m := Mat4Perspective(Pi/4, 16.0/9.0, near, far)

	// Points on the near and far planes map to NDC depth -1 and +1.
	p := NewVec3(0, 0, -near).ToVec4(1).MulMat(m)
	if !approx(p.Z/p.W, -1, 1e-4) {
		t.Errorf("Perspective: near plane depth = %v, want -1", p.Z/p.W)
	}
	p = NewVec3(0, 0, -far).ToVec4(1).MulMat(m)
	if !approx(p.Z/p.W, 1, 1e-4) {
		t.Errorf("Perspective: far plane depth = %v, want 1", p.Z/p.W)
	}
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	// The view matrix should transform the eye position to origin
	if got := m.MulPoint(eye); !approx(got.Length(), 0, 1e-4) {
		t.Errorf("LookAt: expected eye to transform to origin, got %v", got)
	}
	// and the target onto the negative Z axis.
	if got := m.MulPoint(Vec3Zero); !approx(got.Z, -5, 1e-4) {
		t.Errorf("LookAt: expected target at z=-5, got %v", got)
	}
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
