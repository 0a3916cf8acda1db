package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-4

func approxVec(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, tolerance)
}

// TestRotation verifies each axis rotates a quarter turn in the right-handed sense
func TestRotation(t *testing.T) {
	tests := []struct {
		axis Axis
		in   mgl32.Vec3
		want mgl32.Vec3
	}{
		{XAxis, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{YAxis, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{ZAxis, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		got := Rotation(tt.axis, math.Pi/2).Mul4x1(tt.in.Vec4(1)).Vec3()
		if !approxVec(got, tt.want) {
			t.Errorf("Axis %d: expected %v, got %v", tt.axis, tt.want, got)
		}
	}

	if Rotation(Axis(7), 1) != mgl32.Ident4() {
		t.Error("Expected identity for unknown axis")
	}
}

// TestNewState verifies the default pose looks down -Z
func TestNewState(t *testing.T) {
	s := NewState(mgl32.Vec3{0, 0, 2})

	if !approxVec(s.Front, mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Expected front (0,0,-1), got %v", s.Front)
	}
	if !approxVec(s.Up, mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Expected up (0,1,0), got %v", s.Up)
	}
	if s.Zoom != DefaultZoom {
		t.Errorf("Expected zoom %v, got %v", DefaultZoom, s.Zoom)
	}
}

// TestUpdateKeyboard verifies movement along front and right
func TestUpdateKeyboard(t *testing.T) {
	s := NewState(mgl32.Vec3{0, 0, 2})

	moved := Update(s, Input{Forward: true}, 1)
	if !approxVec(moved.Position, mgl32.Vec3{0, 0, 2 - DefaultSpeed}) {
		t.Errorf("Expected forward move to z=%v, got %v", 2-DefaultSpeed, moved.Position)
	}

	strafed := Update(s, Input{Right: true}, 0.5)
	if !approxVec(strafed.Position, mgl32.Vec3{DefaultSpeed * 0.5, 0, 2}) {
		t.Errorf("Expected strafe to x=%v, got %v", DefaultSpeed*0.5, strafed.Position)
	}

	still := Update(s, Input{Forward: true, Backward: true}, 1)
	if !approxVec(still.Position, s.Position) {
		t.Errorf("Expected opposite keys to cancel, got %v", still.Position)
	}

	if !approxVec(s.Position, mgl32.Vec3{0, 0, 2}) {
		t.Errorf("Update must not modify its argument, position is now %v", s.Position)
	}
}

// TestUpdateLookAndZoom verifies pitch and zoom are clamped
func TestUpdateLookAndZoom(t *testing.T) {
	s := NewState(mgl32.Vec3{0, 0, 2})

	s = Update(s, Input{Look: true, MouseDY: 10000}, 0.016)
	if s.Pitch != MaxPitch {
		t.Errorf("Expected pitch clamped to %v, got %v", MaxPitch, s.Pitch)
	}

	ignored := Update(s, Input{MouseDX: 500}, 0.016)
	if ignored.Yaw != s.Yaw {
		t.Errorf("Expected mouse to be ignored without Look, yaw %v -> %v", s.Yaw, ignored.Yaw)
	}

	s = Update(s, Input{Scroll: 100}, 0.016)
	if s.Zoom != MinZoom {
		t.Errorf("Expected zoom clamped to %v, got %v", MinZoom, s.Zoom)
	}
	s = Update(s, Input{Scroll: -100}, 0.016)
	if s.Zoom != MaxZoom {
		t.Errorf("Expected zoom clamped to %v, got %v", MaxZoom, s.Zoom)
	}
}

// TestOrbit verifies orbiting keeps the distance and faces the centre
func TestOrbit(t *testing.T) {
	center := mgl32.Vec3{0.5, 0.5, 0.5}
	s := NewState(mgl32.Vec3{0.5, 0.5, 2.5})
	radius := s.Position.Sub(center).Len()

	for _, axis := range []Axis{XAxis, YAxis, ZAxis} {
		o := s
		for i := 0; i < 100; i++ {
			o = Orbit(o, axis, OrbitStep, center)
		}

		if d := o.Position.Sub(center).Len(); math.Abs(float64(d-radius)) > 1e-3 {
			t.Errorf("Axis %d: expected distance %v, got %v", axis, radius, d)
		}

		toCenter := center.Sub(o.Position).Normalize()
		if !approxVec(o.Front, toCenter) {
			t.Errorf("Axis %d: expected front %v, got %v", axis, toCenter, o.Front)
		}
	}

	// Half a turn about Y puts the camera on the opposite side.
	half := Orbit(s, YAxis, math.Pi, center)
	if !approxVec(half.Position, mgl32.Vec3{0.5, 0.5, -1.5}) {
		t.Errorf("Expected position (0.5,0.5,-1.5), got %v", half.Position)
	}
}

// TestUpdateOrbit verifies orbit input applies a single step per frame
func TestUpdateOrbit(t *testing.T) {
	s := NewState(mgl32.Vec3{0, 0, 2})
	in := Input{Orbit: &OrbitInput{Axis: YAxis, Direction: -1}}

	got := Update(s, in, 0.016)
	want := Orbit(s, YAxis, -OrbitStep, mgl32.Vec3{})
	if !approxVec(got.Position, want.Position) {
		t.Errorf("Expected %v, got %v", want.Position, got.Position)
	}

	// Orbit keeps yaw and pitch in step with front, so a tiny look barely moves it.
	looked := Update(got, Input{Look: true, MouseDX: 1e-3}, 0.016)
	if !approxVec(looked.Front, got.Front) {
		t.Errorf("Expected front %v after idle look, got %v", got.Front, looked.Front)
	}
}

// TestViewProjection verifies the matrices place the target in front of the camera
func TestViewProjection(t *testing.T) {
	s := NewState(mgl32.Vec3{0, 0, 2})

	view := View(s)
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if math.Abs(float64(origin.Z()+2)) > tolerance {
		t.Errorf("Expected origin at view depth -2, got %v", origin)
	}

	clip := Projection(s, 800, 800).Mul4x1(origin)
	ndc := clip.Vec3().Mul(1 / clip.W())
	if math.Abs(float64(ndc.X())) > tolerance || math.Abs(float64(ndc.Y())) > tolerance {
		t.Errorf("Expected origin at screen centre, got %v", ndc)
	}
	if ndc.Z() < -1 || ndc.Z() > 1 {
		t.Errorf("Expected origin inside depth range, got %v", ndc.Z())
	}
}

// TestPointer verifies drag deltas and reset between drags
func TestPointer(t *testing.T) {
	p := NewPointer(800, 800)

	p, dx, dy := p.Move(100, 100, true)
	if dx != 0 || dy != 0 {
		t.Errorf("Expected zero delta on first drag sample, got %v,%v", dx, dy)
	}

	p, dx, dy = p.Move(110, 95, true)
	if dx != 10 || dy != -5 {
		t.Errorf("Expected delta 10,-5, got %v,%v", dx, dy)
	}

	p, _, _ = p.Move(500, 500, false)
	if !p.Fresh {
		t.Error("Expected pointer to reset after release")
	}

	_, dx, dy = p.Move(600, 600, true)
	if dx != 0 || dy != 0 {
		t.Errorf("Expected no jump after release, got %v,%v", dx, dy)
	}
}
