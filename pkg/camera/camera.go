// Package camera holds the orbit camera used to inspect the smoke volume.
//
// All state lives in value types. Update, Orbit and Pointer.Move return a new
// value rather than mutating shared state, so a render loop owns exactly one
// State and feeds it the input gathered for the frame.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for a fly-through camera
const (
	DefaultYaw         = -90.0
	DefaultPitch       = 0.0
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.1
	DefaultZoom        = 45.0

	MinZoom  = 1.0
	MaxZoom  = 45.0
	MaxPitch = 89.0

	// OrbitStep is the rotation applied per frame while an orbit key is held
	OrbitStep = 0.01

	NearPlane = 0.1
	FarPlane  = 100.0
)

// Axis names a world axis
type Axis int

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// Vec returns the unit vector along the axis
func (a Axis) Vec() mgl32.Vec3 {
	switch a {
	case XAxis:
		return mgl32.Vec3{1, 0, 0}
	case YAxis:
		return mgl32.Vec3{0, 1, 0}
	case ZAxis:
		return mgl32.Vec3{0, 0, 1}
	default:
		return mgl32.Vec3{}
	}
}

// Rotation returns the homogeneous rotation of angle radians about the axis.
// An unknown axis yields the identity.
func Rotation(axis Axis, angle float32) mgl32.Mat4 {
	switch axis {
	case XAxis:
		return mgl32.HomogRotate3DX(angle)
	case YAxis:
		return mgl32.HomogRotate3DY(angle)
	case ZAxis:
		return mgl32.HomogRotate3DZ(angle)
	default:
		return mgl32.Ident4()
	}
}

// State is the camera pose. Angles are in degrees.
type State struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	WorldUp  mgl32.Vec3

	Yaw   float32
	Pitch float32
	Zoom  float32

	Speed       float32
	Sensitivity float32
}

// NewState places a camera at position looking down -Z
func NewState(position mgl32.Vec3) State {
	s := State{
		Position:    position,
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         DefaultYaw,
		Pitch:       DefaultPitch,
		Zoom:        DefaultZoom,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
	}
	return s.withAngles()
}

// withAngles recomputes Front, Right and Up from Yaw and Pitch
func (s State) withAngles() State {
	yaw := float64(mgl32.DegToRad(s.Yaw))
	pitch := float64(mgl32.DegToRad(s.Pitch))
	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	s.Front = front.Normalize()
	s.Right = s.Front.Cross(s.WorldUp).Normalize()
	s.Up = s.Right.Cross(s.Front).Normalize()
	return s
}

// withFront sets Front directly and derives Yaw and Pitch from it
func (s State) withFront(front mgl32.Vec3) State {
	if front.Len() == 0 {
		return s
	}
	front = front.Normalize()
	s.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(front.Z()), float64(front.X()))))
	s.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(front.Y(), -1, 1)))))
	s.Front = front
	s.Right = s.Front.Cross(s.WorldUp).Normalize()
	s.Up = s.Right.Cross(s.Front).Normalize()
	return s
}

// OrbitInput requests a rotation about Center for this frame
type OrbitInput struct {
	Axis Axis

	// Direction is +1 or -1
	Direction float32

	Center mgl32.Vec3
}

// Input is everything the camera reacts to in one frame
type Input struct {
	Forward, Backward, Left, Right bool

	// Look enables mouse look for MouseDX / MouseDY
	Look bool

	MouseDX, MouseDY float32
	Scroll           float32

	Orbit *OrbitInput
}

// Update applies one frame of input. dt is the frame time in seconds.
func Update(s State, in Input, dt float32) State {
	velocity := s.Speed * dt
	if in.Forward {
		s.Position = s.Position.Add(s.Front.Mul(velocity))
	}
	if in.Backward {
		s.Position = s.Position.Sub(s.Front.Mul(velocity))
	}
	if in.Left {
		s.Position = s.Position.Sub(s.Right.Mul(velocity))
	}
	if in.Right {
		s.Position = s.Position.Add(s.Right.Mul(velocity))
	}

	if in.Orbit != nil && in.Orbit.Direction != 0 {
		s = Orbit(s, in.Orbit.Axis, in.Orbit.Direction*OrbitStep, in.Orbit.Center)
	}

	if in.Look && (in.MouseDX != 0 || in.MouseDY != 0) {
		s.Yaw += in.MouseDX * s.Sensitivity
		s.Pitch = mgl32.Clamp(s.Pitch+in.MouseDY*s.Sensitivity, -MaxPitch, MaxPitch)
		s = s.withAngles()
	}

	if in.Scroll != 0 {
		s.Zoom = mgl32.Clamp(s.Zoom-in.Scroll, MinZoom, MaxZoom)
	}

	return s
}

// Orbit rotates the camera position by angle radians about an axis through
// center and turns the camera to face center.
func Orbit(s State, axis Axis, angle float32, center mgl32.Vec3) State {
	toOrigin := mgl32.Translate3D(-center.X(), -center.Y(), -center.Z())
	back := mgl32.Translate3D(center.X(), center.Y(), center.Z())
	transform := back.Mul4(Rotation(axis, angle)).Mul4(toOrigin)

	s.Position = transform.Mul4x1(s.Position.Vec4(1)).Vec3()
	return s.withFront(center.Sub(s.Position))
}

// View returns the look-at matrix for the pose
func View(s State) mgl32.Mat4 {
	return mgl32.LookAtV(s.Position, s.Position.Add(s.Front), s.Up)
}

// Projection returns the perspective matrix for a framebuffer of the given size
func Projection(s State, width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(s.Zoom), aspect, NearPlane, FarPlane)
}

// Pointer turns absolute cursor positions into per-frame deltas
type Pointer struct {
	LastX, LastY float64

	// Fresh is set until the first position of a drag has been seen
	Fresh bool
}

// NewPointer starts a pointer at the framebuffer centre
func NewPointer(width, height int) Pointer {
	return Pointer{LastX: float64(width) / 2, LastY: float64(height) / 2, Fresh: true}
}

// Move records a cursor position. While dragging is false the pointer is
// reset so the next drag does not jump.
func (p Pointer) Move(x, y float64, dragging bool) (Pointer, float32, float32) {
	if !dragging {
		p.Fresh = true
		return p, 0, 0
	}
	if p.Fresh {
		p.LastX, p.LastY = x, y
		p.Fresh = false
	}
	dx := float32(x - p.LastX)
	dy := float32(y - p.LastY)
	p.LastX, p.LastY = x, y
	return p, dx, dy
}
