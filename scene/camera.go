// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/g3d/math3"
	"github.com/gogpu/g3d/shading"
)

// pitchLimit keeps the pitch just inside +-pi/2 so the view matrix never
// degenerates at the poles.
const pitchLimit = math32.Pi/2 - 0.0001

// Camera default pose and projection, matching the viewer defaults.
const (
	DefaultYaw   = -math32.Pi / 2     // looking down -Z
	DefaultPitch = -20 * math32.Pi / 180
	DefaultFovy  = 45 * math32.Pi / 180
	DefaultNear  = 0.1
	DefaultFar   = 100.0
)

// Projection is a right-handed perspective projection producing WebGPU
// [0,1] clip depth.
type Projection struct {
	Fovy   float32 // vertical field of view, radians
	Aspect float32 // width / height
	Near   float32
	Far    float32
}

// Matrix returns the projection matrix: a [-1,1]-depth perspective
// remapped into [0,1] depth.
func (p Projection) Matrix() math3.Mat4 {
	return math3.DepthRemap().Mul(math3.Perspective(p.Fovy, p.Aspect, p.Near, p.Far))
}

// Resize updates the aspect ratio for a new target size.
func (p *Projection) Resize(width, height int) {
	if height > 0 {
		p.Aspect = float32(width) / float32(height)
	}
}

// Camera is a yaw/pitch fly camera. Yaw and pitch are radians; yaw -pi/2
// looks down -Z, pitch 0 is level.
type Camera struct {
	Position math3.Vec3
	Yaw      float32
	Pitch    float32
	Proj     Projection
}

// NewCamera returns a camera at the default viewer pose: above and
// behind the origin, looking slightly down at it.
func NewCamera() *Camera {
	return &Camera{
		Position: math3.V3(0, 5, 10),
		Yaw:      DefaultYaw,
		Pitch:    DefaultPitch,
		Proj:     Projection{Fovy: DefaultFovy, Aspect: 1, Near: DefaultNear, Far: DefaultFar},
	}
}

// Front returns the unit view direction derived from yaw and pitch.
func (c *Camera) Front() math3.Vec3 {
	cp := math32.Cos(c.Pitch)
	return math3.V3(
		math32.Cos(c.Yaw)*cp,
		math32.Sin(c.Pitch),
		math32.Sin(c.Yaw)*cp,
	).Normalize()
}

// View returns the world-to-view matrix.
func (c *Camera) View() math3.Mat4 {
	return math3.LookTo(c.Position, c.Front(), math3.V3(0, 1, 0))
}

// ViewProj returns the combined view-projection matrix.
func (c *Camera) ViewProj() math3.Mat4 {
	return c.Proj.Matrix().Mul(c.View())
}

// Uniform returns the camera's shading uniform for the current pose.
func (c *Camera) Uniform() shading.CameraUniform {
	front := c.Front()
	return shading.CameraUniform{
		ViewPos:   math3.Point4(c.Position),
		ViewFront: math3.Dir4(front),
		ViewProj:  c.ViewProj(),
	}
}

// Controller turns host-supplied movement and rotation deltas into
// camera motion. It is pure math: hosts feed whatever input events they
// have, then call Update once per frame.
type Controller struct {
	Speed       float32 // world units per second
	Sensitivity float32 // radians per rotation delta unit

	forward, right, up, scroll float32
	rotX, rotY                 float32
}

// NewController returns a controller with the default speed and
// sensitivity.
func NewController() *Controller {
	return &Controller{Speed: 4.0, Sensitivity: 0.01}
}

// Move accumulates movement amounts for the next Update: forward along
// the yaw heading, right strafing, up along world +Y, and scrollward
// along the full view direction (including pitch).
func (ct *Controller) Move(forward, right, up, scrollward float32) {
	ct.forward += forward
	ct.right += right
	ct.up += up
	ct.scroll += scrollward
}

// Rotate accumulates yaw (dx) and pitch (dy) rotation deltas for the
// next Update. Positive dy pitches the view down.
func (ct *Controller) Rotate(dx, dy float32) {
	ct.rotX += dx
	ct.rotY += dy
}

// Update applies the accumulated deltas to cam and resets them. Movement
// scales by Speed and dt; rotation scales by Sensitivity only, since
// rotation deltas are already per-event quantities. Pitch clamps just
// inside +-pi/2.
func (ct *Controller) Update(cam *Camera, dt float32) {
	yawSin, yawCos := math32.Sincos(cam.Yaw)

	heading := math3.V3(yawCos, 0, yawSin)
	strafe := math3.V3(-yawSin, 0, yawCos)
	cam.Position = cam.Position.Add(heading.Scale(ct.forward * ct.Speed * dt))
	cam.Position = cam.Position.Add(strafe.Scale(ct.right * ct.Speed * dt))
	cam.Position.Y += ct.up * ct.Speed * dt
	cam.Position = cam.Position.Add(cam.Front().Scale(ct.scroll * ct.Speed * ct.Sensitivity * dt))

	cam.Yaw += ct.rotX * ct.Sensitivity
	cam.Pitch -= ct.rotY * ct.Sensitivity
	if cam.Pitch > pitchLimit {
		cam.Pitch = pitchLimit
	} else if cam.Pitch < -pitchLimit {
		cam.Pitch = -pitchLimit
	}

	ct.forward, ct.right, ct.up, ct.scroll = 0, 0, 0, 0
	ct.rotX, ct.rotY = 0, 0
}
