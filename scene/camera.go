package scene

import (
	"fmt"

	"github.com/rigeltrace/rigel/geom"
	"github.com/rigeltrace/rigel/types"
)

// Stores the ray directions at the four corners of the camera frustrum. It is
// used as a shortcut for generating per pixel rays via interpolation of the
// corner rays. While we don't care about the W coordinate we use Vec4 so the
// corner data can be uploaded as a vectorized float4 block.
type Frustrum [4]types.Vec4

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Pitch    float32
	Yaw      float32

	ViewMat  types.Mat4
	ProjMat  types.Mat4
	Frustrum Frustrum

	// Camera FOV in degrees.
	FOV float32

	// Adjust the frustrum so that Y is inverted
	InvertY bool
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		ViewMat:  types.Ident4(),
		ProjMat:  types.Ident4(),
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = types.Perspective4(c.FOV, aspect, 1, 1000)
	c.Update()
}

// Update camera view matrix and frustrum corner rays after a position or
// orientation change.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	pitchAxis := dir.Cross(c.Up)
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
	yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()

	// Update direction
	dir = orientQuat.Rotate(dir)
	c.LookAt = c.Position.Add(dir.Mul(1.0))

	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
	c.updateFrustrum()
}

func (c *Camera) InvViewProjMat() types.Mat4 {
	return c.ProjMat.Mul4(c.ViewMat).Inv()
}

// PrimaryRay generates the primary ray through the center of pixel (x, y) on
// a w by h pixel frame by bilinear interpolation of the frustrum corner rays.
func (c *Camera) PrimaryRay(x, y, w, h int) geom.Ray {
	tx := (float32(x) + 0.5) / float32(w)
	ty := (float32(y) + 0.5) / float32(h)

	top := lerpVec3(c.Frustrum[0].Vec3(), c.Frustrum[1].Vec3(), tx)
	bottom := lerpVec3(c.Frustrum[2].Vec3(), c.Frustrum[3].Vec3(), tx)

	return geom.New(c.Position, lerpVec3(top, bottom, ty))
}

func lerpVec3(a, b types.Vec3, t float32) types.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Generate a ray vector for each corner of the camera frustrum by
// multiplying clip space vectors for each corner with the inv proj/view
// matrix, applying perspective and subtracting the camera eye position.
func (c *Camera) updateFrustrum() {
	var v types.Vec4
	invProjViewMat := c.InvViewProjMat()

	var yUp float32 = 1.0
	if c.InvertY {
		yUp = -1.0
	}

	v = invProjViewMat.Mul4x1(types.XYZW(-1, yUp, -1, 1))
	c.Frustrum[0] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)

	v = invProjViewMat.Mul4x1(types.XYZW(1, yUp, -1, 1))
	c.Frustrum[1] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)

	v = invProjViewMat.Mul4x1(types.XYZW(-1, -yUp, -1, 1))
	c.Frustrum[2] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)

	v = invProjViewMat.Mul4x1(types.XYZW(1, -yUp, -1, 1))
	c.Frustrum[3] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)
}
