package model

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a rigid transform: a translation followed by a rotation.
// Rotations are unit quaternions (gonum spatial/r3 convention).
type Pose struct {
	Translation r3.Vec
	Rotation    r3.Rotation
}

// IdentityPose returns the identity transform.
func IdentityPose() Pose {
	return Pose{Rotation: r3.Rotation(quat.Number{Real: 1})}
}

// Mul composes two poses: the result applies q first, then p.
func (p Pose) Mul(q Pose) Pose {
	return Pose{
		Translation: r3.Add(p.Translation, p.Rotation.Rotate(q.Translation)),
		Rotation:    r3.Rotation(quat.Mul(quat.Number(p.Rotation), quat.Number(q.Rotation))),
	}
}

// Inverse returns the inverse transform.
func (p Pose) Inverse() Pose {
	inv := r3.Rotation(quat.Conj(quat.Number(p.Rotation)))
	return Pose{
		Translation: r3.Scale(-1, inv.Rotate(p.Translation)),
		Rotation:    inv,
	}
}

// TranslationDistance returns the Euclidean distance between the two
// pose origins.
func (p Pose) TranslationDistance(q Pose) float64 {
	return r3.Norm(r3.Sub(p.Translation, q.Translation))
}

// AngularDistance returns the absolute rotation angle (radians) between
// the two pose orientations.
func (p Pose) AngularDistance(q Pose) float64 {
	rel := quat.Mul(quat.Conj(quat.Number(p.Rotation)), quat.Number(q.Rotation))
	// Clamp against numeric drift before acos.
	c := math.Abs(rel.Real)
	if c > 1 {
		c = 1
	}
	return 2 * math.Acos(c)
}

// normalize returns q scaled to unit length, or identity for a
// degenerate zero quaternion.
func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// PoseFromVariables builds a pose from a 7-variable floating joint layout
// (x, y, z, qx, qy, qz, qw). The quaternion is normalized.
func PoseFromVariables(v []float64) Pose {
	q := normalize(quat.Number{Real: v[6], Imag: v[3], Jmag: v[4], Kmag: v[5]})
	return Pose{
		Translation: r3.Vec{X: v[0], Y: v[1], Z: v[2]},
		Rotation:    r3.Rotation(q),
	}
}

// PoseFromPlanarVariables builds a pose from a 3-variable planar joint
// layout (x, y, theta). The rotation is about the Z axis.
func PoseFromPlanarVariables(v []float64) Pose {
	return Pose{
		Translation: r3.Vec{X: v[0], Y: v[1]},
		Rotation:    r3.NewRotation(v[2], r3.Vec{Z: 1}),
	}
}

// Variables writes the pose into a 7-variable floating joint layout.
func (p Pose) Variables(out []float64) {
	q := quat.Number(p.Rotation)
	out[0], out[1], out[2] = p.Translation.X, p.Translation.Y, p.Translation.Z
	out[3], out[4], out[5], out[6] = q.Imag, q.Jmag, q.Kmag, q.Real
}
