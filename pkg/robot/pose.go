package robot

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// AbsolutePose is a tool pose in the base frame. Position is in millimeters,
// Rotation is an axis-angle vector whose components are in degrees.
type AbsolutePose struct {
	Position r3.Vector
	Rotation r3.Vector
}

// NewAbsolutePose builds a pose from its six scalars.
func NewAbsolutePose(x, y, z, rx, ry, rz float64) AbsolutePose {
	return AbsolutePose{
		Position: r3.Vector{X: x, Y: y, Z: z},
		Rotation: r3.Vector{X: rx, Y: ry, Z: rz},
	}
}

// Apply returns the pose reached by executing d from p.
func (p AbsolutePose) Apply(d RelativeDelta) AbsolutePose {
	return AbsolutePose{
		Position: p.Position.Add(d.Translation),
		Rotation: p.Rotation.Add(d.Rotation),
	}
}

// ApproxEqual reports whether both poses agree within eps on every component.
func (p AbsolutePose) ApproxEqual(o AbsolutePose, eps float64) bool {
	return p.Position.Sub(o.Position).Norm() <= eps &&
		p.Rotation.Sub(o.Rotation).Norm() <= eps
}

// Array returns [x, y, z, rx, ry, rz].
func (p AbsolutePose) Array() [6]float64 {
	return [6]float64{
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Rotation.X, p.Rotation.Y, p.Rotation.Z,
	}
}

func (p AbsolutePose) String() string {
	return fmt.Sprintf("pos(%.1f, %.1f, %.1f) rot(%.1f, %.1f, %.1f)",
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Rotation.X, p.Rotation.Y, p.Rotation.Z)
}

// RelativeDelta is a motion expressed relative to the tool pose at the moment
// it executes. Translation is in millimeters, Rotation is axis-angle degrees.
type RelativeDelta struct {
	Translation r3.Vector
	Rotation    r3.Vector
}

// Translate returns a pure translation delta.
func Translate(x, y, z float64) RelativeDelta {
	return RelativeDelta{Translation: r3.Vector{X: x, Y: y, Z: z}}
}

// Rotate returns a pure rotation delta.
func Rotate(rx, ry, rz float64) RelativeDelta {
	return RelativeDelta{Rotation: r3.Vector{X: rx, Y: ry, Z: rz}}
}

// Array returns the delta as [x, y, z, rx, ry, rz], the order vendor SDKs use.
func (d RelativeDelta) Array() [6]float64 {
	return [6]float64{
		d.Translation.X, d.Translation.Y, d.Translation.Z,
		d.Rotation.X, d.Rotation.Y, d.Rotation.Z,
	}
}

// DeltaFromArray is the inverse of Array.
func DeltaFromArray(a [6]float64) RelativeDelta {
	return RelativeDelta{
		Translation: r3.Vector{X: a[0], Y: a[1], Z: a[2]},
		Rotation:    r3.Vector{X: a[3], Y: a[4], Z: a[5]},
	}
}

// Negate returns the delta that undoes d.
func (d RelativeDelta) Negate() RelativeDelta {
	return RelativeDelta{
		Translation: d.Translation.Mul(-1),
		Rotation:    d.Rotation.Mul(-1),
	}
}

func (d RelativeDelta) String() string {
	a := d.Array()
	return fmt.Sprintf("[%.1f, %.1f, %.1f, %.1f, %.1f, %.1f]", a[0], a[1], a[2], a[3], a[4], a[5])
}
