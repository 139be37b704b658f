// Package propfield implements the numeric-field editing rules of the
// property panel: axis/component addressing of a transform, linked-axis
// proportional edits, degree normalization for rotation inputs, and the
// fixed two-decimal display format.
package propfield

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/maquette/pkg/scene"
)

// Axis addresses one lane of a Vec3.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// ValidAxes is the set of accepted axis names.
var ValidAxes = map[Axis]bool{AxisX: true, AxisY: true, AxisZ: true}

// Get returns the addressed lane of v.
func (a Axis) Get(v scene.Vec3) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return 0
}

// Set returns v with the addressed lane replaced.
func (a Axis) Set(v scene.Vec3, f float64) scene.Vec3 {
	switch a {
	case AxisX:
		v.X = f
	case AxisY:
		v.Y = f
	case AxisZ:
		v.Z = f
	}
	return v
}

// Component addresses one Vec3 of a transform.
type Component string

const (
	CompPosition Component = "position"
	CompRotation Component = "rotation"
	CompScale    Component = "scale"
)

// ValidComponents is the set of accepted component names.
var ValidComponents = map[Component]bool{
	CompPosition: true,
	CompRotation: true,
	CompScale:    true,
}

// Get returns the addressed vector of t.
func (c Component) Get(t scene.Transform) scene.Vec3 {
	switch c {
	case CompPosition:
		return t.Position
	case CompRotation:
		return t.Rotation
	case CompScale:
		return t.Scale
	}
	return scene.Vec3{}
}

// Set returns t with the addressed vector replaced.
func (c Component) Set(t scene.Transform, v scene.Vec3) scene.Transform {
	switch c {
	case CompPosition:
		t.Position = v
	case CompRotation:
		t.Rotation = v
	case CompScale:
		t.Scale = v
	}
	return t
}

// LinkedSet applies a proportional edit: the addressed lane is set to
// value and the other lanes are scaled by the same ratio the edit
// applied (lanes at zero stay zero under multiplication). When the
// addressed lane is currently zero no ratio exists, so only that lane
// is set and the others are left alone.
func LinkedSet(current scene.Vec3, axis Axis, value float64) scene.Vec3 {
	cur := axis.Get(current)
	if cur == 0 {
		return axis.Set(current, value)
	}
	return current.Scale(value / cur)
}

// NormalizeDegrees folds an angle in degrees into (-180, 180].
// An input of 270 comes back as -90, and -180 as 180.
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// DegToRad converts degrees to radians. Rotation inputs are edited in
// degrees; the model stores radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Format renders a value the way field inputs display it: fixed two
// decimal places. Formatting a parsed two-decimal string reproduces
// the string exactly, so redisplay never drifts.
func Format(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	// Fold the sign after rounding: -0.001 rounds to -0.00, and a
	// signed zero must display the same as zero.
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// Parse reads a field input back into a number. Surrounding whitespace
// is tolerated; anything else non-numeric is an error.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("propfield: empty input")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("propfield: parse %q: %w", s, err)
	}
	return v, nil
}
