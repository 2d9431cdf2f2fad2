package doc

import "github.com/wudi/framepdf/geo"

// Color is an sRGB color with alpha.
type Color struct {
	R, G, B, A uint8
}

// Black is fully opaque black.
func Black() Color { return Color{A: 255} }

// Paint is one of Solid, *Gradient, or *Pattern.
type Paint interface{ paint() }

// Solid paints a single color.
type Solid struct {
	Color Color
}

// GradientKind selects the gradient geometry.
type GradientKind uint8

const (
	LinearGradient GradientKind = iota
	RadialGradient
)

// RelativeTo selects the coordinate frame a gradient or pattern is
// resolved against.
type RelativeTo uint8

const (
	// RelativeParent resolves against the innermost hard frame.
	RelativeParent RelativeTo = iota
	// RelativeSelf resolves against the bounding box of the painted item.
	RelativeSelf
)

// GradientStop is a color at a normalized offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// Gradient describes a linear or radial color ramp. Geometry fields are
// fractions of the reference frame the gradient is relative to.
type Gradient struct {
	Kind     GradientKind
	Stops    []GradientStop
	Relative RelativeTo
	Angle    float64   // linear: direction in radians
	Center   geo.Point // radial: center as fractions of the frame
	Radius   float64   // radial: radius as a fraction of the frame
}

// Pattern tiles a frame across the painted area.
type Pattern struct {
	Frame    *Frame
	Size     geo.Size // tile size
	Spacing  geo.Size // gap between tiles
	Relative RelativeTo
}

func (Solid) paint()     {}
func (*Gradient) paint() {}
func (*Pattern) paint()  {}

// FillRule selects how path interiors are determined.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

// LineCap is the stroke end-cap style.
type LineCap uint8

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

// LineJoin is the stroke corner style.
type LineJoin uint8

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

// DashPattern is an on/off dash sequence with a phase offset.
type DashPattern struct {
	Array []float64
	Phase float64
}

// FixedStroke is a fully resolved stroke style.
type FixedStroke struct {
	Paint      Paint
	Thickness  float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dash       *DashPattern // optional
}
