package surface

import "github.com/wudi/framepdf/geo"

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

// Color is an opaque sRGB color; opacity travels separately on Fill and
// Stroke.
type Color struct {
	R, G, B uint8
}

// Paint is one of Solid, *LinearGradient, *RadialGradient, or
// *TilingPattern.
type Paint interface{ isPaint() }

// Solid paints a single color.
type Solid struct {
	Color Color
}

// Stop is a gradient color stop at a normalized offset.
type Stop struct {
	Offset float64
	Color  Color
}

// LinearGradient interpolates stops along the axis From-To. Transform
// maps gradient coordinates to page coordinates.
type LinearGradient struct {
	Transform geo.Matrix
	From, To  geo.Point
	Stops     []Stop
}

// RadialGradient interpolates stops outward from Center to Radius.
type RadialGradient struct {
	Transform geo.Matrix
	Center    geo.Point
	Radius    float64
	Stops     []Stop
}

// TilingPattern repeats a tile across the painted area. Draw renders
// one tile onto the surface the backend hands it; the backend decides
// where that surface writes to.
type TilingPattern struct {
	Transform geo.Matrix
	Size      geo.Size
	Spacing   geo.Size
	Draw      func(Surface) error
}

func (Solid) isPaint()           {}
func (*LinearGradient) isPaint() {}
func (*RadialGradient) isPaint() {}
func (*TilingPattern) isPaint()  {}

// Fill styles a fill operation.
type Fill struct {
	Paint   Paint
	Rule    FillRule
	Opacity float64 // 0..1
}

// Dash is an on/off dash sequence with a phase offset.
type Dash struct {
	Array []float64
	Phase float64
}

// Stroke styles a stroke operation.
type Stroke struct {
	Paint      Paint
	Width      float64
	MiterLimit float64
	Cap        LineCap
	Join       LineJoin
	Dash       *Dash // optional
	Opacity    float64
}
