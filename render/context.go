package render

import "github.com/wudi/framepdf/geo"

// State is one entry of the frame context stack.
type State struct {
	// TransformChain accumulates every ancestor transform from the page
	// origin to the current drawing cursor.
	TransformChain geo.Matrix
	// Transform is the transform of the current item relative to the
	// enclosing stack frame; link rectangles are computed through it.
	Transform geo.Matrix
	// ContainerTransformChain is TransformChain frozen at the nearest
	// enclosing hard frame.
	ContainerTransformChain geo.Matrix
	// ContainerSize is the size of that hard frame.
	ContainerSize geo.Size
}

// Concat applies t to the current item and the chain, pre-concatenated
// in document order.
func (s *State) Concat(t geo.Matrix) {
	s.Transform = s.Transform.PreConcat(t)
	s.TransformChain = s.TransformChain.PreConcat(t)
}

// SetContainerTransform freezes the container chain at the current
// transform chain.
func (s *State) SetContainerTransform() {
	s.ContainerTransformChain = s.TransformChain
}

// SetContainerSize freezes the container size.
func (s *State) SetContainerSize(size geo.Size) {
	s.ContainerSize = size
}

// Transforms projects the state for paint construction.
func (s *State) Transforms(itemSize geo.Size) Transforms {
	return Transforms{
		TransformChain:          s.TransformChain,
		Transform:               s.Transform,
		ContainerTransformChain: s.ContainerTransformChain,
		ContainerSize:           s.ContainerSize,
		Size:                    itemSize,
	}
}

// Transforms is the read-only record gradient and pattern construction
// consumes.
type Transforms struct {
	TransformChain          geo.Matrix
	Transform               geo.Matrix
	ContainerTransformChain geo.Matrix
	ContainerSize           geo.Size
	Size                    geo.Size
}

// FrameContext is the non-empty stack of states threaded through the
// frame recursion.
type FrameContext struct {
	states []State
}

// NewFrameContext seeds the stack for a page of the given size: chains
// are identity and the container is the page itself.
func NewFrameContext(size geo.Size) *FrameContext {
	return &FrameContext{states: []State{{
		TransformChain:          geo.Identity(),
		Transform:               geo.Identity(),
		ContainerTransformChain: geo.Identity(),
		ContainerSize:           size,
	}}}
}

// Push duplicates the top state.
func (c *FrameContext) Push() {
	c.states = append(c.states, c.states[len(c.states)-1])
}

// Pop removes the top state. The stack never drops below one entry.
func (c *FrameContext) Pop() {
	if len(c.states) <= 1 {
		panic("render: frame context stack underflow")
	}
	c.states = c.states[:len(c.states)-1]
}

// State returns the mutable top of the stack.
func (c *FrameContext) State() *State {
	return &c.states[len(c.states)-1]
}

// Depth returns the stack length.
func (c *FrameContext) Depth() int { return len(c.states) }
