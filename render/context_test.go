package render

import (
	"testing"

	"github.com/wudi/framepdf/geo"
)

func TestFrameContextChainAccumulates(t *testing.T) {
	fc := NewFrameContext(geo.Size{W: 100, H: 100})
	fc.Push()
	fc.State().Concat(geo.Translate(10, 0))
	fc.Push()
	fc.State().Concat(geo.Translate(0, 20))

	if want := geo.Translate(10, 20); fc.State().TransformChain != want {
		t.Fatalf("chain = %v, want %v", fc.State().TransformChain, want)
	}

	fc.Pop()
	if want := geo.Translate(10, 0); fc.State().TransformChain != want {
		t.Fatalf("chain after pop = %v, want %v", fc.State().TransformChain, want)
	}
}

func TestFrameContextContainerFrozen(t *testing.T) {
	fc := NewFrameContext(geo.Size{W: 100, H: 100})
	fc.Push()
	fc.State().Concat(geo.Translate(30, 30))
	fc.State().SetContainerTransform()
	fc.State().SetContainerSize(geo.Size{W: 40, H: 40})

	fc.Push()
	fc.State().Concat(geo.Translate(5, 5))

	st := fc.State()
	if want := geo.Translate(35, 35); st.TransformChain != want {
		t.Fatalf("chain = %v, want %v", st.TransformChain, want)
	}
	if want := geo.Translate(30, 30); st.ContainerTransformChain != want {
		t.Fatalf("container chain = %v, want %v", st.ContainerTransformChain, want)
	}
	if want := (geo.Size{W: 40, H: 40}); st.ContainerSize != want {
		t.Fatalf("container size = %v, want %v", st.ContainerSize, want)
	}
}

func TestFrameContextUnderflowPanics(t *testing.T) {
	fc := NewFrameContext(geo.Size{W: 10, H: 10})
	defer func() {
		if recover() == nil {
			t.Fatalf("popping the seed state did not panic")
		}
	}()
	fc.Pop()
}

func TestConcatDocumentOrder(t *testing.T) {
	// A point in local space passes through the most recent concat
	// first, so the scale applies before the earlier translate.
	fc := NewFrameContext(geo.Size{W: 100, H: 100})
	fc.Push()
	fc.State().Concat(geo.Translate(50, 0))
	fc.State().Concat(geo.Scale(2, 2))

	got := fc.State().TransformChain.Apply(geo.Point{X: 1, Y: 1})
	if want := (geo.Point{X: 52, Y: 2}); got != want {
		t.Fatalf("composed apply = %v, want %v", got, want)
	}
}
