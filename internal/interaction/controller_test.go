package interaction

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcegraph/internal/graph"
)

var _ = Describe("Controller", func() {
	var (
		eng    *fakeEngine
		ctrl   *Controller
		events []PinEvent
		a      *graph.Node
	)

	BeforeEach(func() {
		g, _, err := graph.New([]graph.NodeSpec{
			{ID: "a", Position: &graph.Point{X: 10, Y: 20}},
			{ID: "b", Position: &graph.Point{X: 30, Y: 40}},
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		eng = &fakeEngine{g: g}
		ctrl = NewController(eng, nil)
		events = nil
		ctrl.OnPin(func(ev PinEvent) { events = append(events, ev) })
		a, _ = g.Node("a")
	})

	Describe("dragging", func() {
		It("pins at the current position and heats the engine on start", func() {
			Expect(ctrl.DragStart("a")).To(Succeed())

			x, y, ok := a.Pin.At()
			Expect(ok).To(BeTrue())
			Expect([]float64{x, y}).To(Equal([]float64{10, 20}))
			Expect(eng.reheats).To(Equal(1))
			Expect(eng.alphaTarget).To(Equal(DragAlphaTarget))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Cause).To(Equal(CauseDragStart))
			Expect(events[0].Pinned).To(BeTrue())

			id, dragging := ctrl.Dragging()
			Expect(dragging).To(BeTrue())
			Expect(id).To(Equal("a"))
		})

		It("follows the pointer without reheating", func() {
			Expect(ctrl.DragStart("a")).To(Succeed())
			Expect(ctrl.DragMove("a", 50, 60)).To(Succeed())
			Expect(ctrl.DragMove("a", 51, 61)).To(Succeed())

			x, y, _ := a.Pin.At()
			Expect(x).To(Equal(51.0))
			Expect(y).To(Equal(61.0))
			Expect(eng.reheats).To(Equal(1))
			Expect(events).To(HaveLen(3))
			Expect(events[2].X).To(Equal(51.0))
		})

		It("moves the node onto the pointer and stops it", func() {
			a.VX, a.VY = 3, -4
			Expect(ctrl.DragStart("a")).To(Succeed())
			Expect(a.VX).To(BeZero())
			Expect(a.VY).To(BeZero())

			Expect(ctrl.DragMove("a", 50, 60)).To(Succeed())
			Expect([]float64{a.X, a.Y, a.VX, a.VY}).To(Equal([]float64{50, 60, 0, 0}))
		})

		It("keeps the node pinned after release", func() {
			Expect(ctrl.DragStart("a")).To(Succeed())
			Expect(ctrl.DragMove("a", 50, 50)).To(Succeed())
			Expect(ctrl.DragEnd("a")).To(Succeed())

			x, y, ok := a.Pin.At()
			Expect(ok).To(BeTrue())
			Expect(x).To(Equal(50.0))
			Expect(y).To(Equal(50.0))
			Expect(eng.alphaTarget).To(BeZero())
			Expect(events[len(events)-1].Cause).To(Equal(CauseDragEnd))
			Expect(events[len(events)-1].Pinned).To(BeTrue())

			_, dragging := ctrl.Dragging()
			Expect(dragging).To(BeFalse())
		})

		It("rejects gestures out of order", func() {
			Expect(ctrl.DragMove("a", 1, 1)).To(MatchError(ErrNotDragging))
			Expect(ctrl.DragEnd("a")).To(MatchError(ErrNotDragging))

			Expect(ctrl.DragStart("a")).To(Succeed())
			Expect(ctrl.DragStart("b")).To(MatchError(ErrAlreadyDragging))
			Expect(ctrl.DragMove("b", 1, 1)).To(MatchError(ErrNotDragging))
			Expect(ctrl.TogglePin("a")).To(MatchError(ErrAlreadyDragging))
		})

		It("rejects unknown nodes without entering the drag state", func() {
			Expect(ctrl.DragStart("ghost")).To(MatchError(ErrUnknownNode))
			_, dragging := ctrl.Dragging()
			Expect(dragging).To(BeFalse())
			Expect(eng.reheats).To(BeZero())
		})

		It("rejects non-finite pointer coordinates and keeps the last pin", func() {
			Expect(ctrl.DragStart("a")).To(Succeed())
			Expect(ctrl.DragMove("a", math.NaN(), 5)).To(MatchError(graph.ErrInvalidCoordinate))

			x, y, ok := a.Pin.At()
			Expect(ok).To(BeTrue())
			Expect([]float64{x, y}).To(Equal([]float64{10, 20}))
		})
	})

	Describe("TogglePin", func() {
		It("frees a pinned node", func() {
			Expect(a.PinAt(5, 5)).To(Succeed())
			Expect(ctrl.TogglePin("a")).To(Succeed())

			Expect(a.IsPinned()).To(BeFalse())
			Expect(events).To(ConsistOf(HaveField("Pinned", BeFalse())))
		})

		It("pins a free node where it stands", func() {
			Expect(ctrl.TogglePin("a")).To(Succeed())

			x, y, ok := a.Pin.At()
			Expect(ok).To(BeTrue())
			Expect([]float64{x, y}).To(Equal([]float64{10, 20}))
			Expect(events[0].Cause).To(Equal(CauseToggle))
		})

		It("reheats so a freed node moves again", func() {
			Expect(a.PinAt(5, 5)).To(Succeed())
			Expect(ctrl.TogglePin("a")).To(Succeed())
			Expect(eng.reheats).To(Equal(1))
		})
	})

	It("sets the selection flag", func() {
		Expect(ctrl.Select("b", true)).To(Succeed())
		b, _ := eng.g.Node("b")
		Expect(b.Selected).To(BeTrue())
		Expect(ctrl.Select("ghost", true)).To(MatchError(ErrUnknownNode))
	})
})
