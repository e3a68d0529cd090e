package view_test

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifelab/internal/view"
)

const eps = 1e-9

var _ = Describe("Viewport", func() {
	var vp *view.Viewport

	BeforeEach(func() {
		vp = view.New(view.DefaultLimits(), &log.Logger{Handler: discard.Default, Level: log.ErrorLevel})
		vp.SetViewportSize(800, 600)
		vp.SetGridSize(1600, 1200)
	})

	It("starts at minimum zoom with zero offset", func() {
		Expect(vp.Current()).To(Equal(view.State{Zoom: 1}))
	})

	Describe("coordinate conversion", func() {
		It("maps screen to world as (p + offset) / zoom", func() {
			vp.SetZoomExact(2)
			s := vp.Current()
			w := vp.ScreenToWorld(view.Vec{X: 10, Y: 20})
			Expect(w.X).To(BeNumerically("~", (10+s.Offset.X)/2, eps))
			Expect(w.Y).To(BeNumerically("~", (20+s.Offset.Y)/2, eps))
		})

		It("round-trips through WorldToScreen", func() {
			vp.ZoomBy(1, view.Vec{X: 123, Y: 45})
			p := view.Vec{X: 321, Y: 210}
			back := vp.WorldToScreen(vp.ScreenToWorld(p))
			Expect(back.X).To(BeNumerically("~", p.X, eps))
			Expect(back.Y).To(BeNumerically("~", p.Y, eps))
		})

		It("floors to a cell", func() {
			vp.SetZoomExact(4)
			vp.PanBy(vp.Offset())
			x, y := vp.ScreenToCell(view.Vec{X: 7.9, Y: 8})
			Expect([]int{x, y}).To(Equal([]int{1, 2}))
		})
	})

	Describe("ZoomBy", func() {
		DescribeTable("keeps the world point under the anchor",
			func(delta float64, anchor view.Vec) {
				vp.SetZoomExact(3)
				before := vp.ScreenToWorld(anchor)
				Expect(vp.ZoomBy(delta, anchor)).To(BeTrue())
				after := vp.ScreenToWorld(anchor)
				Expect(after.X).To(BeNumerically("~", before.X, 1e-6))
				Expect(after.Y).To(BeNumerically("~", before.Y, 1e-6))
			},
			Entry("zoom in at center", 1.0, view.Vec{X: 400, Y: 300}),
			Entry("zoom in off center", 1.0, view.Vec{X: 250, Y: 410}),
			Entry("zoom out off center", -1.0, view.Vec{X: 390, Y: 280}),
		)

		It("multiplies by the step", func() {
			vp.ZoomBy(1, view.Vec{})
			Expect(vp.Zoom()).To(BeNumerically("~", 1.2, eps))
			vp.ZoomBy(-1, view.Vec{})
			Expect(vp.Zoom()).To(BeNumerically("~", 1.0, eps))
		})

		It("is a no-op at the limits", func() {
			Expect(vp.ZoomBy(-1, view.Vec{X: 100, Y: 100})).To(BeFalse())
			Expect(vp.Current()).To(Equal(view.State{Zoom: 1}))

			vp.SetZoomExact(100)
			Expect(vp.Zoom()).To(Equal(view.DefaultMaxZoom))
			before := vp.Current()
			Expect(vp.ZoomBy(1, view.Vec{X: 10, Y: 10})).To(BeFalse())
			Expect(vp.Current()).To(Equal(before))
		})

		It("ignores a zero delta", func() {
			Expect(vp.ZoomBy(0, view.Vec{})).To(BeFalse())
		})
	})

	Describe("offset clamp", func() {
		It("never goes negative", func() {
			vp.PanBy(view.Vec{X: 50, Y: 50})
			Expect(vp.Offset()).To(Equal(view.Vec{}))
		})

		It("stops at the far edge of the grid", func() {
			vp.PanBy(view.Vec{X: -1e6, Y: -1e6})
			Expect(vp.Offset()).To(Equal(view.Vec{X: 800, Y: 600}))
		})

		It("collapses to zero when the grid fits on screen", func() {
			vp.SetGridSize(100, 100)
			vp.PanBy(view.Vec{X: -30, Y: -30})
			Expect(vp.Offset()).To(Equal(view.Vec{}))
		})

		It("reclamps when the screen grows", func() {
			vp.PanBy(view.Vec{X: -1e6, Y: -1e6})
			vp.SetViewportSize(1600, 1000)
			Expect(vp.Offset()).To(Equal(view.Vec{X: 0, Y: 200}))
		})
	})

	Describe("PanBy", func() {
		It("moves content with the drag", func() {
			vp.PanBy(view.Vec{X: -100, Y: -40})
			Expect(vp.Offset()).To(Equal(view.Vec{X: 100, Y: 40}))
		})

		It("is undone by the opposite pan away from the clamp", func() {
			vp.PanBy(view.Vec{X: -300, Y: -300})
			start := vp.Offset()
			d := view.Vec{X: 37.5, Y: -12.25}
			vp.PanBy(d)
			vp.PanBy(d.Scale(-1))
			Expect(vp.Offset().X).To(BeNumerically("~", start.X, eps))
			Expect(vp.Offset().Y).To(BeNumerically("~", start.Y, eps))
		})
	})

	Describe("SetZoomExact", func() {
		It("anchors at the screen center", func() {
			vp.PanBy(view.Vec{X: -200, Y: -150})
			center := vp.Center()
			before := vp.ScreenToWorld(center)
			vp.SetZoomExact(2.5)
			after := vp.ScreenToWorld(center)
			Expect(after.X).To(BeNumerically("~", before.X, 1e-6))
			Expect(after.Y).To(BeNumerically("~", before.Y, 1e-6))
		})
	})

	It("resets", func() {
		vp.SetZoomExact(5)
		vp.Reset()
		Expect(vp.Current()).To(Equal(view.State{Zoom: 1}))
	})
})
