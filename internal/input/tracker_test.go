package input_test

import (
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifelab/internal/input"
	"github.com/san-kum/lifelab/internal/view"
)

var _ = Describe("Tracker", func() {
	var (
		tr *input.Tracker
		t0 time.Time
	)

	at := func(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

	BeforeEach(func() {
		tr = input.NewTracker(input.DefaultConfig(), &log.Logger{Handler: discard.Default, Level: log.ErrorLevel})
		t0 = time.Unix(1000, 0)
		tr.Move(view.Vec{X: 100, Y: 100}, t0)
	})

	Context("left button", func() {
		It("fires once on press", func() {
			a, ok := tr.Down(input.ButtonLeft, t0)
			Expect(ok).To(BeTrue())
			Expect(a.Kind).To(Equal(input.ActionFire))
			Expect(a.Drag).To(BeFalse())
			Expect(a.Pos).To(Equal(view.Vec{X: 100, Y: 100}))

			_, ok = tr.Up(input.ButtonLeft, at(5))
			Expect(ok).To(BeFalse())
		})

		It("fires clicks regardless of the throttle", func() {
			for i := 0; i < 5; i++ {
				_, ok := tr.Down(input.ButtonLeft, at(i))
				Expect(ok).To(BeTrue())
				tr.Up(input.ButtonLeft, at(i))
			}
		})

		It("ignores movement inside the drag threshold", func() {
			tr.Down(input.ButtonLeft, t0)
			_, ok := tr.Move(view.Vec{X: 102, Y: 102}, at(10))
			Expect(ok).To(BeFalse())
			Expect(tr.Dragging()).To(BeFalse())
		})

		It("fires through the throttle once dragging", func() {
			tr.Down(input.ButtonLeft, t0)

			a, ok := tr.Move(view.Vec{X: 110, Y: 100}, at(10))
			Expect(ok).To(BeTrue())
			Expect(a.Drag).To(BeTrue())
			Expect(a.Speed).To(BeNumerically("~", 1000, 1e-6))

			// 100 px/s needs about 0.163 s between fires.
			_, ok = tr.Move(view.Vec{X: 111, Y: 100}, at(20))
			Expect(ok).To(BeFalse())

			// A fast flick needs only a millisecond.
			a, ok = tr.Move(view.Vec{X: 200, Y: 100}, at(30))
			Expect(ok).To(BeTrue())
			Expect(a.Speed).To(BeNumerically(">", 500))
		})

		It("keeps other modes' timers when switching mid-drag", func() {
			tr.Down(input.ButtonLeft, t0)
			_, ok := tr.Move(view.Vec{X: 110, Y: 100}, at(10))
			Expect(ok).To(BeTrue())

			tr.SetMode(input.ModeClear)
			a, ok := tr.Move(view.Vec{X: 111, Y: 100}, at(20))
			Expect(ok).To(BeTrue())
			Expect(a.Mode).To(Equal(input.ModeClear))

			tr.SetMode(input.ModePaint)
			_, ok = tr.Move(view.Vec{X: 112, Y: 100}, at(30))
			Expect(ok).To(BeFalse())
		})

		It("does not fire on a press outside the surface", func() {
			tr.Leave()
			_, ok := tr.Down(input.ButtonLeft, t0)
			Expect(ok).To(BeFalse())
		})

		It("resumes a drag after the pointer re-enters", func() {
			tr.Down(input.ButtonLeft, t0)
			tr.Move(view.Vec{X: 110, Y: 100}, at(10))
			tr.Leave()

			_, ok := tr.Move(view.Vec{X: 300, Y: 300}, at(500))
			Expect(ok).To(BeFalse())
			Expect(tr.Dragging()).To(BeTrue())

			_, ok = tr.Move(view.Vec{X: 301, Y: 300}, at(800))
			Expect(ok).To(BeTrue())
		})
	})

	Context("right button", func() {
		It("opens the menu on a click", func() {
			tr.Down(input.ButtonRight, t0)
			a, ok := tr.Up(input.ButtonRight, at(50))
			Expect(ok).To(BeTrue())
			Expect(a.Kind).To(Equal(input.ActionMenu))
			Expect(a.Pos).To(Equal(view.Vec{X: 100, Y: 100}))
		})

		It("pans by the pointer delta once dragging", func() {
			tr.Down(input.ButtonRight, t0)

			_, ok := tr.Move(view.Vec{X: 101, Y: 101}, at(10))
			Expect(ok).To(BeFalse())

			a, ok := tr.Move(view.Vec{X: 110, Y: 95}, at(20))
			Expect(ok).To(BeTrue())
			Expect(a.Kind).To(Equal(input.ActionPan))
			Expect(a.Delta).To(Equal(view.Vec{X: 9, Y: -6}))

			_, ok = tr.Up(input.ButtonRight, at(30))
			Expect(ok).To(BeFalse())
		})

		It("does not open the menu after a pan", func() {
			tr.Down(input.ButtonRight, t0)
			tr.Move(view.Vec{X: 150, Y: 100}, at(10))
			Expect(tr.Panning()).To(BeTrue())
			_, ok := tr.Up(input.ButtonRight, at(20))
			Expect(ok).To(BeFalse())
		})
	})

	It("does nothing on plain hover", func() {
		_, ok := tr.Move(view.Vec{X: 500, Y: 500}, at(10))
		Expect(ok).To(BeFalse())
		pos, in := tr.Cursor()
		Expect(in).To(BeTrue())
		Expect(pos).To(Equal(view.Vec{X: 500, Y: 500}))
	})
})
