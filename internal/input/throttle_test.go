package input_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifelab/internal/input"
)

var _ = Describe("Throttle", func() {
	var th *input.Throttle

	BeforeEach(func() {
		th = input.NewThrottle(input.DefaultThrottleConfig())
	})

	DescribeTable("Delay",
		func(speed, want float64) {
			Expect(th.Delay(speed)).To(BeNumerically("~", want, 1e-9))
		},
		Entry("still pointer", 0.0, 0.2),
		Entry("slow pin", 10.0, 0.2),
		Entry("midpoint", 255.0, 0.1005),
		Entry("fast pin", 500.0, 0.001),
		Entry("beyond fast pin", 5000.0, 0.001),
	)

	It("interpolates delay rather than rate", func() {
		// Linear in rate would give 1/502.5 s at the midpoint.
		Expect(th.Delay(255)).NotTo(BeNumerically("~", 1/502.5, 1e-6))
	})

	It("always allows the first trigger", func() {
		Expect(th.Allow(input.ModePaint, time.Unix(0, 0), 0)).To(BeTrue())
	})

	It("waits out the delay", func() {
		t0 := time.Unix(100, 0)
		Expect(th.Allow(input.ModePaint, t0, 0)).To(BeTrue())
		Expect(th.Allow(input.ModePaint, t0.Add(199*time.Millisecond), 0)).To(BeFalse())
		Expect(th.Allow(input.ModePaint, t0.Add(200*time.Millisecond), 0)).To(BeTrue())
	})

	It("does not move the timer on a refused trigger", func() {
		t0 := time.Unix(100, 0)
		th.Allow(input.ModePaint, t0, 0)
		th.Allow(input.ModePaint, t0.Add(100*time.Millisecond), 0)
		last, ok := th.Last(input.ModePaint)
		Expect(ok).To(BeTrue())
		Expect(last).To(Equal(t0))
	})

	It("keeps one timer per mode", func() {
		t0 := time.Unix(100, 0)
		Expect(th.Allow(input.ModePaint, t0, 0)).To(BeTrue())
		Expect(th.Allow(input.ModeClear, t0.Add(time.Millisecond), 0)).To(BeTrue())
		Expect(th.Allow(input.ModePaint, t0.Add(2*time.Millisecond), 0)).To(BeFalse())
	})

	It("falls back to defaults for a degenerate config", func() {
		th = input.NewThrottle(input.ThrottleConfig{})
		Expect(th.Config()).To(Equal(input.DefaultThrottleConfig()))
	})
})

var _ = Describe("Mode", func() {
	It("round-trips names", func() {
		for _, m := range input.Modes() {
			got, err := input.ParseMode(m.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(m))
		}
	})

	It("maps stamp modes to patterns", func() {
		p, ok := input.ModeGlider.Pattern()
		Expect(ok).To(BeTrue())
		Expect(p.Name).To(Equal("glider"))

		_, ok = input.ModeClear.Pattern()
		Expect(ok).To(BeFalse())
	})

	It("rejects unknown names", func() {
		_, err := input.ParseMode("lasso")
		Expect(err).To(HaveOccurred())
	})
})
