package driver

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swmmdriver/engine"
)

var _ = Describe("ClockAt", func() {
	DescribeTable("splitting elapsed days into day and hour",
		func(elapsed float64, day, hour int) {
			p := ClockAt(elapsed)

			Expect(p.Day).To(Equal(day))
			Expect(p.Hour).To(Equal(hour))
		},
		Entry("start", 0.0, 0, 0),
		Entry("first quarter hour", 0.01, 0, 0),
		Entry("just past one hour", 0.05, 0, 1),
		Entry("noon", 0.5, 0, 12),
		Entry("last hour of a day", 0.999, 0, 23),
		Entry("second day", 1.25, 1, 6),
		Entry("long run", 30.9, 30, 21),
		Entry("negative", -0.5, 0, 0),
	)

	It("should keep the hour within a day", func() {
		for i := 0; i <= 10000; i++ {
			elapsed := float64(i) * 0.00731
			p := ClockAt(elapsed)

			Expect(p.Hour).To(BeNumerically(">=", 0))
			Expect(p.Hour).To(BeNumerically("<=", 23))
			Expect(p.Day).To(BeNumerically(">=", 0))
			Expect(float64(p.Day)).To(BeNumerically("<=", elapsed))
		}
	})
})

var _ = Describe("SimClock", func() {
	var clock SimClock

	BeforeEach(func() {
		clock = SimClock{}
	})

	It("should report a step that moves past the last reported hour", func() {
		p, crossed := clock.Advance(0.01)

		Expect(crossed).To(BeTrue())
		Expect(p).To(Equal(Progress{Day: 0, Hour: 0, ElapsedDays: 0.01}))
		Expect(clock.OldHour).To(BeNumerically("~", 0.24, 1e-9))
	})

	It("should not report a step that falls behind", func() {
		clock.Advance(0.05)

		_, crossed := clock.Advance(0.042)

		Expect(crossed).To(BeFalse())
		Expect(clock.OldHour).To(BeNumerically("~", 1.2, 1e-9))
		Expect(clock.NewHour).To(BeNumerically("~", 1.008, 1e-9))
		Expect(clock.Hour).To(Equal(1))
	})

	It("should not report the end of the simulation", func() {
		clock.Advance(0.5)

		_, crossed := clock.Advance(0)

		Expect(crossed).To(BeFalse())
		Expect(clock.Day).To(Equal(0))
		Expect(clock.Hour).To(Equal(12))
	})

	It("should reset", func() {
		clock.Advance(2.5)
		clock.Reset()

		Expect(clock).To(Equal(SimClock{}))
	})
})

var _ = Describe("Terminate", func() {
	DescribeTable("deciding the next action",
		func(elapsed float64, code engine.ErrorCode, expected Outcome) {
			Expect(Terminate(elapsed, code)).To(Equal(expected))
		},
		Entry("running", 0.3, engine.NoError, Continue),
		Entry("finished", 0.0, engine.NoError, StopNormal),
		Entry("negative elapsed", -1.0, engine.NoError, StopNormal),
		Entry("fault while running", 0.3, engine.ErrSystem, StopError),
		Entry("fault on the last step", 0.0, engine.ErrSystem, StopError),
	)

	It("should name outcomes", func() {
		Expect(Continue.String()).To(Equal("Continue"))
		Expect(StopNormal.String()).To(Equal("StopNormal"))
		Expect(StopError.String()).To(Equal("StopError"))
	})
})
