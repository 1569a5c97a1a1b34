package driver

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ConsoleSink", func() {
	It("should print one line per report", func() {
		buf := new(bytes.Buffer)
		sink := NewConsoleSink(buf)

		sink.Progress(Progress{Day: 0, Hour: 0})
		sink.Progress(Progress{Day: 2, Hour: 17})
		sink.Done()

		Expect(buf.String()).To(Equal("Hour 0 Day 0\nHour 17 Day 2\n"))
	})

	It("should overwrite the same line", func() {
		buf := new(bytes.Buffer)
		sink := NewOverwritingConsoleSink(buf)

		sink.Progress(Progress{Day: 1, Hour: 3})
		sink.Done()

		Expect(buf.String()).To(HavePrefix("Hour 3 Day 1"))
		Expect(buf.String()).To(HaveSuffix("\r\n"))
	})
})

var _ = Describe("MultiSink", func() {
	It("should forward to every sink and skip nil ones", func() {
		var a, b []Progress
		sink := MultiSink{
			SinkFunc(func(p Progress) { a = append(a, p) }),
			nil,
			SinkFunc(func(p Progress) { b = append(b, p) }),
		}

		sink.Progress(Progress{Day: 1})

		Expect(a).To(Equal([]Progress{{Day: 1}}))
		Expect(b).To(Equal([]Progress{{Day: 1}}))
	})
})
