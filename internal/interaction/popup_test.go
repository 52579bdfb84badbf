package interaction

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Popups", func() {
	var (
		clock   *manualClock
		display *recordingDisplay
		popups  *Popups
	)

	BeforeEach(func() {
		clock = &manualClock{}
		display = &recordingDisplay{}
		popups = NewPopups(display, clock, 0)
	})

	It("shows next to the pointer on enter", func() {
		popups.Enter("a", "detail", 100, 200)

		p, ok := popups.Current()
		Expect(ok).To(BeTrue())
		Expect(p).To(Equal(Popup{NodeID: "a", Text: "detail", X: 110, Y: 210}))
		Expect(display.shows).To(HaveLen(1))
	})

	It("hides after the delay on leave", func() {
		popups.Enter("a", "detail", 0, 0)
		popups.Leave("a")
		Expect(popups.HidePending()).To(BeTrue())

		clock.Advance(DefaultHideDelay - time.Millisecond)
		_, ok := popups.Current()
		Expect(ok).To(BeTrue())

		clock.Advance(time.Millisecond)
		_, ok = popups.Current()
		Expect(ok).To(BeFalse())
		Expect(display.hides).To(Equal(1))
		Expect(popups.HidePending()).To(BeFalse())
	})

	It("restarts the timer when the pointer re-enters", func() {
		popups.Enter("a", "a", 0, 0)
		popups.Leave("a")
		clock.Advance(time.Second)

		popups.Enter("b", "b", 0, 0)
		Expect(popups.HidePending()).To(BeFalse())
		clock.Advance(5 * time.Second)

		p, ok := popups.Current()
		Expect(ok).To(BeTrue())
		Expect(p.NodeID).To(Equal("b"))
		Expect(display.hides).To(BeZero())
	})

	It("does nothing on enter while disabled", func() {
		popups.SetEnabled(false)
		popups.Enter("a", "a", 0, 0)

		_, ok := popups.Current()
		Expect(ok).To(BeFalse())
		Expect(display.shows).To(BeEmpty())
	})

	Context("when disabled while visible with a hide pending", func() {
		BeforeEach(func() {
			popups.Enter("a", "a", 0, 0)
			popups.Leave("a")
			popups.SetEnabled(false)
		})

		It("hides immediately", func() {
			_, ok := popups.Current()
			Expect(ok).To(BeFalse())
			Expect(display.hides).To(Equal(1))
			Expect(popups.HidePending()).To(BeFalse())
		})

		It("never fires the cancelled hide", func() {
			clock.Advance(10 * time.Second)
			Expect(display.hides).To(Equal(1))
		})

		It("ignores a callback that raced the cancel", func() {
			popups.SetEnabled(true)
			popups.Enter("b", "b", 0, 0)
			clock.fireStopped()

			p, ok := popups.Current()
			Expect(ok).To(BeTrue())
			Expect(p.NodeID).To(Equal("b"))
			Expect(display.hides).To(Equal(1))
		})
	})

	It("treats repeated disabling as a no-op", func() {
		popups.SetEnabled(false)
		popups.SetEnabled(false)
		Expect(display.hides).To(BeZero())
		Expect(popups.Enabled()).To(BeFalse())
	})
})
