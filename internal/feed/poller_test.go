package feed

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Poller", func() {
	var (
		clock      *fakeClock
		poller     *Poller
		refreshes  int
		refreshErr error
		isActive   bool
	)

	BeforeEach(func() {
		clock = newFakeClock()
		refreshes = 0
		refreshErr = nil
		isActive = true
		poller = NewPoller(clock, time.Second, func(ctx context.Context) error {
			refreshes++
			return refreshErr
		}, func() bool { return isActive })
	})

	AfterEach(func() {
		poller.Close()
	})

	Describe("Kick", func() {
		When("something is active", func() {
			BeforeEach(func() {
				poller.Kick()
			})

			It("arms the timer", func() {
				Expect(clock.armed()).To(Equal(1))
			})

			It("does not arm a second timer", func() {
				poller.Kick()
				Expect(clock.armed()).To(Equal(1))
			})
		})

		When("nothing is active", func() {
			BeforeEach(func() {
				isActive = false
				poller.Kick()
			})

			It("does not arm the timer", func() {
				Expect(clock.armed()).To(BeZero())
			})

			It("performs no fetches no matter how often it is kicked", func() {
				poller.Kick()
				poller.Kick()
				clock.firePending()
				Expect(refreshes).To(BeZero())
			})
		})
	})

	Describe("tick", func() {
		When("the timer fires while active", func() {
			BeforeEach(func() {
				poller.Kick()
				clock.firePending()
			})

			It("refreshes once", func() {
				Expect(refreshes).To(Equal(1))
			})

			It("re-arms for the next cycle", func() {
				Expect(clock.armed()).To(Equal(1))
			})
		})

		When("everything went terminal before the timer fires", func() {
			BeforeEach(func() {
				poller.Kick()
				isActive = false
				clock.firePending()
			})

			It("skips the fetch and disarms", func() {
				Expect(refreshes).To(BeZero())
				Expect(clock.armed()).To(BeZero())
			})

			It("resumes on the next kick once something is pending again", func() {
				isActive = true
				poller.Kick()
				clock.firePending()
				Expect(refreshes).To(Equal(1))
			})
		})

		When("the refresh fails", func() {
			BeforeEach(func() {
				refreshErr = fmt.Errorf("server unreachable")
				poller.Kick()
				clock.firePending()
			})

			It("still re-arms so the next cycle retries", func() {
				Expect(refreshes).To(Equal(1))
				Expect(clock.armed()).To(Equal(1))
			})
		})

		When("a tick lands while a refresh is in flight", func() {
			BeforeEach(func() {
				poller = NewPoller(clock, time.Second, func(ctx context.Context) error {
					refreshes++
					// Simulate a timer firing mid-refresh.
					poller.tick()
					return nil
				}, func() bool { return isActive })
				poller.Kick()
				clock.firePending()
			})

			It("coalesces instead of fetching twice", func() {
				Expect(refreshes).To(Equal(1))
			})
		})
	})

	Describe("Close", func() {
		BeforeEach(func() {
			poller.Kick()
			poller.Close()
		})

		It("stops the armed timer", func() {
			Expect(clock.armed()).To(BeZero())
		})

		It("never fetches again", func() {
			poller.Kick()
			clock.firePending()
			Expect(refreshes).To(BeZero())
		})
	})
})
