package vehicle

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var db *BoltDB

	BeforeEach(func() {
		var err error
		db, err = NewBoltDB(filepath.Join(GinkgoT().TempDir(), "garagelog.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	Describe("events", func() {
		var event *RawEvent

		BeforeEach(func() {
			miles := 77306.0
			event = &RawEvent{
				ID:         "evt-1",
				VehicleID:  "veh-1",
				Type:       "fuel",
				OccurredAt: "2024-06-01",
				Miles:      &miles,
				Payload:    map[string]any{"station": "Shell", "gallons": 13.2},
				RecordedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			}
			Expect(db.SaveEvent(event)).To(Succeed())
		})

		It("round-trips an event", func() {
			got, err := db.GetEvent("veh-1", "evt-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Type).To(Equal("fuel"))
			Expect(got.OccurredAt).To(Equal("2024-06-01"))
			Expect(*got.Miles).To(Equal(77306.0))
			Expect(got.Payload).To(HaveKeyWithValue("station", "Shell"))
		})

		It("overwrites on re-save", func() {
			event.Type = "maintenance"
			Expect(db.SaveEvent(event)).To(Succeed())

			got, err := db.GetEvent("veh-1", "evt-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Type).To(Equal("maintenance"))

			events, err := db.ListEvents("veh-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(1))
		})

		It("returns not found for a missing event", func() {
			_, err := db.GetEvent("veh-1", "nope")
			Expect(err).To(MatchError(ContainSubstring("event not found")))
		})

		It("scopes listing to the vehicle", func() {
			Expect(db.SaveEvent(&RawEvent{ID: "evt-2", VehicleID: "veh-2", Type: "odometer"})).To(Succeed())

			events, err := db.ListEvents("veh-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(1))
			Expect(events[0].ID).To(Equal("evt-1"))
		})

		It("lists no events for an unknown vehicle", func() {
			events, err := db.ListEvents("veh-unknown")
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(BeEmpty())
		})

		It("deletes an event", func() {
			Expect(db.DeleteEvent("veh-1", "evt-1")).To(Succeed())
			_, err := db.GetEvent("veh-1", "evt-1")
			Expect(err).To(MatchError(ContainSubstring("event not found")))
		})
	})

	Describe("images", func() {
		BeforeEach(func() {
			Expect(db.SaveImage(&LinkedImage{
				ID:               "img-1",
				VehicleID:        "veh-1",
				Filename:         "img-1_receipt.png",
				ContentType:      "image/png",
				ProcessingStatus: StatusPending,
			})).To(Succeed())
		})

		It("round-trips an image", func() {
			got, err := db.GetImage("veh-1", "img-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Filename).To(Equal("img-1_receipt.png"))
			Expect(got.ProcessingStatus).To(Equal(StatusPending))
		})

		It("returns not found for a missing image", func() {
			_, err := db.GetImage("veh-1", "nope")
			Expect(err).To(MatchError(ContainSubstring("image not found")))
		})

		It("scopes listing to the vehicle", func() {
			Expect(db.SaveImage(&LinkedImage{ID: "img-2", VehicleID: "veh-2"})).To(Succeed())

			images, err := db.ListImages("veh-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(images).To(HaveLen(1))
			Expect(images[0].ID).To(Equal("img-1"))
		})

		It("persists status updates", func() {
			img, err := db.GetImage("veh-1", "img-1")
			Expect(err).NotTo(HaveOccurred())
			img.ProcessingStatus = StatusFailed
			img.Error = "extraction timed out"
			Expect(db.SaveImage(img)).To(Succeed())

			got, err := db.GetImage("veh-1", "img-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ProcessingStatus).To(Equal(StatusFailed))
			Expect(got.Error).To(Equal("extraction timed out"))
		})
	})
})
