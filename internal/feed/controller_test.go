package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/tbraack/garagelog/internal/timeline"
	"github.com/tbraack/garagelog/internal/vehicle"
)

var _ = Describe("Controller", func() {
	var (
		server     *ghttp.Server
		controller *Controller
		clock      *fakeClock
		events     []vehicle.RawEvent
		images     []vehicle.LinkedImage
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		clock = newFakeClock()

		events = []vehicle.RawEvent{
			{
				ID:         "evt-old",
				VehicleID:  "veh-1",
				Type:       "odometer",
				OccurredAt: "2024-01-15",
				Payload:    map[string]any{"reading": float64(70000)},
			},
			{
				ID:         "evt-new",
				VehicleID:  "veh-1",
				Type:       "fuel",
				OccurredAt: "2024-06-01",
				Payload:    map[string]any{"station": "Chevron", "total_amount": 52.10},
			},
			{
				ID:        "evt-undated",
				VehicleID: "veh-1",
				Type:      "document",
				Payload:   map[string]any{"document_type": "registration"},
			},
		}
		images = []vehicle.LinkedImage{
			{ID: "img-1", VehicleID: "veh-1", ProcessingStatus: vehicle.StatusCompleted},
		}

		server.RouteToHandler("GET", "/api/vehicles/veh-1/events", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			Expect(json.NewEncoder(w).Encode(events)).To(Succeed())
		})
		server.RouteToHandler("GET", "/api/vehicles/veh-1/images", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			Expect(json.NewEncoder(w).Encode(images)).To(Succeed())
		})

		client, err := NewClient(server.URL(), "", "")
		Expect(err).NotTo(HaveOccurred())

		controller, err = NewController(Config{
			Client:       client,
			VehicleID:    "veh-1",
			Clock:        clock,
			PollInterval: time.Second,
			PulseTTL:     time.Second,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		controller.Close()
		server.Close()
	})

	Describe("NewController", func() {
		It("requires a client", func() {
			_, err := NewController(Config{VehicleID: "veh-1"})
			Expect(err).To(MatchError(ContainSubstring("client is required")))
		})

		It("requires a vehicle ID", func() {
			client, err := NewClient(server.URL(), "", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = NewController(Config{Client: client})
			Expect(err).To(MatchError(ContainSubstring("vehicle ID is required")))
		})
	})

	Describe("Refresh", func() {
		JustBeforeEach(func() {
			Expect(controller.Refresh(context.Background())).To(Succeed())
		})

		It("replaces the event and image lists wholesale", func() {
			Expect(controller.Events()).To(HaveLen(3))
			Expect(controller.Images()).To(HaveLen(1))
		})

		It("does not arm the poll timer when everything is terminal", func() {
			Expect(controller.Polling()).To(BeFalse())
			Expect(clock.armed()).To(BeZero())
		})

		When("an image is still processing", func() {
			BeforeEach(func() {
				images[0].ProcessingStatus = vehicle.StatusProcessing
			})

			It("keeps polling", func() {
				Expect(controller.Polling()).To(BeTrue())
				Expect(clock.armed()).To(Equal(1))
			})

			It("refetches when the timer fires and stops once terminal", func() {
				images[0].ProcessingStatus = vehicle.StatusCompleted
				clock.firePending()
				Expect(controller.Polling()).To(BeFalse())
				Expect(controller.JustCompleted("img-1")).To(BeTrue())
			})
		})
	})

	Describe("Cards", func() {
		JustBeforeEach(func() {
			Expect(controller.Refresh(context.Background())).To(Succeed())
		})

		It("orders cards newest first with undated events last", func() {
			cards := controller.Cards()
			Expect(cards).To(HaveLen(3))
			Expect(cards[0].Title).To(Equal("Fuel Fill-Up"))
			Expect(cards[1].Title).To(Equal("Odometer Reading"))
			Expect(cards[2].Subtitle).To(HavePrefix("Unknown date"))
		})

		It("renders unknown types through the generic fallback", func() {
			card := controller.Render(vehicle.RawEvent{
				ID:      "evt-x",
				Type:    "car_wash",
				Payload: map[string]any{"wash_type": "deluxe"},
			})
			Expect(card.Title).To(Equal("Car Wash"))
			Expect(card.DataItems).To(ConsistOf(timeline.DataItem{Label: "Wash Type", Value: "deluxe"}))
		})
	})

	Describe("ToggleExpanded", func() {
		It("flips and reports expansion state", func() {
			Expect(controller.IsExpanded("evt-new")).To(BeFalse())
			Expect(controller.ToggleExpanded("evt-new")).To(BeTrue())
			Expect(controller.IsExpanded("evt-new")).To(BeTrue())
			Expect(controller.ToggleExpanded("evt-new")).To(BeFalse())
			Expect(controller.IsExpanded("evt-new")).To(BeFalse())
		})
	})

	Describe("DeleteEvent", func() {
		BeforeEach(func() {
			server.RouteToHandler("DELETE", "/api/vehicles/veh-1/timeline/evt-old", ghttp.RespondWith(http.StatusNoContent, nil))
			Expect(controller.Refresh(context.Background())).To(Succeed())
			controller.ToggleExpanded("evt-old")
			events = events[1:]
		})

		It("deletes on the server and refreshes the feed", func() {
			Expect(controller.DeleteEvent(context.Background(), "evt-old")).To(Succeed())
			Expect(controller.Events()).To(HaveLen(2))
			Expect(controller.IsExpanded("evt-old")).To(BeFalse())
		})
	})

	Describe("Reprocess", func() {
		BeforeEach(func() {
			server.RouteToHandler("POST", "/api/vehicles/veh-1/photos/process", ghttp.CombineHandlers(
				ghttp.VerifyJSONRepresenting(map[string]string{"image_id": "img-1"}),
				ghttp.RespondWith(http.StatusAccepted, nil),
			))
			Expect(controller.Refresh(context.Background())).To(Succeed())
		})

		It("marks only that image active and resumes polling", func() {
			Expect(controller.Polling()).To(BeFalse())
			Expect(controller.Reprocess(context.Background(), "img-1")).To(Succeed())
			Expect(controller.Polling()).To(BeTrue())
			Expect(clock.armed()).To(Equal(1))
		})
	})

	Describe("Subscribe", func() {
		It("delivers status transitions observed across refreshes", func() {
			var seen []Change
			unsubscribe := controller.Subscribe("img-1", func(change Change) {
				seen = append(seen, change)
			})
			defer unsubscribe()

			images[0].ProcessingStatus = vehicle.StatusProcessing
			Expect(controller.Refresh(context.Background())).To(Succeed())
			images[0].ProcessingStatus = vehicle.StatusCompleted
			clock.firePending()

			Expect(seen).To(HaveLen(2))
			Expect(seen[1].To).To(Equal(vehicle.StatusCompleted))
		})
	})
})
