package timeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DecideLayout", func() {
	var (
		items    []DataItem
		override LayoutMode
		mode     LayoutMode
	)

	BeforeEach(func() {
		override = LayoutAuto
	})

	JustBeforeEach(func() {
		mode = DecideLayout(items, override)
	})

	When("there is a single item", func() {
		BeforeEach(func() {
			items = []DataItem{{Label: "Location", Value: "Shell Station"}}
		})

		It("chooses list", func() {
			Expect(mode).To(Equal(LayoutList))
		})
	})

	When("there are no items", func() {
		BeforeEach(func() {
			items = nil
		})

		It("chooses list", func() {
			Expect(mode).To(Equal(LayoutList))
		})
	})

	When("there are two short items", func() {
		BeforeEach(func() {
			items = []DataItem{
				{Label: "Odometer", Value: "77,306 mi"},
				{Label: "Efficiency", Value: "32.5 MPG"},
			}
		})

		It("chooses grid", func() {
			Expect(mode).To(Equal(LayoutGrid))
		})
	})

	When("one of two values is 20 characters or longer", func() {
		BeforeEach(func() {
			items = []DataItem{
				{Label: "Service", Value: "Oil Change + Air Filter + Tire Rotation"},
				{Label: "Status", Value: "Complete"},
			}
		})

		It("chooses list", func() {
			Expect(mode).To(Equal(LayoutList))
		})
	})

	When("a value is exactly 19 characters", func() {
		BeforeEach(func() {
			items = []DataItem{
				{Label: "A", Value: "1234567890123456789"},
				{Label: "B", Value: "x"},
			}
		})

		It("still counts as short and chooses grid", func() {
			Expect(mode).To(Equal(LayoutGrid))
		})
	})

	When("there are four short items", func() {
		BeforeEach(func() {
			items = []DataItem{
				{Label: "A", Value: "1"},
				{Label: "B", Value: "2"},
				{Label: "C", Value: "3"},
				{Label: "D", Value: "4"},
			}
		})

		It("chooses grid", func() {
			Expect(mode).To(Equal(LayoutGrid))
		})
	})

	When("there are seven items", func() {
		BeforeEach(func() {
			items = make([]DataItem, 7)
			for i := range items {
				items[i] = DataItem{Label: "L", Value: "v"}
			}
		})

		It("chooses list regardless of value length", func() {
			Expect(mode).To(Equal(LayoutList))
		})
	})

	When("the caller overrides with grid", func() {
		BeforeEach(func() {
			override = LayoutGrid
			items = make([]DataItem, 7)
		})

		It("honors the override", func() {
			Expect(mode).To(Equal(LayoutGrid))
		})
	})

	When("the caller overrides with list", func() {
		BeforeEach(func() {
			override = LayoutList
			items = []DataItem{
				{Label: "A", Value: "1"},
				{Label: "B", Value: "2"},
			}
		})

		It("honors the override", func() {
			Expect(mode).To(Equal(LayoutList))
		})
	})
})

var _ = Describe("GridPlacement", func() {
	It("fills rows left to right in input order", func() {
		items := []DataItem{
			{Label: "A"}, {Label: "B"}, {Label: "C"}, {Label: "D"},
		}
		rows := GridPlacement(items)
		Expect(rows).To(HaveLen(2))
		Expect(rows[0][0].Label).To(Equal("A"))
		Expect(rows[0][1].Label).To(Equal("B"))
		Expect(rows[1][0].Label).To(Equal("C"))
		Expect(rows[1][1].Label).To(Equal("D"))
	})

	It("leaves the last cell empty for an odd item count", func() {
		items := []DataItem{{Label: "A"}, {Label: "B"}, {Label: "C"}}
		rows := GridPlacement(items)
		Expect(rows).To(HaveLen(2))
		Expect(rows[1][0].Label).To(Equal("C"))
		Expect(rows[1][1]).To(BeNil())
	})

	It("returns nothing for no items", func() {
		Expect(GridPlacement(nil)).To(BeEmpty())
	})
})
