package equipment_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cirruslabs-it/asset-inventory/internal/equipment"
)

var _ = Describe("IsNewAssignment", func() {
	inUseUpdate := func() equipment.UpdateEquipmentDTO {
		return equipment.UpdateEquipmentDTO{
			Status:        equipment.StatusInUse,
			AssigneeName:  "Jordan Lee",
			EmployeeEmail: "jordan.lee@example.com",
		}
	}

	Context("when the update does not set status to In Use", func() {
		It("rejects every other status", func() {
			for _, status := range []string{
				equipment.StatusInStock,
				equipment.StatusDamaged,
				equipment.StatusEWaste,
				equipment.StatusRemoved,
				"",
			} {
				update := inUseUpdate()
				update.Status = status
				Expect(equipment.IsNewAssignment(nil, update)).To(BeFalse(), "status %q", status)
			}
		})
	})

	Context("when assignee details are incomplete", func() {
		It("rejects a missing assignee name", func() {
			update := inUseUpdate()
			update.AssigneeName = ""
			Expect(equipment.IsNewAssignment(nil, update)).To(BeFalse())
		})

		It("rejects a missing employee email", func() {
			update := inUseUpdate()
			update.EmployeeEmail = ""
			Expect(equipment.IsNewAssignment(nil, update)).To(BeFalse())
		})
	})

	Context("when there is no prior record state", func() {
		It("treats a complete in-use update as a new assignment", func() {
			Expect(equipment.IsNewAssignment(nil, inUseUpdate())).To(BeTrue())
		})
	})

	Context("when the asset was not in use before", func() {
		It("detects the transition into In Use", func() {
			before := &equipment.Equipment{Status: equipment.StatusInStock}
			Expect(equipment.IsNewAssignment(before, inUseUpdate())).To(BeTrue())
		})

		It("detects reassignment of a damaged asset", func() {
			before := &equipment.Equipment{
				Status:       equipment.StatusDamaged,
				AssigneeName: "Jordan Lee",
			}
			Expect(equipment.IsNewAssignment(before, inUseUpdate())).To(BeTrue())
		})
	})

	Context("when the asset was already in use", func() {
		It("detects a change of assignee", func() {
			before := &equipment.Equipment{
				Status:       equipment.StatusInUse,
				AssigneeName: "Sam Previous",
			}
			Expect(equipment.IsNewAssignment(before, inUseUpdate())).To(BeTrue())
		})

		It("ignores a re-save of the same assignee", func() {
			before := &equipment.Equipment{
				Status:       equipment.StatusInUse,
				AssigneeName: "Jordan Lee",
			}
			Expect(equipment.IsNewAssignment(before, inUseUpdate())).To(BeFalse())
		})

		It("ignores unrelated edits that keep the same assignee", func() {
			before := &equipment.Equipment{
				Status:       equipment.StatusInUse,
				AssigneeName: "Jordan Lee",
			}
			update := inUseUpdate()
			update.Location = "Berlin office"
			update.PurchasePrice = 1200
			Expect(equipment.IsNewAssignment(before, update)).To(BeFalse())
		})
	})
})
