package events

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeEquipmentAssigned = "equipment.assigned"

// EquipmentAssignedEvent is published after an equipment update commits and
// the update qualifies as a new assignment. It carries a flat snapshot of
// the post-update record plus the assignee fields taken from the submitted
// delta, so subscribers never read the store again.
type EquipmentAssignedEvent struct {
	BaseEvent

	EquipmentID   int64      `json:"equipment_id"`
	AssetID       string     `json:"asset_id"`
	Category      string     `json:"category"`
	Model         string     `json:"model"`
	SerialNumber  string     `json:"serial_number"`
	Status        string     `json:"status"`
	Location      string     `json:"location"`
	WarrantyDate  *time.Time `json:"warranty_date,omitempty"`
	PurchasePrice float64    `json:"purchase_price"`

	AssigneeName  string `json:"assignee_name"`
	Position      string `json:"position"`
	Department    string `json:"department"`
	EmployeeEmail string `json:"employee_email"`
	PhoneNumber   string `json:"phone_number"`
}

func NewEquipmentAssignedEvent() *EquipmentAssignedEvent {
	return &EquipmentAssignedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEquipmentAssigned,
			Timestamp: time.Now(),
		},
	}
}
