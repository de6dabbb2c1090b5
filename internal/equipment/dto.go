package equipment

import (
	"time"

	"github.com/cirruslabs-it/asset-inventory/internal"
)

// dateLayouts are the accepted wire formats for date fields.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses a submitted date string. Empty or unparseable input
// yields nil; callers store null rather than rejecting the update, which
// matches the original API's lenient date handling.
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

type CreateEquipmentDTO struct {
	AssetID           string  `json:"assetId"`
	Category          string  `json:"category"`
	Status            string  `json:"status"`
	Model             string  `json:"model"`
	SerialNumber      string  `json:"serialNumber"`
	WarrantyExpiry    string  `json:"warrantyExpiry"`
	PurchaseDate      string  `json:"purchaseDate"`
	Location          string  `json:"location"`
	Comment           string  `json:"comment"`
	AssigneeName      string  `json:"assigneeName"`
	Position          string  `json:"position"`
	EmployeeEmail     string  `json:"employeeEmail"`
	PhoneNumber       string  `json:"phoneNumber"`
	Department        string  `json:"department"`
	DamageDescription string  `json:"damageDescription"`
	PurchasePrice     float64 `json:"purchasePrice"`
	Client            string  `json:"client"`
}

func (dto CreateEquipmentDTO) Validate() error {
	var fieldErrs []internal.ValidationError

	if dto.AssetID == "" {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "assetId", Message: "assetId is required"})
	}
	if dto.Category == "" {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "category", Message: "category is required"})
	}
	if dto.Status == "" {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "status", Message: "status is required"})
	} else if !IsValidStatus(dto.Status) {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "status", Message: "invalid status: " + dto.Status})
	}
	if dto.Client != "" && !IsValidClient(dto.Client) {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "client", Message: "invalid client: " + dto.Client})
	}
	if dto.PurchasePrice < 0 {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "purchasePrice", Message: "purchasePrice cannot be negative"})
	}

	if len(fieldErrs) > 0 {
		return internal.NewFieldValidationError(fieldErrs...)
	}
	return nil
}

// UpdateEquipmentDTO carries the update delta as submitted by the
// operator. The assignment detector reads assignee fields from here,
// never from the stored record.
type UpdateEquipmentDTO struct {
	AssetID           string  `json:"assetId"`
	Category          string  `json:"category"`
	Status            string  `json:"status"`
	Model             string  `json:"model"`
	SerialNumber      string  `json:"serialNumber"`
	WarrantyExpiry    string  `json:"warrantyExpiry"`
	PurchaseDate      string  `json:"purchaseDate"`
	Location          string  `json:"location"`
	Comment           string  `json:"comment"`
	AssigneeName      string  `json:"assigneeName"`
	Position          string  `json:"position"`
	EmployeeEmail     string  `json:"employeeEmail"`
	PhoneNumber       string  `json:"phoneNumber"`
	Department        string  `json:"department"`
	DamageDescription string  `json:"damageDescription"`
	PurchasePrice     float64 `json:"purchasePrice"`
	Client            string  `json:"client"`
}

func (dto UpdateEquipmentDTO) Validate() error {
	var fieldErrs []internal.ValidationError

	if dto.Status != "" && !IsValidStatus(dto.Status) {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "status", Message: "invalid status: " + dto.Status})
	}
	if dto.Client != "" && !IsValidClient(dto.Client) {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "client", Message: "invalid client: " + dto.Client})
	}
	if dto.PurchasePrice < 0 {
		fieldErrs = append(fieldErrs, internal.ValidationError{Field: "purchasePrice", Message: "purchasePrice cannot be negative"})
	}

	if len(fieldErrs) > 0 {
		return internal.NewFieldValidationError(fieldErrs...)
	}
	return nil
}
