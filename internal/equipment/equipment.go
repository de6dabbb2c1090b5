package equipment

import (
	"time"
)

const (
	StatusInUse   = "In Use"
	StatusInStock = "In Stock"
	StatusDamaged = "Damaged"
	StatusEWaste  = "E-Waste"
	StatusRemoved = "Removed"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusInUse, StatusInStock, StatusDamaged, StatusEWaste, StatusRemoved:
		return true
	}
	return false
}

var validClients = map[string]bool{
	"Deloitte":  true,
	"Lionguard": true,
	"Cognizant": true,
}

func IsValidClient(client string) bool {
	return validClients[client]
}

// Equipment is one physical or logical IT asset. Assignment attributes
// are meaningful only while the status is In Use; DamageDescription is
// held only while the status is Damaged. Records are soft-deleted and
// retained for audit.
type Equipment struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	AssetID           string     `json:"assetId" gorm:"column:asset_id;uniqueIndex;not null"`
	Category          string     `json:"category" gorm:"not null"`
	Status            string     `json:"status" gorm:"not null"`
	Model             string     `json:"model"`
	SerialNumber      *string    `json:"serialNumber" gorm:"column:serial_number;uniqueIndex"`
	WarrantyExpiry    *time.Time `json:"warrantyExpiry" gorm:"column:warranty_expiry"`
	PurchaseDate      *time.Time `json:"purchaseDate" gorm:"column:purchase_date"`
	Location          string     `json:"location"`
	Comment           *string    `json:"comment"`
	AssigneeName      string     `json:"assigneeName" gorm:"column:assignee_name"`
	Position          string     `json:"position"`
	EmployeeEmail     string     `json:"employeeEmail" gorm:"column:employee_email"`
	PhoneNumber       string     `json:"phoneNumber" gorm:"column:phone_number"`
	Department        string     `json:"department"`
	DamageDescription *string    `json:"damageDescription" gorm:"column:damage_description"`
	PurchasePrice     float64    `json:"purchasePrice" gorm:"column:purchase_price;default:0"`
	Client            *string    `json:"client"`
	IsDeleted         bool       `json:"isDeleted" gorm:"column:is_deleted;default:false"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (Equipment) TableName() string {
	return "equipment"
}

// Summary holds the per-status counts shown on the dashboard. Removed
// counts E-Waste plus soft-deleted records.
type Summary struct {
	TotalAssets int64 `json:"totalAssets"`
	InUse       int64 `json:"inUse"`
	InStock     int64 `json:"inStock"`
	Damaged     int64 `json:"damaged"`
	EWaste      int64 `json:"eWaste"`
	Removed     int64 `json:"removed"`
}

// AssigneeGroup is one employee with every asset currently assigned to
// them.
type AssigneeGroup struct {
	EmployeeEmail string       `json:"employeeEmail"`
	AssigneeName  string       `json:"assigneeName"`
	Position      string       `json:"position"`
	PhoneNumber   string       `json:"phoneNumber"`
	Department    string       `json:"department"`
	Assets        []*Equipment `json:"assets"`
	Count         int          `json:"count"`
}

// WarrantyDebug is the diagnostic payload behind the expiring-warranty
// debug endpoint: the matched rows together with the query window that
// selected them.
type WarrantyDebug struct {
	Count      int           `json:"count"`
	Items      []*Equipment  `json:"items"`
	SampleItem *Equipment    `json:"sampleItem"`
	Query      WarrantyQuery `json:"query"`
}

type WarrantyQuery struct {
	WarrantyRange    WarrantyRange `json:"warrantyRange"`
	ExcludedStatuses []string      `json:"excludedStatuses"`
}

type WarrantyRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Repository defines the data access methods for equipment records. All
// read methods exclude soft-deleted records unless stated otherwise.
type Repository interface {
	GetByID(id int64) (*Equipment, error)
	List() ([]*Equipment, error)
	Create(e *Equipment) error
	Update(id int64, fields map[string]interface{}) (*Equipment, error)
	SoftDelete(id int64) error

	CountAll() (int64, error)
	CountByStatus(status string) (int64, error)
	CountRemovedOrDeleted() (int64, error)
	CountByCategory(category string) (int64, error)
	TotalPurchaseValue() (float64, error)
	ExpiringWarranty(from, to time.Time) ([]*Equipment, error)
	ListInUse() ([]*Equipment, error)
	ListRemoved() ([]*Equipment, error)

	SerialDuplicates() ([]SerialDuplicate, error)
	UpdateSerialNumber(id int64, serial string) error
}

// SerialDuplicate is one serial number shared by more than one record,
// with the record ids ordered oldest first.
type SerialDuplicate struct {
	SerialNumber string
	IDs          []int64
}
