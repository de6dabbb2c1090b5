package notification

import (
	"context"
	"errors"
	"time"
)

// ErrRenderFailed wraps any failure to produce the acknowledgement
// document. No partial file is ever handed to the dispatcher.
var ErrRenderFailed = errors.New("failed to render assignment document")

// AssetSnapshot is the slice of an equipment record that appears in the
// acknowledgement document and the notification email.
type AssetSnapshot struct {
	EquipmentID   int64
	AssetID       string
	Category      string
	Model         string
	SerialNumber  string
	Status        string
	Location      string
	WarrantyDate  *time.Time
	PurchasePrice float64
}

// AssigneeInfo identifies the employee receiving the asset.
type AssigneeInfo struct {
	Name       string
	Position   string
	Department string
	Email      string
	Phone      string
}

// Message is one outbound email. AttachmentPath is optional.
type Message struct {
	To             string
	Subject        string
	HTMLBody       string
	AttachmentPath string
}

// Mailer is a single delivery transport.
type Mailer interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Result records the outcome of a dispatch attempt.
type Result struct {
	OK        bool   `json:"ok"`
	Transport string `json:"transport,omitempty"`
	Detail    string `json:"detail,omitempty"`
}
