package notification

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cirruslabs-it/asset-inventory/internal/core/events"
)

// DocumentRenderer produces the acknowledgement document for one
// assignment.
type DocumentRenderer interface {
	Render(asset AssetSnapshot, assignee AssigneeInfo) (string, error)
}

// Sender delivers the assignment notification.
type Sender interface {
	SendAssignment(ctx context.Context, asset AssetSnapshot, assignee AssigneeInfo, attachmentPath string) Result
}

// AssignmentWorkflow reacts to equipment.assigned events: it renders the
// acknowledgement document, dispatches the notification email, and
// schedules removal of the temporary document. The whole workflow runs
// off the request path; a failure at any step is logged and never
// surfaces to the operator who triggered the assignment.
type AssignmentWorkflow struct {
	renderer     DocumentRenderer
	sender       Sender
	cleanupDelay time.Duration
	logger       *slog.Logger

	// overridable for tests
	afterFunc func(d time.Duration, f func()) *time.Timer
	remove    func(path string) error
}

func NewAssignmentWorkflow(renderer DocumentRenderer, sender Sender, cleanupDelay time.Duration, logger *slog.Logger) *AssignmentWorkflow {
	return &AssignmentWorkflow{
		renderer:     renderer,
		sender:       sender,
		cleanupDelay: cleanupDelay,
		logger:       logger,
		afterFunc:    time.AfterFunc,
		remove:       os.Remove,
	}
}

// Register subscribes the workflow to the event bus.
func (w *AssignmentWorkflow) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeEquipmentAssigned, w.Handle)
}

func (w *AssignmentWorkflow) Handle(ctx context.Context, event events.Event) error {
	assigned, ok := event.(*events.EquipmentAssignedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	asset := AssetSnapshot{
		EquipmentID:   assigned.EquipmentID,
		AssetID:       assigned.AssetID,
		Category:      assigned.Category,
		Model:         assigned.Model,
		SerialNumber:  assigned.SerialNumber,
		Status:        assigned.Status,
		Location:      assigned.Location,
		WarrantyDate:  assigned.WarrantyDate,
		PurchasePrice: assigned.PurchasePrice,
	}
	assignee := AssigneeInfo{
		Name:       assigned.AssigneeName,
		Position:   assigned.Position,
		Department: assigned.Department,
		Email:      assigned.EmployeeEmail,
		Phone:      assigned.PhoneNumber,
	}

	path, err := w.renderer.Render(asset, assignee)
	if err != nil {
		w.logger.Error("failed to render assignment document",
			"asset_id", asset.AssetID, "assignee", assignee.Email, "error", err)
		return err
	}

	result := w.sender.SendAssignment(ctx, asset, assignee, path)
	if result.OK {
		w.logger.Info("assignment notification delivered",
			"asset_id", asset.AssetID, "assignee", assignee.Email, "transport", result.Transport)
	} else {
		w.logger.Error("assignment notification failed on all transports",
			"asset_id", asset.AssetID, "assignee", assignee.Email, "detail", result.Detail)
	}

	w.scheduleCleanup(path)
	return nil
}

// scheduleCleanup removes the temporary document after the grace period,
// whether or not delivery succeeded.
func (w *AssignmentWorkflow) scheduleCleanup(path string) {
	w.afterFunc(w.cleanupDelay, func() {
		if err := w.remove(path); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("failed to remove temporary document", "path", path, "error", err)
			return
		}
		w.logger.Debug("temporary document removed", "path", path)
	})
}
