package equipment

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/cirruslabs-it/asset-inventory/internal/core/events"
)

// EventPublisher decouples the service from the concrete bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo   Repository
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo Repository, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) List() ([]*Equipment, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int64) (*Equipment, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(dto CreateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e := &Equipment{
		AssetID:        dto.AssetID,
		Category:       dto.Category,
		Status:         dto.Status,
		Model:          dto.Model,
		WarrantyExpiry: ParseDate(dto.WarrantyExpiry),
		PurchaseDate:   ParseDate(dto.PurchaseDate),
		Location:       dto.Location,
		AssigneeName:   dto.AssigneeName,
		Position:       dto.Position,
		EmployeeEmail:  dto.EmployeeEmail,
		PhoneNumber:    dto.PhoneNumber,
		Department:     dto.Department,
		PurchasePrice:  dto.PurchasePrice,
	}
	if dto.SerialNumber != "" {
		e.SerialNumber = &dto.SerialNumber
	}
	if dto.Comment != "" && dto.Comment != "null" {
		e.Comment = &dto.Comment
	}
	if dto.Status == StatusDamaged && dto.DamageDescription != "" {
		e.DamageDescription = &dto.DamageDescription
	}
	if dto.Client != "" {
		e.Client = &dto.Client
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create equipment", "asset_id", dto.AssetID, "error", err)
		return nil, err
	}

	s.logger.Info("equipment created", "equipment_id", e.ID, "asset_id", e.AssetID, "status", e.Status)
	return e, nil
}

// Update applies the submitted delta to a record. When the update
// qualifies as a new assignment the service publishes an
// equipment.assigned event after the write commits; publishing is
// asynchronous, so the caller's response is never delayed or failed by
// the notification workflow. The before snapshot is read ahead of the
// write and may be stale under concurrent writers to the same record;
// that race is accepted.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	before, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields := s.updateFields(dto)

	updated, err := s.repo.Update(id, fields)
	if err != nil {
		s.logger.Error("failed to update equipment", "equipment_id", id, "error", err)
		return nil, err
	}

	if IsNewAssignment(before, dto) {
		s.logger.Info("new asset assignment detected",
			"equipment_id", id,
			"asset_id", updated.AssetID,
			"assignee", dto.AssigneeName,
			"employee_email", dto.EmployeeEmail)
		s.publishAssigned(ctx, updated, dto)
	}

	return updated, nil
}

func (s *Service) updateFields(dto UpdateEquipmentDTO) map[string]interface{} {
	fields := map[string]interface{}{
		"asset_id":       dto.AssetID,
		"category":       dto.Category,
		"status":         dto.Status,
		"model":          dto.Model,
		"location":       dto.Location,
		"assignee_name":  dto.AssigneeName,
		"position":       dto.Position,
		"employee_email": dto.EmployeeEmail,
		"phone_number":   dto.PhoneNumber,
		"department":     dto.Department,
		"purchase_price": dto.PurchasePrice,
	}

	fields["warranty_expiry"] = ParseDate(dto.WarrantyExpiry)
	fields["purchase_date"] = ParseDate(dto.PurchaseDate)

	if dto.SerialNumber != "" {
		fields["serial_number"] = dto.SerialNumber
	}

	// Damage descriptions only survive while the record is Damaged.
	if dto.Status != StatusDamaged {
		fields["damage_description"] = nil
	} else if dto.DamageDescription != "" {
		fields["damage_description"] = dto.DamageDescription
	}

	if dto.Comment == "null" || dto.Comment == "" {
		fields["comment"] = nil
	} else {
		fields["comment"] = dto.Comment
	}

	if dto.Client != "" {
		fields["client"] = dto.Client
	}

	return fields
}

func (s *Service) publishAssigned(ctx context.Context, updated *Equipment, dto UpdateEquipmentDTO) {
	evt := events.NewEquipmentAssignedEvent()
	evt.EquipmentID = updated.ID
	evt.AssetID = updated.AssetID
	evt.Category = updated.Category
	evt.Model = updated.Model
	if updated.SerialNumber != nil {
		evt.SerialNumber = *updated.SerialNumber
	}
	evt.Status = updated.Status
	evt.Location = updated.Location
	evt.WarrantyDate = updated.WarrantyExpiry
	evt.PurchasePrice = updated.PurchasePrice

	// Assignee fields come from the submitted delta.
	evt.AssigneeName = dto.AssigneeName
	evt.Position = dto.Position
	evt.Department = dto.Department
	evt.EmployeeEmail = dto.EmployeeEmail
	evt.PhoneNumber = dto.PhoneNumber

	s.bus.Publish(ctx, evt)
}

// SoftDelete marks a record deleted while keeping it for audit.
func (s *Service) SoftDelete(id int64) error {
	if err := s.repo.SoftDelete(id); err != nil {
		s.logger.Error("failed to soft delete equipment", "equipment_id", id, "error", err)
		return err
	}
	s.logger.Info("equipment marked as deleted", "equipment_id", id)
	return nil
}

func (s *Service) Summary() (*Summary, error) {
	total, err := s.repo.CountAll()
	if err != nil {
		return nil, err
	}
	inUse, err := s.repo.CountByStatus(StatusInUse)
	if err != nil {
		return nil, err
	}
	inStock, err := s.repo.CountByStatus(StatusInStock)
	if err != nil {
		return nil, err
	}
	damaged, err := s.repo.CountByStatus(StatusDamaged)
	if err != nil {
		return nil, err
	}
	eWaste, err := s.repo.CountByStatus(StatusEWaste)
	if err != nil {
		return nil, err
	}
	removed, err := s.repo.CountRemovedOrDeleted()
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalAssets: total,
		InUse:       inUse,
		InStock:     inStock,
		Damaged:     damaged,
		EWaste:      eWaste,
		Removed:     removed,
	}, nil
}

func (s *Service) TotalValue() (float64, error) {
	return s.repo.TotalPurchaseValue()
}

// warrantyWindowDays is how far ahead the expiring-warranty views look.
const warrantyWindowDays = 30

// ExpiringWarranty returns active records whose warranty ends within the
// next 30 days.
func (s *Service) ExpiringWarranty() ([]*Equipment, error) {
	now := time.Now()
	return s.repo.ExpiringWarranty(now, now.AddDate(0, 0, warrantyWindowDays))
}

// ExpiringWarrantyDebug returns the same rows as ExpiringWarranty plus
// the query window that selected them, for diagnosing warranty data.
func (s *Service) ExpiringWarrantyDebug() (*WarrantyDebug, error) {
	from := time.Now()
	to := from.AddDate(0, 0, warrantyWindowDays)

	items, err := s.repo.ExpiringWarranty(from, to)
	if err != nil {
		return nil, err
	}

	debug := &WarrantyDebug{
		Count: len(items),
		Items: items,
		Query: WarrantyQuery{
			WarrantyRange:    WarrantyRange{From: from, To: to},
			ExcludedStatuses: []string{StatusEWaste, StatusDamaged, StatusRemoved},
		},
	}
	if len(items) > 0 {
		debug.SampleItem = items[0]
	}
	return debug, nil
}

// GroupedByEmail returns every in-use asset grouped per employee email,
// sorted by email.
func (s *Service) GroupedByEmail() ([]*AssigneeGroup, error) {
	inUse, err := s.repo.ListInUse()
	if err != nil {
		return nil, err
	}

	byEmail := make(map[string]*AssigneeGroup)
	for _, e := range inUse {
		group, ok := byEmail[e.EmployeeEmail]
		if !ok {
			group = &AssigneeGroup{
				EmployeeEmail: e.EmployeeEmail,
				AssigneeName:  e.AssigneeName,
				Position:      e.Position,
				PhoneNumber:   e.PhoneNumber,
				Department:    e.Department,
			}
			byEmail[e.EmployeeEmail] = group
		}
		group.Assets = append(group.Assets, e)
		group.Count++
	}

	groups := make([]*AssigneeGroup, 0, len(byEmail))
	for _, g := range byEmail {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].EmployeeEmail < groups[j].EmployeeEmail
	})

	return groups, nil
}

func (s *Service) Removed() ([]*Equipment, error) {
	return s.repo.ListRemoved()
}

func (s *Service) CountByCategory(category string) (int64, error) {
	if category == "" {
		return 0, internal.NewValidationError("category is required", internal.ErrCodeValidationFailed)
	}
	return s.repo.CountByCategory(category)
}
