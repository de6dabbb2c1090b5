package user

import (
	"log/slog"
	"strings"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// List returns all accounts; password hashes never leave the repository
// serialized thanks to the json:"-" tag.
func (s *Service) List() ([]*User, error) {
	return s.repo.List()
}

func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role := dto.Role
	if role == "" {
		role = RoleViewer
	}

	u := &User{
		Name:         strings.TrimSpace(dto.Name),
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "email", dto.Email, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email, "role", u.Role)
	return u, nil
}

func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	fields := map[string]interface{}{}
	if dto.Name != nil {
		fields["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Email != nil {
		fields["email"] = *dto.Email
	}
	if dto.Role != nil {
		fields["role"] = *dto.Role
	}
	if dto.Password != nil && strings.TrimSpace(*dto.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		fields["password_hash"] = string(hash)
	}

	updated, err := s.repo.Update(id, fields)
	if err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)
	return updated, nil
}

// Delete removes an account. Deleting the acting principal's own account
// is forbidden.
func (s *Service) Delete(id, actorID int64) error {
	if id == actorID {
		return internal.ErrSelfDelete
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", actorID)
	return nil
}
