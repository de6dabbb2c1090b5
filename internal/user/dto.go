package user

import (
	"errors"
	"fmt"
	"strings"
)

type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (dto CreateUserDTO) Validate() error {
	if len(strings.TrimSpace(dto.Name)) < 2 || len(dto.Name) > 100 {
		return errors.New("name must be between 2 and 100 characters")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	if dto.Role != "" && !IsValidRole(dto.Role) {
		return fmt.Errorf("invalid role: %s", dto.Role)
	}
	return nil
}

// UpdateUserDTO is a partial update; nil fields are left untouched.
type UpdateUserDTO struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Name != nil && (len(strings.TrimSpace(*dto.Name)) < 2 || len(*dto.Name) > 100) {
		return errors.New("name must be between 2 and 100 characters")
	}
	if dto.Email != nil && *dto.Email == "" {
		return errors.New("email cannot be empty")
	}
	if dto.Role != nil && !IsValidRole(*dto.Role) {
		return fmt.Errorf("invalid role: %s", *dto.Role)
	}
	return nil
}
