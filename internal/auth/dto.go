package auth

import "errors"

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

func (dto ForgotPasswordDTO) Validate() error {
	if dto.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

type ResetPasswordDTO struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (dto ResetPasswordDTO) Validate() error {
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Token == "" {
		return errors.New("token is required")
	}
	if dto.NewPassword == "" {
		return errors.New("new password is required")
	}
	return nil
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  *Principal `json:"user"`
}
