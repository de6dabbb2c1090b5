package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStore is the slice of the user store the auth service needs.
type CredentialStore interface {
	GetCredentials(email string) (userID int64, passwordHash, role string, err error)
	UpdatePassword(email, passwordHash string) error
}

// ResetMailer delivers the password reset link to the user.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}

type Service struct {
	store       CredentialStore
	tokenGen    TokenGenerator
	resetTokens *ResetTokenStore
	mailer      ResetMailer
	baseURL     string
	bcryptCost  int
	logger      *slog.Logger
}

func NewService(store CredentialStore, tokenGen TokenGenerator, resetTokens *ResetTokenStore, mailer ResetMailer, baseURL string, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:       store,
		tokenGen:    tokenGen,
		resetTokens: resetTokens,
		mailer:      mailer,
		baseURL:     baseURL,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

// Authenticate verifies credentials and issues a signed token.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	userID, storedHash, role, err := s.store.GetCredentials(dto.Email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokenGen.GenerateToken(userID, dto.Email, role)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}

	return &LoginResponse{
		Token: token,
		User:  &Principal{ID: userID, Email: dto.Email, Role: role},
	}, nil
}

// ValidateToken parses and verifies a token from the x-auth-token header.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateToken(tokenString)
}

// ForgotPassword issues a reset token for a known email and mails the
// reset link. Unknown emails are reported as not found, matching the
// original behavior.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, _, _, err := s.store.GetCredentials(dto.Email); err != nil {
		return internal.NewNotFoundError("No account found with that email address.", internal.ErrCodeUserNotFound)
	}

	token, err := s.resetTokens.Create(dto.Email)
	if err != nil {
		return internal.NewInternalError("failed to generate reset token", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.baseURL, token, url.QueryEscape(dto.Email))

	if err := s.mailer.SendPasswordReset(ctx, dto.Email, resetLink); err != nil {
		s.logger.Error("failed to send reset email", "email", dto.Email, "error", err)
		return internal.NewInternalError("Failed to send reset email. Please try again later.", err)
	}

	s.logger.Info("password reset link sent", "email", dto.Email)
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if err := s.resetTokens.Consume(dto.Token, dto.Email); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.store.UpdatePassword(dto.Email, string(hash)); err != nil {
		return internal.NewNotFoundError("User not found.", internal.ErrCodeUserNotFound)
	}

	s.logger.Info("password reset completed", "email", dto.Email)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateToken creates a signed token carrying the user's id, email and
// role.
func (j *JWTTokenGenerator) GenerateToken(userID int64, email, role string) (string, error) {
	expiresAt := time.Now().Add(j.TokenTTL)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ValidateToken validates a signed token and returns its claims.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
