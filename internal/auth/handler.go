package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/cirruslabs-it/asset-inventory/internal/transport"
	"github.com/cirruslabs-it/asset-inventory/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
	ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "email", dto.Email, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto ForgotPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.Logger.Info("password reset requested", "email", dto.Email)

	if err := h.Service.ForgotPassword(r.Context(), dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset link sent to your email successfully.",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.Logger.Info("password reset submitted", "email", dto.Email)

	if err := h.Service.ResetPassword(r.Context(), dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset successfully!",
	})
}

// AuthMiddleware validates the x-auth-token header and attaches the
// authenticated principal to the request context. Missing tokens are a
// 401; malformed or expired tokens are a 400, matching the original API.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractToken(r)
		if token == "" {
			h.Logger.Warn("auth middleware: no token provided", "path", r.URL.Path)
			h.WriteError(w, http.StatusUnauthorized, internal.ErrMissingToken.Message)
			return
		}

		claims, err := h.Service.ValidateToken(token)
		if err != nil {
			h.Logger.Warn("auth middleware: invalid token", "path", r.URL.Path, "error", err)
			h.WriteError(w, http.StatusBadRequest, internal.ErrInvalidToken.Message)
			return
		}

		principal := &Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
		ctx := ContextWithPrincipal(r.Context(), principal)
		ctx = logger.With(ctx, "user_id", principal.ID, "role", principal.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows only principals whose role is in the given list.
func (h *Handler) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				h.WriteError(w, http.StatusUnauthorized, internal.ErrMissingToken.Message)
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			h.Logger.Warn("access denied: insufficient role",
				"user_id", principal.ID,
				"role", principal.Role,
				"required_roles", roles,
				"path", r.URL.Path)
			h.WriteError(w, http.StatusForbidden, internal.ErrInsufficientRole.Message)
		})
	}
}
