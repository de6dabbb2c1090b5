package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cirruslabs-it/asset-inventory/internal/transport"
)

// DispatcherAPI is the subset of the dispatcher used by the HTTP surface.
type DispatcherAPI interface {
	SendAdhoc(ctx context.Context, to, subject, message string) Result
	SendTest(ctx context.Context, probeAddress string) Result
}

type Handler struct {
	*transport.BaseHandler
	dispatcher   DispatcherAPI
	probeAddress string
}

func NewHandler(base *transport.BaseHandler, dispatcher DispatcherAPI, probeAddress string) *Handler {
	return &Handler{
		BaseHandler:  base,
		dispatcher:   dispatcher,
		probeAddress: probeAddress,
	}
}

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendEmail delivers an operator-composed message through the regular
// dispatch chain.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == "" || req.Subject == "" || req.Message == "" {
		h.WriteError(w, http.StatusBadRequest, "to, subject and message are required")
		return
	}

	result := h.dispatcher.SendAdhoc(r.Context(), req.To, req.Subject, req.Message)
	if !result.OK {
		h.WriteError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Email sent successfully",
		"transport": result.Transport,
	})
}

// TestEmail sends a probe message to the configured address so operators
// can verify the delivery chain.
func (h *Handler) TestEmail(w http.ResponseWriter, r *http.Request) {
	if h.probeAddress == "" {
		h.WriteError(w, http.StatusBadRequest, "no probe address configured")
		return
	}

	result := h.dispatcher.SendTest(r.Context(), h.probeAddress)
	if !result.OK {
		h.WriteError(w, http.StatusInternalServerError, "Failed to send test email")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Test email sent successfully",
		"transport": result.Transport,
	})
}
