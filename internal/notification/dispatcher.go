package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cirruslabs-it/asset-inventory/internal"
)

// Dispatcher routes outbound mail through the primary transport with a
// strict fallback to the secondary. The primary is optional; when it is
// not configured every message goes straight to the secondary.
type Dispatcher struct {
	primary     Mailer
	secondary   Mailer
	companyName string
	logger      *slog.Logger
}

func NewDispatcher(primary, secondary Mailer, companyName string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		primary:     primary,
		secondary:   secondary,
		companyName: companyName,
		logger:      logger,
	}
}

// Send attempts the primary transport first and falls back to the
// secondary exactly once, with the identical message. It reports the
// outcome instead of returning an error; notification delivery must
// never propagate failures into the calling operation.
func (d *Dispatcher) Send(ctx context.Context, msg Message) Result {
	if d.primary != nil {
		err := d.primary.Send(ctx, msg)
		if err == nil {
			d.logger.Info("email sent", "transport", d.primary.Name(), "to", msg.To, "subject", msg.Subject)
			return Result{OK: true, Transport: d.primary.Name()}
		}
		d.logger.Warn("primary mail transport failed, falling back",
			"transport", d.primary.Name(), "to", msg.To, "error", err)
	}

	if d.secondary == nil {
		d.logger.Error("no mail transport available", "to", msg.To)
		return Result{OK: false, Detail: "no mail transport configured"}
	}

	if err := d.secondary.Send(ctx, msg); err != nil {
		d.logger.Error("fallback mail transport failed",
			"transport", d.secondary.Name(), "to", msg.To, "error", err)
		return Result{OK: false, Transport: d.secondary.Name(), Detail: err.Error()}
	}

	d.logger.Info("email sent", "transport", d.secondary.Name(), "to", msg.To, "subject", msg.Subject)
	return Result{OK: true, Transport: d.secondary.Name()}
}

// SendAssignment delivers the assignment notification with the signed
// acknowledgement document attached.
func (d *Dispatcher) SendAssignment(ctx context.Context, asset AssetSnapshot, assignee AssigneeInfo, attachmentPath string) Result {
	return d.Send(ctx, Message{
		To:             assignee.Email,
		Subject:        assignmentSubject(asset.AssetID),
		HTMLBody:       assignmentBody(d.companyName, asset, assignee),
		AttachmentPath: attachmentPath,
	})
}

// sendPlain delivers a message over the secondary transport only. The
// utility endpoints and reset mail have no attachment and no need for
// the Graph tenant, so they skip the fallback chain.
func (d *Dispatcher) sendPlain(ctx context.Context, msg Message) Result {
	if d.secondary == nil {
		d.logger.Error("no mail transport available", "to", msg.To)
		return Result{OK: false, Detail: "no mail transport configured"}
	}
	if err := d.secondary.Send(ctx, msg); err != nil {
		d.logger.Error("mail send failed",
			"transport", d.secondary.Name(), "to", msg.To, "error", err)
		return Result{OK: false, Transport: d.secondary.Name(), Detail: err.Error()}
	}
	d.logger.Info("email sent", "transport", d.secondary.Name(), "to", msg.To, "subject", msg.Subject)
	return Result{OK: true, Transport: d.secondary.Name()}
}

// SendPasswordReset delivers the reset link to the account email. Unlike
// Send it returns an error so the caller can surface the failure, since
// a lost reset mail leaves the user locked out.
func (d *Dispatcher) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	result := d.sendPlain(ctx, Message{
		To:       email,
		Subject:  "Password Reset Request",
		HTMLBody: resetBody(d.companyName, resetLink),
	})
	if !result.OK {
		return internal.NewInternalError(
			fmt.Sprintf("failed to send reset email: %s", result.Detail), nil)
	}
	return nil
}

// SendAdhoc delivers an operator-composed message.
func (d *Dispatcher) SendAdhoc(ctx context.Context, to, subject, message string) Result {
	return d.sendPlain(ctx, Message{
		To:       to,
		Subject:  subject,
		HTMLBody: adhocBody(message),
	})
}

// SendTest sends a probe message to verify the delivery chain end to
// end.
func (d *Dispatcher) SendTest(ctx context.Context, probeAddress string) Result {
	return d.sendPlain(ctx, Message{
		To:       probeAddress,
		Subject:  "Test Email",
		HTMLBody: adhocBody("This is a test email from the IT asset management system."),
	})
}
