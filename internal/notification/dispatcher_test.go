package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cirruslabs-it/asset-inventory/internal/notification"
)

type mockMailer struct {
	name     string
	sendErr  error
	received []notification.Message
}

func (m *mockMailer) Name() string { return m.name }

func (m *mockMailer) Send(_ context.Context, msg notification.Message) error {
	m.received = append(m.received, msg)
	return m.sendErr
}

var _ = Describe("Dispatcher", func() {
	var (
		primary   *mockMailer
		secondary *mockMailer
		lg        *slog.Logger
	)

	BeforeEach(func() {
		primary = &mockMailer{name: "graph"}
		secondary = &mockMailer{name: "smtp"}
		lg = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	msg := notification.Message{
		To:       "jordan.lee@example.com",
		Subject:  "IT Asset Assignment - LT-0042",
		HTMLBody: "<p>hi</p>",
	}

	Context("when the primary transport succeeds", func() {
		It("never touches the fallback", func() {
			d := notification.NewDispatcher(primary, secondary, "Cirrus Labs", lg)

			result := d.Send(context.Background(), msg)

			Expect(result.OK).To(BeTrue())
			Expect(result.Transport).To(Equal("graph"))
			Expect(primary.received).To(HaveLen(1))
			Expect(secondary.received).To(BeEmpty())
		})
	})

	Context("when the primary transport fails", func() {
		It("retries exactly once on the fallback with the identical message", func() {
			primary.sendErr = errors.New("token exchange failed")
			d := notification.NewDispatcher(primary, secondary, "Cirrus Labs", lg)

			result := d.Send(context.Background(), msg)

			Expect(result.OK).To(BeTrue())
			Expect(result.Transport).To(Equal("smtp"))
			Expect(primary.received).To(HaveLen(1))
			Expect(secondary.received).To(HaveLen(1))
			Expect(secondary.received[0]).To(Equal(primary.received[0]))
		})
	})

	Context("when both transports fail", func() {
		It("reports the failure without panicking or erroring", func() {
			primary.sendErr = errors.New("token exchange failed")
			secondary.sendErr = errors.New("connection refused")
			d := notification.NewDispatcher(primary, secondary, "Cirrus Labs", lg)

			result := d.Send(context.Background(), msg)

			Expect(result.OK).To(BeFalse())
			Expect(result.Transport).To(Equal("smtp"))
			Expect(result.Detail).To(ContainSubstring("connection refused"))
		})
	})

	Context("when no primary transport is configured", func() {
		It("goes straight to the fallback", func() {
			d := notification.NewDispatcher(nil, secondary, "Cirrus Labs", lg)

			result := d.Send(context.Background(), msg)

			Expect(result.OK).To(BeTrue())
			Expect(result.Transport).To(Equal("smtp"))
		})
	})

	Describe("plain path", func() {
		It("uses only the SMTP transport even when a primary is configured", func() {
			d := notification.NewDispatcher(primary, secondary, "Cirrus Labs", lg)

			result := d.SendAdhoc(context.Background(), "jordan.lee@example.com", "Hello", "body")
			Expect(result.OK).To(BeTrue())
			Expect(result.Transport).To(Equal("smtp"))
			Expect(primary.received).To(BeEmpty())

			result = d.SendTest(context.Background(), "it-ops@example.com")
			Expect(result.OK).To(BeTrue())
			Expect(primary.received).To(BeEmpty())
			Expect(secondary.received).To(HaveLen(2))
		})
	})

	Describe("SendPasswordReset", func() {
		It("returns an error when delivery fails", func() {
			secondary.sendErr = errors.New("connection refused")
			d := notification.NewDispatcher(primary, secondary, "Cirrus Labs", lg)

			err := d.SendPasswordReset(context.Background(), "jordan.lee@example.com", "http://app/reset")
			Expect(err).To(HaveOccurred())
		})

		It("includes the reset link in the body", func() {
			d := notification.NewDispatcher(nil, secondary, "Cirrus Labs", lg)

			err := d.SendPasswordReset(context.Background(), "jordan.lee@example.com", "http://app/reset?token=abc")
			Expect(err).ToNot(HaveOccurred())
			Expect(secondary.received).To(HaveLen(1))
			Expect(secondary.received[0].HTMLBody).To(ContainSubstring("http://app/reset?token=abc"))
			Expect(secondary.received[0].HTMLBody).To(ContainSubstring("1 hour"))
		})
	})

	Describe("SendAssignment", func() {
		It("addresses the assignee and attaches the document", func() {
			d := notification.NewDispatcher(nil, secondary, "Cirrus Labs", lg)

			result := d.SendAssignment(context.Background(),
				notification.AssetSnapshot{AssetID: "LT-0042", Category: "Laptop"},
				notification.AssigneeInfo{Name: "Jordan Lee", Email: "jordan.lee@example.com"},
				"/tmp/doc.pdf")

			Expect(result.OK).To(BeTrue())
			Expect(secondary.received).To(HaveLen(1))
			Expect(secondary.received[0].To).To(Equal("jordan.lee@example.com"))
			Expect(secondary.received[0].Subject).To(ContainSubstring("LT-0042"))
			Expect(secondary.received[0].AttachmentPath).To(Equal("/tmp/doc.pdf"))
		})
	})
})
