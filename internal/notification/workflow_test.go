package notification

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cirruslabs-it/asset-inventory/internal/core/events"
)

type fakeRenderer struct {
	path      string
	renderErr error
	calls     int
}

func (f *fakeRenderer) Render(asset AssetSnapshot, assignee AssigneeInfo) (string, error) {
	f.calls++
	if f.renderErr != nil {
		return "", f.renderErr
	}
	return f.path, nil
}

type fakeSender struct {
	result Result
	calls  []string
}

func (f *fakeSender) SendAssignment(_ context.Context, asset AssetSnapshot, _ AssigneeInfo, attachmentPath string) Result {
	f.calls = append(f.calls, attachmentPath)
	return f.result
}

var _ = Describe("AssignmentWorkflow", func() {
	var (
		renderer *fakeRenderer
		sender   *fakeSender
		workflow *AssignmentWorkflow

		scheduledDelay time.Duration
		scheduledFns   []func()
		removedPaths   []string
	)

	newEvent := func() *events.EquipmentAssignedEvent {
		evt := events.NewEquipmentAssignedEvent()
		evt.EquipmentID = 7
		evt.AssetID = "LT-0042"
		evt.Category = "Laptop"
		evt.AssigneeName = "Jordan Lee"
		evt.EmployeeEmail = "jordan.lee@example.com"
		return evt
	}

	BeforeEach(func() {
		renderer = &fakeRenderer{path: "temp/asset-assignment-LT-0042-1.pdf"}
		sender = &fakeSender{result: Result{OK: true, Transport: "smtp"}}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		scheduledDelay = 0
		scheduledFns = nil
		removedPaths = nil

		workflow = NewAssignmentWorkflow(renderer, sender, 5*time.Minute, lg)
		workflow.afterFunc = func(d time.Duration, f func()) *time.Timer {
			scheduledDelay = d
			scheduledFns = append(scheduledFns, f)
			return nil
		}
		workflow.remove = func(path string) error {
			removedPaths = append(removedPaths, path)
			return nil
		}
	})

	It("renders, dispatches, and schedules cleanup", func() {
		err := workflow.Handle(context.Background(), newEvent())
		Expect(err).ToNot(HaveOccurred())

		Expect(renderer.calls).To(Equal(1))
		Expect(sender.calls).To(Equal([]string{renderer.path}))
		Expect(scheduledDelay).To(Equal(5 * time.Minute))
		Expect(scheduledFns).To(HaveLen(1))

		scheduledFns[0]()
		Expect(removedPaths).To(Equal([]string{renderer.path}))
	})

	It("aborts before sending when rendering fails", func() {
		renderer.renderErr = errors.New("disk full")

		err := workflow.Handle(context.Background(), newEvent())
		Expect(err).To(HaveOccurred())
		Expect(sender.calls).To(BeEmpty())
		Expect(scheduledFns).To(BeEmpty())
	})

	It("still schedules cleanup when every transport fails", func() {
		sender.result = Result{OK: false, Detail: "all transports down"}

		err := workflow.Handle(context.Background(), newEvent())
		Expect(err).ToNot(HaveOccurred())
		Expect(scheduledFns).To(HaveLen(1))
	})

	It("rejects events of the wrong type", func() {
		other := &events.BaseEvent{ID: "x", Type: "other.event", Timestamp: time.Now()}
		err := workflow.Handle(context.Background(), other)
		Expect(err).To(HaveOccurred())
	})

	It("runs end to end when wired through the event bus", func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus := events.NewEventBus(lg)
		workflow.Register(bus)

		Expect(bus.PublishSync(context.Background(), newEvent())).To(Succeed())
		Expect(sender.calls).To(HaveLen(1))
	})
})
