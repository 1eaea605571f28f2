package sim

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type namedHandler struct{}

func (namedHandler) Name() string         { return "PE(0,0)" }
func (namedHandler) Handle(_ Event) error { return nil }

var _ = Describe("EventLogger", func() {
	var (
		buf    *bytes.Buffer
		logger *EventLogger
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		logger = NewEventLogger(slog.New(slog.NewTextHandler(buf,
			&slog.HandlerOptions{Level: LevelTrace})))
	})

	It("should log events before they are handled", func() {
		evt := NewEventBase(3*Ns, namedHandler{})

		logger.Func(HookCtx{Pos: HookPosBeforeEvent, Item: evt})

		Expect(buf.String()).To(ContainSubstring("handler=PE(0,0)"))
		Expect(buf.String()).To(ContainSubstring("*sim.EventBase"))
	})

	It("should ignore other positions", func() {
		evt := NewEventBase(3*Ns, namedHandler{})

		logger.Func(HookCtx{Pos: HookPosAfterEvent, Item: evt})

		Expect(buf.Len()).To(BeZero())
	})

	It("should be attached to an engine", func() {
		engine := NewSerialEngine()
		engine.AcceptHook(logger)
		engine.Schedule(NewEventBase(2*Ns, namedHandler{}))

		Expect(engine.Run()).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("level=INFO+1"))
	})
})
