package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies replay script and step values from the event context
// onto the log event.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if name := GetScript(ctx); name != "" {
		e.Str("script", name)
	}

	if step, ok := GetStep(ctx); ok {
		e.Int("step", step)
	}
}
