package logging

import "context"

type contextKey string

const (
	scriptKey contextKey = "script"
	stepKey   contextKey = "step"
)

// WithScript records the name of the replay script being run.
func WithScript(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, scriptKey, name)
}

// WithStep records the index of the replay step being applied.
func WithStep(ctx context.Context, step int) context.Context {
	return context.WithValue(ctx, stepKey, step)
}

// GetScript returns the script name stored in ctx, or "".
func GetScript(ctx context.Context) string {
	if name, ok := ctx.Value(scriptKey).(string); ok {
		return name
	}
	return ""
}

// GetStep returns the step index stored in ctx. ok is false when no step
// was recorded.
func GetStep(ctx context.Context) (step int, ok bool) {
	step, ok = ctx.Value(stepKey).(int)
	return step, ok
}
