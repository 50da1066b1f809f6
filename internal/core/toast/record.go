// Package toast implements an in-process queue of short-lived UI
// notifications. Each notification may dismiss itself after a delay; the
// Manager serializes every change and publishes ordered snapshots for
// renderers.
package toast

import "time"

// Variant is the presentation category of a toast. The manager carries it
// through untouched.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
	VariantNeutral Variant = "neutral"
)

// DefaultDuration is the lifetime given to records built by the
// convenience constructors.
const DefaultDuration = 4 * time.Second

// Variants returns all known variants in display order.
func Variants() []Variant {
	return []Variant{VariantSuccess, VariantError, VariantWarning, VariantInfo, VariantNeutral}
}

// Known reports whether v is one of the built-in variants.
func (v Variant) Known() bool {
	switch v {
	case VariantSuccess, VariantError, VariantWarning, VariantInfo, VariantNeutral:
		return true
	}
	return false
}

// Action is an optional button shown on a toast. Run is invoked by the
// renderer before the toast is dismissed.
type Action struct {
	Label string
	Run   func()
}

// Record describes one notification. Records are values: the manager
// copies them in and out and never edits one in place.
type Record struct {
	ID       string
	Title    string
	Message  string
	Variant  Variant
	Duration time.Duration
	Action   *Action
}

// New returns a record with the given variant and DefaultDuration.
func New(variant Variant, title, message string) Record {
	return Record{
		Title:    title,
		Message:  message,
		Variant:  variant,
		Duration: DefaultDuration,
	}
}

func Success(title, message string) Record { return New(VariantSuccess, title, message) }
func Error(title, message string) Record   { return New(VariantError, title, message) }
func Warning(title, message string) Record { return New(VariantWarning, title, message) }
func Info(title, message string) Record    { return New(VariantInfo, title, message) }
func Neutral(title, message string) Record { return New(VariantNeutral, title, message) }

// AutoDismiss reports whether the record should expire on its own.
// Zero and negative durations both mean "until dismissed".
func (r Record) AutoDismiss() bool {
	return r.Duration > 0
}

// HasAction reports whether the record carries a runnable action.
func (r Record) HasAction() bool {
	return r.Action != nil && r.Action.Run != nil
}

// WithID returns a copy of r with the given id.
func (r Record) WithID(id string) Record {
	r.ID = id
	return r
}

// WithDuration returns a copy of r with the given lifetime.
func (r Record) WithDuration(d time.Duration) Record {
	r.Duration = d
	return r
}

// Persistent returns a copy of r that never expires on its own.
func (r Record) Persistent() Record {
	r.Duration = 0
	return r
}

// WithAction returns a copy of r carrying an action button.
func (r Record) WithAction(label string, run func()) Record {
	r.Action = &Action{Label: label, Run: run}
	return r
}
