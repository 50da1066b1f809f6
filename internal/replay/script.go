// Package replay runs a timed script of toast operations against a
// toast.Manager and records the active list after every change.
package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/toast/internal/core/toast"
)

// Op is a script operation.
type Op string

const (
	OpShow       Op = "show"
	OpDismiss    Op = "dismiss"
	OpDismissAll Op = "dismiss_all"
	OpAnchor     Op = "anchor"
	OpSnapshot   Op = "snapshot" // records a frame without changing anything
)

// Duration is a time.Duration that decodes from either a Go duration
// string ("1.5s") or a number of seconds (1.5).
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds: %w", err)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// Script is a replay input document.
type Script struct {
	Name  string   `json:"name,omitempty"`
	Until Duration `json:"until,omitempty"` // keep running until this offset after the last step
	Steps []Step   `json:"steps"`
}

// Step is one timed operation. At is an offset from the script start.
type Step struct {
	At       Duration  `json:"at"`
	Op       Op        `json:"op"`
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title,omitempty"`
	Message  string    `json:"message,omitempty"`
	Variant  string    `json:"variant,omitempty"`
	Duration *Duration `json:"duration,omitempty"` // nil uses the runner default
	Anchor   string    `json:"anchor,omitempty"`
}

// Record builds the toast record for a show step.
func (s Step) Record(defaultDuration time.Duration) toast.Record {
	variant := toast.Variant(s.Variant)
	if variant == "" {
		variant = toast.VariantInfo
	}

	r := toast.New(variant, s.Title, s.Message).
		WithID(s.ID).
		WithDuration(defaultDuration)
	if s.Duration != nil {
		r = r.WithDuration(s.Duration.Std())
	}
	return r
}

// Validate checks the script for structural errors.
func (s Script) Validate() error {
	if len(s.Steps) == 0 {
		return criterio.NewFieldErrors("steps", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder

	var prev Duration
	for i, step := range s.Steps {
		field := fmt.Sprintf("steps[%d]", i)

		if step.At < 0 {
			errs = errs.Append(field+".at", fmt.Errorf("must not be negative"))
		}
		if step.At < prev {
			errs = errs.Append(field+".at", fmt.Errorf("%s is before the previous step (%s)", step.At.Std(), prev.Std()))
		}
		prev = max(prev, step.At)

		switch step.Op {
		case OpShow:
			if step.Title == "" {
				errs = errs.Append(field+".title", fmt.Errorf("title is required"))
			}
			if step.Variant != "" && !toast.Variant(step.Variant).Known() {
				errs = errs.Append(field+".variant", fmt.Errorf("unknown variant %q", step.Variant))
			}
		case OpDismiss:
			if step.ID == "" {
				errs = errs.Append(field+".id", fmt.Errorf("id is required"))
			}
		case OpAnchor:
			if _, err := toast.ParseAnchor(step.Anchor); err != nil || step.Anchor == "" {
				errs = errs.Append(field+".anchor", fmt.Errorf("anchor must be top or bottom"))
			}
		case OpDismissAll, OpSnapshot:
		default:
			errs = errs.Append(field+".op", fmt.Errorf("unknown op %q", step.Op))
		}
	}

	if s.Until != 0 && s.Until < prev {
		errs = errs.Append("until", fmt.Errorf("%s is before the last step (%s)", s.Until.Std(), prev.Std()))
	}

	return errs.ToError()
}
