package replay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toast/internal/core/toast"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: `"1.5s"`, want: 1500 * time.Millisecond},
		{in: `"250ms"`, want: 250 * time.Millisecond},
		{in: `4`, want: 4 * time.Second},
		{in: `0.5`, want: 500 * time.Millisecond},
		{in: `"soon"`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Duration(4 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"4s"`, string(out))
}

func TestStep_Record(t *testing.T) {
	ten := Duration(10 * time.Second)
	zero := Duration(0)

	tests := []struct {
		name         string
		step         Step
		wantVariant  toast.Variant
		wantDuration time.Duration
	}{
		{
			name:         "defaults",
			step:         Step{Op: OpShow, ID: "a", Title: "hi"},
			wantVariant:  toast.VariantInfo,
			wantDuration: 3 * time.Second,
		},
		{
			name:         "explicit duration and variant",
			step:         Step{Op: OpShow, ID: "a", Title: "hi", Variant: "error", Duration: &ten},
			wantVariant:  toast.VariantError,
			wantDuration: 10 * time.Second,
		},
		{
			name:         "explicit zero is persistent",
			step:         Step{Op: OpShow, ID: "a", Title: "hi", Duration: &zero},
			wantVariant:  toast.VariantInfo,
			wantDuration: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.step.Record(3 * time.Second)

			assert.Equal(t, "a", r.ID)
			assert.Equal(t, "hi", r.Title)
			assert.Equal(t, tt.wantVariant, r.Variant)
			assert.Equal(t, tt.wantDuration, r.Duration)
		})
	}
}

func TestScript_Validate(t *testing.T) {
	tests := []struct {
		name      string
		script    Script
		wantField string
	}{
		{
			name: "valid",
			script: Script{Steps: []Step{
				{At: 0, Op: OpShow, ID: "a", Title: "hello", Variant: "success"},
				{At: Duration(time.Second), Op: OpDismiss, ID: "a"},
				{At: Duration(time.Second), Op: OpAnchor, Anchor: "top"},
				{At: Duration(2 * time.Second), Op: OpDismissAll},
				{At: Duration(3 * time.Second), Op: OpSnapshot},
			}},
		},
		{
			name:      "empty",
			script:    Script{},
			wantField: "steps",
		},
		{
			name: "out of order",
			script: Script{Steps: []Step{
				{At: Duration(2 * time.Second), Op: OpSnapshot},
				{At: Duration(time.Second), Op: OpSnapshot},
			}},
			wantField: "steps[1].at",
		},
		{
			name:      "show without title",
			script:    Script{Steps: []Step{{Op: OpShow, ID: "a"}}},
			wantField: "steps[0].title",
		},
		{
			name:      "unknown variant",
			script:    Script{Steps: []Step{{Op: OpShow, Title: "t", Variant: "critical"}}},
			wantField: "steps[0].variant",
		},
		{
			name:      "dismiss without id",
			script:    Script{Steps: []Step{{Op: OpDismiss}}},
			wantField: "steps[0].id",
		},
		{
			name:      "bad anchor",
			script:    Script{Steps: []Step{{Op: OpAnchor, Anchor: "middle"}}},
			wantField: "steps[0].anchor",
		},
		{
			name:      "unknown op",
			script:    Script{Steps: []Step{{Op: "explode"}}},
			wantField: "steps[0].op",
		},
		{
			name: "until before last step",
			script: Script{
				Until: Duration(time.Second),
				Steps: []Step{{At: Duration(2 * time.Second), Op: OpSnapshot}},
			},
			wantField: "until",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.NotEmpty(t, fieldErrs)
			assert.Equal(t, tt.wantField, fieldErrs[0].Field)
		})
	}
}

func TestScript_decodes_from_json(t *testing.T) {
	raw := `{
		"name": "replace",
		"until": "12s",
		"steps": [
			{"at": 0, "op": "show", "id": "a", "title": "first", "duration": 4},
			{"at": "1s", "op": "show", "id": "a", "title": "second", "duration": "10s"}
		]
	}`

	var s Script
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	require.NoError(t, s.Validate())

	assert.Equal(t, "replace", s.Name)
	assert.Equal(t, 12*time.Second, s.Until.Std())
	require.Len(t, s.Steps, 2)
	assert.Equal(t, 4*time.Second, s.Steps[0].Duration.Std())
	assert.Equal(t, time.Second, s.Steps[1].At.Std())
}
