package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_set_variant_and_default_duration(t *testing.T) {
	tests := []struct {
		build func(title, message string) Record
		want  Variant
	}{
		{Success, VariantSuccess},
		{Error, VariantError},
		{Warning, VariantWarning},
		{Info, VariantInfo},
		{Neutral, VariantNeutral},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			r := tt.build("Saved", "3 files written")

			assert.Equal(t, tt.want, r.Variant)
			assert.Equal(t, "Saved", r.Title)
			assert.Equal(t, "3 files written", r.Message)
			assert.Equal(t, DefaultDuration, r.Duration)
			assert.Empty(t, r.ID, "ids are assigned by the manager")
		})
	}
}

func TestRecord_builders_return_copies(t *testing.T) {
	base := Info("title", "")

	withID := base.WithID("a")
	persistent := withID.Persistent()
	longer := withID.WithDuration(10 * time.Second)

	assert.Empty(t, base.ID)
	assert.Equal(t, "a", withID.ID)
	assert.Equal(t, DefaultDuration, withID.Duration)
	assert.Equal(t, time.Duration(0), persistent.Duration)
	assert.Equal(t, 10*time.Second, longer.Duration)
}

func TestRecord_AutoDismiss(t *testing.T) {
	assert.True(t, Info("t", "").AutoDismiss())
	assert.False(t, Info("t", "").Persistent().AutoDismiss())
	assert.False(t, Info("t", "").WithDuration(-time.Second).AutoDismiss(), "negative durations never expire")
}

func TestRecord_WithAction(t *testing.T) {
	ran := false
	r := Error("Upload failed", "").WithAction("Retry", func() { ran = true })

	require.True(t, r.HasAction())
	assert.Equal(t, "Retry", r.Action.Label)

	r.Action.Run()
	assert.True(t, ran)

	assert.False(t, Error("x", "").HasAction())
	assert.False(t, Error("x", "").WithAction("Noop", nil).HasAction())
}

func TestVariant_Known(t *testing.T) {
	for _, v := range Variants() {
		assert.True(t, v.Known(), v)
	}
	assert.False(t, Variant("critical").Known())
}

func TestParseAnchor(t *testing.T) {
	tests := []struct {
		in      string
		want    Anchor
		wantErr bool
	}{
		{in: "top", want: AnchorTop},
		{in: "TOP", want: AnchorTop},
		{in: " bottom ", want: AnchorBottom},
		{in: "", want: AnchorBottom},
		{in: "left", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAnchor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnchor_Toggle(t *testing.T) {
	assert.Equal(t, AnchorBottom, AnchorTop.Toggle())
	assert.Equal(t, AnchorTop, AnchorBottom.Toggle())
}
