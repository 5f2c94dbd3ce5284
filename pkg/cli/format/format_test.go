package format

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/strato-sh/strato/pkg/types"
)

func TestColorizeRespectsToggle(t *testing.T) {
	original := IsColorEnabled()
	defer EnableColor(original)

	EnableColor(true)
	assert.Equal(t, Green+"ok"+Reset, Colorize(Green, "ok"))

	EnableColor(false)
	assert.Equal(t, "ok", Colorize(Green, "ok"))
}

func TestHelpersFormatArguments(t *testing.T) {
	original := IsColorEnabled()
	defer EnableColor(original)
	EnableColor(false)

	assert.Equal(t, "Stopping cluster dev...done.", Success("Stopping cluster %s...done.", "dev"))
	assert.Equal(t, "strato start dev", Highlight("strato start %s", "dev"))
}

func TestStatusSymbol(t *testing.T) {
	original := IsColorEnabled()
	defer EnableColor(original)
	EnableColor(false)

	assert.Equal(t, "✓", StatusSymbol(true))
	assert.Equal(t, "✗", StatusSymbol(false))
}

func TestStatusLabel(t *testing.T) {
	original := IsColorEnabled()
	defer EnableColor(original)
	EnableColor(false)

	assert.Equal(t, "UP", StatusLabel("UP"))
	assert.Equal(t, "INIT", StatusLabel("INIT"))
	assert.Equal(t, "STOPPED", StatusLabel("STOPPED"))
}

func TestRenderError(t *testing.T) {
	originalNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = originalNoColor }()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error prints nothing",
			err:  nil,
			want: "",
		},
		{
			name: "declined prompt",
			err:  types.ErrPromptDeclined,
			want: "Aborted.",
		},
		{
			name: "wrapped declined prompt",
			err:  fmt.Errorf("confirm: %w", types.ErrPromptDeclined),
			want: "Aborted.",
		},
		{
			name: "usage error",
			err:  types.NewUsageErrorf("bad flags"),
			want: "Usage error: bad flags",
		},
		{
			name: "teardown blocked",
			err:  &types.TeardownAbortedError{Name: "ctrl", Reason: "work in flight"},
			want: "No destructive call was made.",
		},
		{
			name: "not supported",
			err:  types.NewNotSupportedErrorf("spot clusters cannot be stopped"),
			want: "Not supported: spot clusters cannot be stopped",
		},
		{
			name: "generic",
			err:  fmt.Errorf("disk full"),
			want: "Error: disk full",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			RenderError(&buf, tt.err)
			if tt.want == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), tt.want)
			}
		})
	}
}
