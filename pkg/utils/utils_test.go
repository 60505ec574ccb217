package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "mappamentis/pkg/errors"
)

type sample struct {
	ID    string `validate:"required,uuid"`
	Name  string `validate:"required,max=5"`
	Color string `validate:"omitempty,hexcolor"`
	Work  int    `validate:"gte=0,lte=240"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{
			name:  "valid",
			input: sample{ID: "3f2504e0-4f89-41d3-9a0c-0305e82c3301", Name: "ok", Color: "#FFAA00"},
		},
		{
			name:    "missing id",
			input:   sample{Name: "ok"},
			wantErr: "id is required",
		},
		{
			name:    "bad uuid",
			input:   sample{ID: "nope", Name: "ok"},
			wantErr: "id must be a valid UUID",
		},
		{
			name:    "name too long",
			input:   sample{ID: "3f2504e0-4f89-41d3-9a0c-0305e82c3301", Name: "toolong"},
			wantErr: "name must be at most 5 characters",
		},
		{
			name:    "bad color",
			input:   sample{ID: "3f2504e0-4f89-41d3-9a0c-0305e82c3301", Name: "ok", Color: "red"},
			wantErr: "color must be a hex color",
		},
		{
			name:    "negative minutes",
			input:   sample{ID: "3f2504e0-4f89-41d3-9a0c-0305e82c3301", Name: "ok", Work: -1},
			wantErr: "work must be at least 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.IsInvalidArgument(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))

	assert.Equal(t, "2026-01-02T02:04:05Z", FormatTime(ts))
	assert.Nil(t, FormatTimePtr(nil))
	assert.Equal(t, "2026-01-02T02:04:05Z", *FormatTimePtr(&ts))

	parsed, err := ParseRFC3339(FormatTime(ts))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}
