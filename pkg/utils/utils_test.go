package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEAN13CheckDigit(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "known code", body: "400638133393", want: 1},
		{name: "country prefix", body: "869000000000", want: 5},
		{name: "short", body: "86912", wantErr: true},
		{name: "not numeric", body: "86900000000a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EAN13CheckDigit(tt.body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateBarcode(t *testing.T) {
	u := New()
	at := time.UnixMilli(1_700_123_456_789)

	code, err := u.GenerateBarcode(at)
	require.NoError(t, err)

	assert.Len(t, code, 13)
	assert.True(t, strings.HasPrefix(code, BarcodePrefix+"123456789"))
	assert.True(t, ValidEAN13(code))
}

func TestValidEAN13(t *testing.T) {
	assert.True(t, ValidEAN13("4006381333931"))
	assert.False(t, ValidEAN13("4006381333932"))
	assert.False(t, ValidEAN13("400638133393"))
}

func TestNewULIDFromTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	id, err := New().NewULIDFromTimestamp(at)
	require.NoError(t, err)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), parsed.Time())
}
