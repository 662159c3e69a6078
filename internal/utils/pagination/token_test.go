package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard values
	cursor := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "3f0e7c4a-9d55-4c6c-a0a4-7d5f0f2b8e11",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")

	decoded, err := DecodeToken(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, cursor, decoded)

	// Current time values
	now := time.Now().UTC()
	decoded, err = DecodeToken(EncodeToken(Cursor{Date: now, CreatedAt: now, ID: "x"}))
	require.NoError(t, err)
	assert.True(t, now.Equal(decoded.Date), "Current date should match after decode")
	assert.True(t, now.Equal(decoded.CreatedAt), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	encode := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{name: "invalid base64", token: "this is not base64!", wantErr: "base64 decode"},
		{name: "missing fields", token: encode("2023-05-15T00:00:00Z"), wantErr: "split"},
		{name: "empty id", token: encode("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|"), wantErr: "split"},
		{name: "bad date", token: encode("notadate|2023-05-15T14:30:45Z|id"), wantErr: "date parse"},
		{name: "bad created_at", token: encode("2023-05-15T00:00:00Z|later|id"), wantErr: "created_at parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
