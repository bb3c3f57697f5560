package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"", "***@***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in), "input %q", tt.in)
	}
}

func TestRedactToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tok_abc123def", "tok_***"},
		{"Bearer tok_abc123def", "Bearer tok_***"},
		{"abc", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactToken(tt.in), "input %q", tt.in)
	}
}

func TestLogRedactsCredentialFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Info("login", "user_email", "jane.doe@example.com", "access_token", "tok_secret123")

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "login", entry["msg"])
	assert.Equal(t, "ja***@example.com", entry["user_email"])
	assert.Equal(t, "tok_***", entry["access_token"])
}

func TestLogRedactsEmbeddedEmails(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Warn("delivery failed", "detail", "bounce for carol.smith@example.org")

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "bounce for ca***@example.org", entry["detail"])
}

func TestLogRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel(WARN)
	defer SetLevel(INFO)

	Info("hidden")
	assert.Zero(t, buf.Len())

	Error("shown")
	assert.Contains(t, buf.String(), "shown")
}
