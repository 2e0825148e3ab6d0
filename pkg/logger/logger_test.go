package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs_RedactsSensitiveKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "u1", "access_token", "abc", "Password", "p", "dangling"})
	assert.Equal(t, []interface{}{"user_id", "u1", "access_token", "[REDACTED]", "Password", "[REDACTED]", "dangling"}, out)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "k", 1)
	l.Warn("fallback", "reason", "boom")
}
