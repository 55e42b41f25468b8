package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestRedactPIIValue(t *testing.T) {
	// Email-ish keys are always masked.
	assert.Equal(t, "jo***@example.com", redactPIIValue("email", "john@example.com"))
	assert.Equal(t, "jo***@example.com", redactPIIValue("subscriber_email", "john@example.com"))

	// Emails embedded in generic fields are masked in place.
	got := redactPIIValue("err", "duplicate key for john@example.com in newsletter")
	assert.Equal(t, "duplicate key for jo***@example.com in newsletter", got)

	// Non-PII values pass through untouched.
	assert.Equal(t, "contacts", redactPIIValue("collection", "contacts"))
}
