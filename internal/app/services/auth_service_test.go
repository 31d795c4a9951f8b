package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetTokenLifetime(t *testing.T) {
	// Reset emails advertise a one-hour window; the stored expiry must match
	assert.Equal(t, time.Hour, passwordResetTokenTTL)
}
