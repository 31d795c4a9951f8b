package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSerialNoFormat(t *testing.T) {
	issueDate := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	serial := NewSerialNo(issueDate)
	assert.Regexp(t, regexp.MustCompile(`^CHR-2026-[0-9A-F]{8}$`), serial)
}

func TestNewSerialNoUnique(t *testing.T) {
	issueDate := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		serial := NewSerialNo(issueDate)
		assert.False(t, seen[serial], "serial %s generated twice", serial)
		seen[serial] = true
	}
}

func TestNewSerialNoUsesIssueYear(t *testing.T) {
	serial := NewSerialNo(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, serial, "CHR-2030-")
}
