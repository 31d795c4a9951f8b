package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crestview/chronicle/internal/app/models"
)

func TestNormalizePairOrdering(t *testing.T) {
	low, high := NormalizePair("student:7", "staff:3")
	assert.Equal(t, "staff:3", low)
	assert.Equal(t, "student:7", high)

	// Same result regardless of argument order
	low2, high2 := NormalizePair("staff:3", "student:7")
	assert.Equal(t, low, low2)
	assert.Equal(t, high, high2)
}

func TestNormalizePairEqualKeys(t *testing.T) {
	low, high := NormalizePair("student:1", "student:1")
	assert.Equal(t, "student:1", low)
	assert.Equal(t, "student:1", high)
}

func TestNormalizePairLexicographic(t *testing.T) {
	// Keys compare as strings, not numerically
	low, high := NormalizePair("student:10", "student:9")
	assert.Equal(t, "student:10", low)
	assert.Equal(t, "student:9", high)
}

func TestPrincipalKey(t *testing.T) {
	assert.Equal(t, "student:7", models.Principal{Role: models.RoleStudent, ID: 7}.Key())
	assert.Equal(t, "staff:12", models.Principal{Role: models.RoleStaff, ID: 12}.Key())
	assert.Equal(t, "admin:1", models.Principal{Role: models.RoleAdmin, ID: 1}.Key())
}
