package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crestview/chronicle/internal/app/models"
)

func TestVisibleScopes(t *testing.T) {
	studentScopes := VisibleScopes(models.RoleStudent)
	assert.ElementsMatch(t, []models.PostVisibility{
		models.VisibilityPublic, models.VisibilityCampus, models.VisibilityStudents,
	}, studentScopes)

	staffScopes := VisibleScopes(models.RoleStaff)
	assert.ElementsMatch(t, []models.PostVisibility{
		models.VisibilityPublic, models.VisibilityCampus, models.VisibilityStaff,
	}, staffScopes)

	// Admins see what staff see
	assert.ElementsMatch(t, staffScopes, VisibleScopes(models.RoleAdmin))

	// Unknown roles only see public posts
	assert.Equal(t, []models.PostVisibility{models.VisibilityPublic}, VisibleScopes(models.RoleType("GUEST")))
}

func TestPostVisibleTo(t *testing.T) {
	student := models.Principal{Role: models.RoleStudent, ID: 7}
	staff := models.Principal{Role: models.RoleStaff, ID: 3}

	tests := []struct {
		name       string
		post       *models.TimelinePost
		caller     models.Principal
		wantResult bool
	}{
		{"public visible to everyone", &models.TimelinePost{Visibility: models.VisibilityPublic, AuthorKey: "staff:3"}, student, true},
		{"students-only hidden from staff", &models.TimelinePost{Visibility: models.VisibilityStudents, AuthorKey: "student:1"}, staff, false},
		{"staff-only hidden from students", &models.TimelinePost{Visibility: models.VisibilityStaff, AuthorKey: "staff:3"}, student, false},
		{"campus visible to both", &models.TimelinePost{Visibility: models.VisibilityCampus, AuthorKey: "staff:3"}, student, true},
		{"private hidden from others", &models.TimelinePost{Visibility: models.VisibilityPrivate, AuthorKey: "staff:3"}, student, false},
		{"private visible to its author", &models.TimelinePost{Visibility: models.VisibilityPrivate, AuthorKey: "student:7"}, student, true},
		{"staff-only visible to its staff author", &models.TimelinePost{Visibility: models.VisibilityStaff, AuthorKey: "staff:3"}, staff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantResult, PostVisibleTo(tt.post, tt.caller))
		})
	}
}
