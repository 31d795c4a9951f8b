// Package seed creates default records on first startup
package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/crestview/chronicle/internal/app/models"
	appRepos "github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/auth"
)

const defaultAdminLoginID = "admin"

// CreateDefaultData seeds the default admin account and certificate types.
// Every step is idempotent so the seed can run on each startup.
func CreateDefaultData(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(pool)
	certRepo := appRepos.NewCertificateRepository(pool)

	var finalErr error

	if err := seedAdmin(ctx, userRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	for _, certType := range []appModels.CertificateType{
		{Name: "Course Completion", Description: "Awarded on completing all semesters of a course"},
		{Name: "Merit", Description: "Awarded for outstanding academic performance"},
		{Name: "Participation", Description: "Awarded for taking part in campus events"},
	} {
		ct := certType
		err := certRepo.CreateType(ctx, &ct)
		if err != nil && !errors.Is(err, apperrors.ErrCertificateTypeExists) {
			lgr.Error().Err(err).Str("name", ct.Name).Msg("Error creating default certificate type")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func seedAdmin(ctx context.Context, userRepo *appRepos.UserRepository, lgr zerolog.Logger) error {
	if _, err := userRepo.FindByLoginID(ctx, defaultAdminLoginID); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_INITIAL_PASSWORD")
	if password == "" {
		password = "changeme123"
		lgr.Warn().Msg("ADMIN_INITIAL_PASSWORD not set, seeding admin with the default password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		LoginID:  defaultAdminLoginID,
		Email:    "admin@crestview.edu",
		Name:     "Administrator",
		Password: hash,
		UserType: appModels.RoleAdmin,
		Status:   appModels.StatusActive,
	}
	if err := userRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrLoginIDAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default admin account")
		return err
	}

	lgr.Info().Str("loginId", defaultAdminLoginID).Msg("Default admin account created")
	return nil
}
