package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
)

type PreferenceUsecase interface {
	// Get returns empty preferences for an unknown session.
	Get(ctx context.Context, sessionID string) (*models.Preferences, error)
	Update(ctx context.Context, sessionID string, patch models.PreferencesPatch) (*models.Preferences, error)
	Reset(ctx context.Context, sessionID string) error
}

type preferenceUsecase struct {
	repo PreferenceRepository
	now  func() time.Time
}

func NewPreferenceUsecase(repo PreferenceRepository) PreferenceUsecase {
	return &preferenceUsecase{repo: repo, now: time.Now}
}

func (u *preferenceUsecase) Get(ctx context.Context, sessionID string) (*models.Preferences, error) {
	prefs, err := u.repo.Get(ctx, sessionID)
	if errors.Is(err, models.ErrNotFound) {
		return &models.Preferences{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

func (u *preferenceUsecase) Update(ctx context.Context, sessionID string, patch models.PreferencesPatch) (*models.Preferences, error) {
	prefs, err := u.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return prefs, nil
	}
	prefs.Apply(patch, u.now().UTC())
	if err := u.repo.Upsert(ctx, prefs); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}

func (u *preferenceUsecase) Reset(ctx context.Context, sessionID string) error {
	if err := u.repo.Delete(ctx, sessionID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}
