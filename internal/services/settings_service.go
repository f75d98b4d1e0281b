package services

import (
	"context"
	"fmt"
	"sync"

	"bukmacher/internal/core"
	"bukmacher/internal/locale"
	"bukmacher/internal/log"
	"bukmacher/internal/ports"
)

// SettingsPatch carries the fields of a settings update. Nil fields are
// left unchanged.
type SettingsPatch struct {
	Language    *string
	Currency    *string
	DisplayName *string
}

// SettingsService owns the display preferences. defaults fill any value
// the repository has never stored.
type SettingsService struct {
	repo     ports.SettingsRepository
	defaults core.Settings
	logger   *log.Logger

	mu sync.Mutex
}

func NewSettingsService(repo ports.SettingsRepository, defaults core.Settings, logger *log.Logger) *SettingsService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SettingsService{
		repo:     repo,
		defaults: defaults,
		logger:   logger.WithComponent(log.ComponentSettings),
	}
}

// Current returns the stored settings merged over the defaults.
func (s *SettingsService) Current(ctx context.Context) (core.Settings, error) {
	st, err := s.repo.LoadSettings(ctx, s.defaults)
	if err != nil {
		return core.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return st, nil
}

// Update applies patch, validating every provided field before anything
// is saved.
func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Current(ctx)
	if err != nil {
		return core.Settings{}, err
	}
	if patch.Language != nil {
		lang, err := locale.ParseLanguage(*patch.Language)
		if err != nil {
			return core.Settings{}, err
		}
		st.Language = lang
	}
	if patch.Currency != nil {
		cur, err := locale.ParseCurrency(*patch.Currency)
		if err != nil {
			return core.Settings{}, err
		}
		st.Currency = cur
	}
	if patch.DisplayName != nil {
		name, err := core.ValidateDisplayName(*patch.DisplayName)
		if err != nil {
			return core.Settings{}, err
		}
		st.DisplayName = name
	}
	if err := s.repo.SaveSettings(ctx, st); err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.logger.InfoContext(ctx, "Settings saved",
		log.FieldLanguage, string(st.Language),
		log.FieldCurrency, string(st.Currency))
	return st, nil
}

// SetDisplayName stores the one-time onboarding name.
func (s *SettingsService) SetDisplayName(ctx context.Context, name string) (core.Settings, error) {
	return s.Update(ctx, SettingsPatch{DisplayName: &name})
}
