package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myloggi/internal/db"
	"github.com/myloggi/internal/domain"
)

// RememberStore persists remembered values per device
type RememberStore interface {
	UpsertRememberedValue(ctx context.Context, v *db.RememberedValue) error
	GetRememberedValue(ctx context.Context, deviceID, key string, now time.Time) (*db.RememberedValue, error)
	DeleteRememberedValue(ctx context.Context, deviceID, key string) error
	DeleteExpiredRememberedValues(ctx context.Context, now time.Time) (int64, error)
}

// RememberedCredentials is what the sign-in page remembers. The password is never stored.
type RememberedCredentials struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
}

// RememberService keeps small JSON values for a browser between visits.
// Calls with an empty key or device are no-ops.
type RememberService struct {
	store  RememberStore
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewRememberService creates a new remember-me service
func NewRememberService(store RememberStore, ttl time.Duration, logger *slog.Logger) *RememberService {
	return &RememberService{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// RememberMe stores value as JSON under key for the device
func (s *RememberService) RememberMe(ctx context.Context, deviceID, key string, value any) error {
	if key == "" || deviceID == "" {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return domain.WrapValidationError(key, err)
	}

	if err := s.store.UpsertRememberedValue(ctx, db.NewRememberedValue(deviceID, key, string(data), s.ttl)); err != nil {
		s.logger.ErrorContext(ctx, "failed to remember value", "key", key, "error", err)
		return domain.WrapDatabaseOperation("remember value", err)
	}
	return nil
}

// GetRememberMeData decodes the value stored under key into dest.
// It reports false when nothing (or nothing unexpired) is stored.
func (s *RememberService) GetRememberMeData(ctx context.Context, deviceID, key string, dest any) (bool, error) {
	if key == "" || deviceID == "" {
		return false, nil
	}

	v, err := s.store.GetRememberedValue(ctx, deviceID, key, s.now())
	if err != nil {
		return false, domain.WrapDatabaseOperation("read remembered value", err)
	}
	if v == nil {
		return false, nil
	}

	if err := json.Unmarshal([]byte(v.Value), dest); err != nil {
		// a corrupt entry is dropped rather than shown
		s.logger.WarnContext(ctx, "discarding unreadable remembered value", "key", key, "error", err)
		if err := s.store.DeleteRememberedValue(ctx, deviceID, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete unreadable remembered value", "key", key, "error", err)
		}
		return false, nil
	}
	return true, nil
}

// RemoveFromStore forgets key for the device
func (s *RememberService) RemoveFromStore(ctx context.Context, deviceID, key string) error {
	if key == "" || deviceID == "" {
		return nil
	}
	if err := s.store.DeleteRememberedValue(ctx, deviceID, key); err != nil {
		return domain.WrapDatabaseOperation("forget remembered value", err)
	}
	return nil
}

// PurgeExpired deletes every expired entry and returns how many were removed
func (s *RememberService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredRememberedValues(ctx, s.now())
	if err != nil {
		return 0, domain.WrapDatabaseOperation("purge remembered values", err)
	}
	return n, nil
}
