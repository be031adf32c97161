package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/ports"
)

// SessionListener observes session transitions. prev and next are copies;
// either may be nil.
type SessionListener func(prev, next *domain.Session)

// SessionStore is the single source of truth for who is logged in.
// It is created by the application root and passed to its consumers.
type SessionStore struct {
	storage  ports.SessionStorage
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time

	mu        sync.RWMutex
	session   *domain.Session
	loading   bool
	listeners []SessionListener
	// set by the first Login or Logout; hydration never overrides it
	transitioned bool

	hydrateOnce sync.Once
}

// NewSessionStore returns a store in the loading state; call Hydrate before
// serving guarded views.
func NewSessionStore(storage ports.SessionStorage, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		storage:  storage,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
		loading:  true,
	}
}

// OnChange registers a listener called after every login, logout and
// successful hydration.
func (s *SessionStore) OnChange(l SessionListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Current returns a copy of the session, or nil when logged out.
func (s *SessionStore) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// IsLoading reports whether hydration has not finished yet.
func (s *SessionStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Token returns the bearer credential, or "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// Login installs the session returned by a successful credential exchange
// and persists it. A storage failure is logged; the in-memory session still
// stands for the lifetime of the process.
func (s *SessionStore) Login(ctx context.Context, user *domain.User, token string) error {
	if user == nil || token == "" {
		return domain.ErrInvalidSession
	}
	next := &domain.Session{User: user, Token: token}
	next = next.Clone()

	s.mu.Lock()
	prev := s.session
	s.session = next
	s.loading = false
	s.transitioned = true
	s.mu.Unlock()

	if payload, err := json.Marshal(next); err != nil {
		s.log.Error().Err(err).Msg("session: encode failed")
	} else if err := s.storage.Save(ctx, payload); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("session: persist failed")
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session: logged in")
	s.notify(prev.Clone(), next.Clone())
	return nil
}

// Logout clears the session from memory and storage. Calling it while
// logged out does nothing.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.session
	s.session = nil
	s.loading = false
	s.transitioned = true
	s.mu.Unlock()

	if prev == nil {
		return
	}

	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("session: clear storage failed")
	}

	s.log.Info().Str("user_id", prev.User.ID).Msg("session: logged out")
	s.notify(prev.Clone(), nil)
}

// Hydrate restores a persisted session. It runs at most once per store;
// anything unreadable, invalid or expired leaves the store logged out.
func (s *SessionStore) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		restored := s.readPersisted(ctx)

		s.mu.Lock()
		if s.transitioned {
			// a Login or Logout raced ahead of hydration and wins
			restored = nil
		} else {
			s.session = restored
		}
		s.loading = false
		s.mu.Unlock()

		if restored != nil {
			s.log.Info().Str("user_id", restored.User.ID).Msg("session: restored")
			s.notify(nil, restored.Clone())
		}
	})
}

func (s *SessionStore) readPersisted(ctx context.Context) *domain.Session {
	payload, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: load failed, starting logged out")
		return nil
	}
	if len(payload) == 0 {
		return nil
	}

	sess, err := s.decode(payload)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: discarding persisted session")
		if clearErr := s.storage.Clear(ctx); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("session: clear storage failed")
		}
		return nil
	}
	return sess
}

func (s *SessionStore) decode(payload []byte) (*domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, errors.Join(domain.ErrInvalidSession, err)
	}
	if err := s.validate.Struct(&sess); err != nil {
		return nil, errors.Join(domain.ErrInvalidSession, err)
	}
	if s.tokenExpired(sess.Token) {
		return nil, errors.Join(domain.ErrInvalidSession, jwt.ErrTokenExpired)
	}
	return &sess, nil
}

// tokenExpired inspects the exp claim without verifying the signature; the
// client has no key. Tokens that are not JWTs are opaque and never expire here.
func (s *SessionStore) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

func (s *SessionStore) notify(prev, next *domain.Session) {
	s.mu.RLock()
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(prev.Clone(), next.Clone())
	}
}
