package auth

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dramaxav/curia-management/internal"
)

// DurableStore is the persistence behind session rehydration: one JSON
// value under a namespaced key, written on login and cleared on logout.
type DurableStore interface {
	Save(key string, v interface{}) error
	Load(key string, v interface{}) (bool, error)
	Clear(key string) error
}

// persistedIdentity is the serialized shape written to the durable store.
// Permissions are not persisted; they are re-resolved from the role table
// on rehydration so a role change takes effect on the next startup.
type persistedIdentity struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AccountType  string `json:"account_type"`
	Poste        string `json:"poste"`
	PraesidiumID *int64 `json:"praesidium_id,omitempty"`
	Status       string `json:"status"`
}

// Session holds at most one current user for the lifetime of a process and
// answers permission queries against it. It is an explicit dependency
// handed to whoever needs it, not ambient global state.
type Session struct {
	mu      sync.RWMutex
	current *User

	repo   RepositoryAPI
	store  DurableStore
	key    string
	logger *slog.Logger
	now    func() time.Time
}

// NewSession builds a session and attempts rehydration from the durable
// store. Malformed or stale durable data is discarded silently; the caller
// always gets a usable session back.
func NewSession(repo RepositoryAPI, store DurableStore, key string, logger *slog.Logger) *Session {
	s := &Session{
		repo:   repo,
		store:  store,
		key:    key,
		logger: logger,
		now:    time.Now,
	}
	s.rehydrate()
	return s
}

func (s *Session) rehydrate() {
	if s.store == nil {
		return
	}

	var snapshot persistedIdentity
	ok, err := s.store.Load(s.key, &snapshot)
	if err != nil {
		s.logger.Warn("session rehydration failed, continuing without session", "error", err)
		return
	}
	if !ok {
		return
	}
	if snapshot.ID == 0 || snapshot.Status != StatusActive {
		// whatever was stored no longer represents a usable session
		_ = s.store.Clear(s.key)
		return
	}

	s.current = &User{
		ID:           snapshot.ID,
		Email:        snapshot.Email,
		Name:         snapshot.Name,
		AccountType:  snapshot.AccountType,
		Poste:        snapshot.Poste,
		PraesidiumID: snapshot.PraesidiumID,
		Status:       snapshot.Status,
		Permissions:  PermissionsFor(snapshot.Poste),
	}

	s.logger.Info("session rehydrated", "user_id", snapshot.ID, "poste", snapshot.Poste)
}

// Login authenticates the credentials, updates the last-login timestamp and
// makes the user the session's current identity. A missing user and a bad
// password are indistinguishable to the caller; a matched but non-active
// account is reported as such.
func (s *Session) Login(dto LoginDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "email", dto.Email, "error", err)
		return nil, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", user.ID)
		return nil, internal.ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.logger.Warn("login refused: account not active", "user_id", user.ID, "status", user.Status)
		return nil, internal.ErrAccountNotActive
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(user.ID, now); err != nil {
		s.logger.Error("failed to record last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	user.Permissions = PermissionsFor(user.Poste)

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	s.persist(user)

	s.logger.Info("login succeeded", "user_id", user.ID, "poste", user.Poste)
	return user, nil
}

func (s *Session) persist(user *User) {
	if s.store == nil {
		return
	}
	snapshot := persistedIdentity{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		AccountType:  user.AccountType,
		Poste:        user.Poste,
		PraesidiumID: user.PraesidiumID,
		Status:       user.Status,
	}
	if err := s.store.Save(s.key, snapshot); err != nil {
		s.logger.Error("failed to persist session identity", "user_id", user.ID, "error", err)
	}
}

// Logout clears the held identity and its durable copy. Idempotent.
func (s *Session) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(s.key); err != nil {
			s.logger.Error("failed to clear persisted session", "error", err)
		}
	}
}

// CurrentUser returns the held identity, or nil when no session exists.
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// HasPermission reports whether the held user carries the permission,
// applying the praesidium scoping rule. Always false without a session.
func (s *Session) HasPermission(permission Permission, praesidiumID *int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Allowed(s.current, permission, praesidiumID)
}
