// Package session owns the per-tab authentication state: current user,
// role, and token, with login/registration/logout transitions. All
// durable state is namespaced by the tab identity, so two tabs of the
// same browser hold fully independent sessions.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartbookcity/storefront/internal/client/api"
	"github.com/smartbookcity/storefront/internal/client/models"
	"github.com/smartbookcity/storefront/internal/client/storage"
	"github.com/smartbookcity/storefront/internal/common"
	"github.com/smartbookcity/storefront/internal/logging"
)

// State of the session machine.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

// Login types, also the values persisted under userType_<tab>.
const (
	LoginTypeMember = "user"
	LoginTypeAdmin  = "admin"
)

// Role of the live session.
type Role string

const (
	RoleGuest  Role = "guest"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// API is the slice of the remote capability the session store uses.
// *api.HTTPClient satisfies it.
type API interface {
	LoginMember(ctx context.Context, username, password string) (models.LoginPayload, error)
	LoginAdmin(ctx context.Context, username, password string) (models.LoginPayload, error)
	Register(ctx context.Context, username, password, email string) error
	SetToken(token string)
}

// Result is the caller-visible outcome of login and registration.
// Failures here are recoverable outcomes, never hard errors: the message
// is ready for display.
type Result struct {
	Success bool
	Message string
}

// Store is the session store. One Store is live per tab identity.
type Store struct {
	api   API
	kv    storage.Store
	tabID string
	log   logging.Logger
	now   func() time.Time

	mu    sync.RWMutex
	state State
	user  *models.UserProfile
	role  Role
	token string
}

func New(apiClient API, kv storage.Store, tabID string, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{
		api:   apiClient,
		kv:    kv,
		tabID: tabID,
		log:   log.With("tab", tabID),
		now:   time.Now,
		state: StateAnonymous,
		role:  RoleGuest,
	}
}

func (s *Store) userKey() string     { return "user_" + s.tabID }
func (s *Store) tokenKey() string    { return "token_" + s.tabID }
func (s *Store) userTypeKey() string { return "userType_" + s.tabID }

// Login authenticates against the member or admin endpoint depending on
// loginType and normalizes whichever of the three historical response
// shapes comes back. On any remote failure the session returns to
// Anonymous and the failure is reported in the Result.
func (s *Store) Login(ctx context.Context, username, password, loginType string) Result {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	var payload models.LoginPayload
	var err error
	if loginType == LoginTypeAdmin {
		payload, err = s.api.LoginAdmin(ctx, username, password)
	} else {
		payload, err = s.api.LoginMember(ctx, username, password)
	}
	if err != nil {
		s.toAnonymousLocked()
		msg := api.ErrorMessage(err)
		if msg == "" {
			msg = common.MsgLoginFailedRetry
		}
		s.log.Warn(ctx, "login failed", "loginType", loginType, "error", err)
		return Result{Success: false, Message: msg}
	}

	profile, token, ok := normalizeLogin(payload, loginType)
	if !ok {
		s.toAnonymousLocked()
		msg := messageFromPayload(payload)
		if msg == "" {
			if loginType == LoginTypeAdmin {
				msg = common.MsgAdminBadCredentials
			} else {
				msg = common.MsgLoginBadCredentials
			}
		}
		return Result{Success: false, Message: msg}
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = &profile
	s.token = token
	if loginType == LoginTypeAdmin {
		s.role = RoleAdmin
	} else {
		s.role = RoleMember
	}
	s.mu.Unlock()

	s.api.SetToken(token)
	s.persist(ctx, profile, token, loginType)

	return Result{Success: true}
}

// Register creates a member account. Like Login, failure is a Result.
func (s *Store) Register(ctx context.Context, username, password, email string) Result {
	if err := s.api.Register(ctx, username, password, email); err != nil {
		msg := api.ErrorMessage(err)
		if msg == "" {
			msg = common.MsgRegisterFailedRetry
		}
		s.log.Warn(ctx, "registration failed", "error", err)
		return Result{Success: false, Message: msg}
	}
	return Result{Success: true}
}

// Logout clears the in-memory session and removes the three namespaced
// keys. It is a no-op in Anonymous state.
func (s *Store) Logout(ctx context.Context) error {
	s.toAnonymousLocked()
	s.api.SetToken("")

	var firstErr error
	for _, key := range []string{s.userKey(), s.tokenKey(), s.userTypeKey()} {
		if err := s.kv.Remove(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Hydrate restores the session from durable storage without contacting
// the remote. Called once at process start. Absence or malformed data
// leaves the session Anonymous; a stored JWT whose exp has passed is
// treated as absence and the stale keys are removed.
func (s *Store) Hydrate(ctx context.Context) error {
	userJSON, ok, err := s.kv.Get(ctx, s.userKey())
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalDataNotAvailable, err)
	}
	if !ok || userJSON == "" {
		return nil
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(userJSON), &profile); err != nil {
		s.log.Warn(ctx, "stored session is malformed, staying anonymous", "error", err)
		return nil
	}

	token, _, err := s.kv.Get(ctx, s.tokenKey())
	if err != nil {
		return err
	}
	if token != "" && tokenExpired(token, s.now()) {
		s.log.Info(ctx, "stored token expired, discarding session")
		return s.Logout(ctx)
	}

	userType, _, err := s.kv.Get(ctx, s.userTypeKey())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = &profile
	s.token = token
	if userType == LoginTypeAdmin {
		s.role = RoleAdmin
	} else {
		s.role = RoleMember
	}
	s.mu.Unlock()

	s.api.SetToken(token)
	return nil
}

// UpdateBalance mutates the current user's balance and re-persists the
// profile. In Anonymous state it is a no-op, not an error.
func (s *Store) UpdateBalance(ctx context.Context, balance float64) {
	s.mu.Lock()
	if s.state != StateAuthenticated || s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user.Balance = &balance
	profile := *s.user
	s.mu.Unlock()

	data, err := json.Marshal(profile)
	if err != nil {
		s.log.Error(ctx, "failed to encode profile", "error", err)
		return
	}
	if err := s.kv.Set(ctx, s.userKey(), string(data)); err != nil {
		s.log.Warn(ctx, "failed to persist balance update", "error", err)
	}
}

// persist writes the three session keys in one transaction. A failure
// here keeps the in-memory session authenticated; the durable copy is
// best-effort and the failure is logged.
func (s *Store) persist(ctx context.Context, profile models.UserProfile, token, loginType string) {
	data, err := json.Marshal(profile)
	if err != nil {
		s.log.Error(ctx, "failed to encode profile", "error", err)
		return
	}
	err = s.kv.SetMany(ctx, map[string]string{
		s.userKey():     string(data),
		s.tokenKey():    token,
		s.userTypeKey(): loginType,
	})
	if err != nil {
		s.log.Warn(ctx, "failed to persist session", "error", err)
	}
}

func (s *Store) toAnonymousLocked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.user = nil
	s.token = ""
	s.role = RoleGuest
}

// State returns the current machine state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the live user profile and whether one exists.
func (s *Store) Current() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.user == nil {
		return models.UserProfile{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated && s.role == RoleAdmin
}

func (s *Store) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// tokenExpired reports whether token is a JWT with an exp claim in the
// past. Opaque (non-JWT) tokens and JWTs without exp are never expired
// from the client's point of view.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
