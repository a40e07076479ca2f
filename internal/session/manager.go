package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go-hrm/internal/auth"
	"go-hrm/internal/notify"
	"go-hrm/internal/rbac"
	sessionerrors "go-hrm/internal/session/errors"
	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/contextutil"

	"go.uber.org/zap"
)

const msgLoginSuccess = "Login successful"

// Navigator takes the user back to the login screen.
type Navigator interface {
	ToLogin()
}

type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

// Authorizer answers the two UI gates. rbac.Service satisfies it.
type Authorizer interface {
	CanSeeAdminFeatures(role rbac.Role) bool
	IsEmployeeOnly(role rbac.Role) bool
}

type Option func(*Manager)

func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

func WithNavigator(n Navigator) Option {
	return func(m *Manager) {
		if n != nil {
			m.navigator = n
		}
	}
}

func WithAuthorizer(a Authorizer) Option {
	return func(m *Manager) { m.authz = a }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l.Named("session.manager")
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager is the single source of truth for authentication state.
// IsAuthenticated() == (Token() != "") holds for every reader because token
// and user are swapped as one value under mu.
type Manager struct {
	storage   Storage
	repo      auth.Repository
	notifier  notify.Notifier
	navigator Navigator
	authz     Authorizer
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current *Session
	loading bool
	lastErr string
}

func NewManager(storage Storage, repo auth.Repository, opts ...Option) *Manager {
	m := &Manager{
		storage:   storage,
		repo:      repo,
		notifier:  notify.Nop(),
		navigator: NavigatorFunc(func() {}),
		logger:    zap.L().Named("session.manager"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.authz == nil {
		if svc, err := rbac.NewService(m.logger); err == nil {
			m.authz = svc
		} else {
			m.logger.Error("build default authorizer failed", zap.Error(err))
		}
	}
	return m
}

// Restore loads the persisted session. It never talks to the server; a token
// whose exp claim is already in the past is dropped.
func (m *Manager) Restore(ctx context.Context) error {
	s, err := m.storage.Load(ctx)
	if err != nil {
		m.publish(nil)
		if errors.Is(err, sessionerrors.ErrCorrupt) {
			m.logger.Warn("stored session discarded", zap.Error(err))
			return nil
		}
		m.logger.Error("restore session failed", zap.Error(err))
		return err
	}
	if s == nil {
		m.publish(nil)
		return nil
	}

	if exp, ok := tokenExpiry(s.Token); ok && !m.now().Before(exp) {
		m.logger.Info("stored session expired",
			zap.String("user_id", s.User.ID),
			zap.Time("expired_at", exp),
		)
		m.publish(nil)
		if err := m.storage.Clear(ctx); err != nil {
			m.logger.Warn("clear expired session failed", zap.Error(err))
		}
		return nil
	}

	m.publish(s)
	m.logger.Debug("session restored", zap.String("user_id", s.User.ID))
	return nil
}

// Verify asks the server who the token belongs to and refreshes the stored
// user. A 401 has already logged the user out through the transport hook;
// any other failure leaves the session as it was.
func (m *Manager) Verify(ctx context.Context) error {
	token := m.Token()
	if token == "" {
		return sessionerrors.ErrNotAuthenticated
	}

	resp, err := m.repo.Me(ctx)
	if err != nil {
		m.logger.Warn("verify session failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return err
	}

	m.mu.Lock()
	if m.current == nil || m.current.Token != token {
		// logged out or replaced while the request was in flight
		m.mu.Unlock()
		return nil
	}
	updated := Session{Token: token, User: userFromResponse(resp)}
	m.current = &updated
	m.mu.Unlock()

	if err := m.storage.Save(ctx, updated); err != nil {
		m.logger.Warn("persist verified user failed", zap.Error(err))
	}
	return nil
}

// Login signs in and publishes the new session. Form validation is the
// caller's job (Credentials.Validate). On failure the state is unchanged and
// LastError holds the message.
func (m *Manager) Login(ctx context.Context, creds Credentials) (Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)

	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return Session{}, sessionerrors.ErrLoginInProgress
	}
	m.loading = true
	m.lastErr = ""
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	m.logger.Debug("login requested", zap.String("email", creds.Email))
	resp, err := m.repo.SignIn(ctx, auth.SignInRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		msg := apperror.Message(err)
		m.setLastError(msg)
		m.notifier.Error(msg)
		return Session{}, err
	}

	s := Session{Token: resp.AccessToken, User: userFromResponse(resp.User)}
	if err := m.storage.Save(ctx, s); err != nil {
		// still logged in for this process
		m.logger.Warn("persist session failed", zap.Error(err))
	}
	m.publish(&s)

	m.logger.Info("login succeeded",
		zap.String("user_id", s.User.ID),
		zap.String("role", s.User.Role.String()),
	)
	m.notifier.Success(msgLoginSuccess)
	return s, nil
}

// Logout always succeeds; storage failures are only logged.
func (m *Manager) Logout(ctx context.Context) {
	m.publish(nil)
	if err := m.storage.Clear(ctx); err != nil {
		m.logger.Warn("clear session failed", zap.Error(err))
	}
	m.logger.Info("logged out")
}

// HandleUnauthorized is called by the transport on any 401 of an
// authenticated request. token is the one the request carried; a 401 for a
// token that has since been replaced leaves the newer session alone.
func (m *Manager) HandleUnauthorized(ctx context.Context, token string) {
	m.mu.Lock()
	was := m.current
	if was != nil && was.Token != token {
		m.mu.Unlock()
		m.logger.Debug("ignoring 401 for a replaced token",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
		)
		return
	}
	m.current = nil
	m.mu.Unlock()

	if err := m.storage.Clear(ctx); err != nil {
		m.logger.Warn("clear session failed", zap.Error(err))
	}
	if was == nil {
		return
	}

	m.logger.Info("session rejected by server, forcing logout",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("user_id", was.User.ID),
	)
	m.navigator.ToLogin()
	m.notifier.Error(apperror.MsgUnauthorize)
}

func (m *Manager) publish(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}

func (m *Manager) setLastError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = msg
}

func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

func (m *Manager) UserRole() (rbac.Role, bool) {
	s, ok := m.Current()
	if !ok {
		return rbac.RoleUnknown, false
	}
	return s.User.Role, true
}

func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) CanSeeAdminFeatures() bool {
	role, ok := m.UserRole()
	return ok && m.authz != nil && m.authz.CanSeeAdminFeatures(role)
}

// IsEmployee is the gate for employee-only screens (check in/out).
func (m *Manager) IsEmployee() bool {
	role, ok := m.UserRole()
	return ok && m.authz != nil && m.authz.IsEmployeeOnly(role)
}
