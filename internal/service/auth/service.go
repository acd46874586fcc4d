package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"foodorder/internal/domain"
	"foodorder/internal/logging"
	sessionrepo "foodorder/internal/repository/session"
	"foodorder/internal/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when login/password do not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// AdminUserID is the user id carried by sessions of the configured admin.
const AdminUserID = "admin"

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)
)

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
}

// Credentials is the configured admin login.
type Credentials struct {
	Username string
	Password string
}

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	Admin      Credentials
	SessionTTL time.Duration
	Logger     *zap.SugaredLogger
}

// Service handles signup, login and the session lifecycle. Every ended
// session is announced on the notifier exactly once.
type Service struct {
	users       userRepo
	tokens      *tokenManager
	notifier    *session.Notifier
	admin       Credentials
	sessionTTL  time.Duration
	passwordMin int
	logger      *zap.SugaredLogger
}

func New(users userRepo, sessions sessionrepo.Repository, notifier *session.Notifier, opts Options) *Service {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	if notifier == nil {
		notifier = session.NewNotifier()
	}
	return &Service{
		users:       users,
		tokens:      newTokenManager(sessions),
		notifier:    notifier,
		admin:       opts.Admin,
		sessionTTL:  ttl,
		passwordMin: 6,
		logger:      logging.OrNop(opts.Logger),
	}
}

// Principal is the caller identified by a bearer token.
type Principal struct {
	UserID    string
	Role      string
	Token     string
	ExpiresAt time.Time
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool { return p.Role == domain.RoleAdmin }

// LoginResult is a fresh session and the user it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Signup registers a new user.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	u, err := NewUser(in, domain.RoleUser, s.passwordMin)
	if err != nil {
		return nil, err
	}
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("auth: signup user_id=%s", created.ID)
	return created, nil
}

// NewUser validates in and returns a user with a hashed password.
func NewUser(in SignupInput, role string, passwordMin int) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.User{}, domain.Invalid("name", "please enter your name")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !emailPattern.MatchString(email) {
		return domain.User{}, domain.Invalid("email", "please enter a valid email")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		return domain.User{}, domain.Invalid("phone", "please enter a valid phone number")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, passwordMin); err != nil {
		return domain.User{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hashed),
		Role:         role,
		SignupDate:   time.Now().UTC().Format("2006-01-02"),
	}, nil
}

// Login accepts the admin credentials or a user's email or phone number.
func (s *Service) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if s.admin.Username != "" && login == s.admin.Username && password == s.admin.Password {
		sess, err := s.tokens.Issue(ctx, AdminUserID, domain.RoleAdmin, s.sessionTTL)
		if err != nil {
			return nil, err
		}
		s.logger.Infof("auth: admin login")
		return &LoginResult{
			Token:     sess.Token,
			ExpiresAt: sess.ExpiresAt,
			User:      domain.User{ID: AdminUserID, Name: s.admin.Username, Role: domain.RoleAdmin},
		}, nil
	}

	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	sess, err := s.tokens.Issue(ctx, u.ID, role, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("auth: login user_id=%s", u.ID)
	return &LoginResult{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: *u}, nil
}

// Authenticate resolves a bearer token. A token found expired ends its
// session and is rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	sess, err := s.tokens.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, errSessionExpired) {
			s.logger.Infof("auth: session expired user_id=%s", sess.UserID)
			s.notifier.End(session.Event{Token: token, UserID: sess.UserID, Reason: session.ReasonExpired})
			return nil, ErrInvalidToken
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &Principal{UserID: sess.UserID, Role: sess.Role, Token: sess.Token, ExpiresAt: sess.ExpiresAt}, nil
}

// Me returns the user behind the principal.
func (s *Service) Me(ctx context.Context, p Principal) (*domain.User, error) {
	if p.UserID == AdminUserID && p.IsAdmin() {
		return &domain.User{ID: AdminUserID, Name: s.admin.Username, Role: domain.RoleAdmin}, nil
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// Logout ends the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	sess, err := s.tokens.Validate(ctx, token)
	if err != nil && !errors.Is(err, errSessionExpired) {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	reason := session.ReasonLogout
	if errors.Is(err, errSessionExpired) {
		reason = session.ReasonExpired
	} else if err := s.tokens.Revoke(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// A concurrent logout already ended this session.
			return ErrInvalidToken
		}
		return err
	}
	s.logger.Infof("auth: logout user_id=%s reason=%s", sess.UserID, reason)
	s.notifier.End(session.Event{Token: token, UserID: sess.UserID, Reason: reason})
	return nil
}

// RevokeUser ends every session of a user, e.g. when the account is removed.
func (s *Service) RevokeUser(ctx context.Context, userID string) error {
	tokens, err := s.tokens.RevokeUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	for _, tok := range tokens {
		s.notifier.End(session.Event{Token: tok, UserID: userID, Reason: session.ReasonLogout})
	}
	if len(tokens) > 0 {
		s.logger.Infof("auth: revoked user_id=%s sessions=%d", userID, len(tokens))
	}
	return nil
}

// SessionTTLSeconds exposes the session lifetime in seconds.
func (s *Service) SessionTTLSeconds() int {
	return int(s.sessionTTL.Seconds())
}

func validatePassword(p string, min int) error {
	if len(strings.TrimSpace(p)) < min {
		return domain.Invalid("password", "password must be at least %d characters", min)
	}
	return nil
}
