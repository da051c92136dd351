package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/pkg/password"
	"github.com/fastygo/taskpulse/repository"
)

const (
	MinPasswordLength = 6
	MaxNameLength     = 100
)

// TokenIssuer mints and verifies bearer tokens.
type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
	Verify(raw string) (string, error)
}

// PasswordHasher hashes and checks passwords. CompareDummy must cost about
// as much as Compare and always fail.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
	CompareDummy(plain string) error
}

// AttemptLimiter throttles repeated failed logins per email.
type AttemptLimiter interface {
	Allowed(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) (int, error)
	Reset(ctx context.Context, email string) error
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
	Profile   domain.Profile
}

type UseCase struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	hasher   PasswordHasher
	limiter  AttemptLimiter
	validate *validator.Validate
	logger   *zap.Logger
}

type Option func(*UseCase)

// WithAttemptLimiter enables the login throttle.
func WithAttemptLimiter(l AttemptLimiter) Option {
	return func(uc *UseCase) { uc.limiter = l }
}

func New(users repository.UserRepository, tokens TokenIssuer, hasher PasswordHasher, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		validate: validator.New(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) Register(ctx context.Context, email, plain, name string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if err := uc.validate.Var(email, "required,email"); err != nil {
		return nil, domain.Invalid("email must be a valid address")
	}
	if len(plain) < MinPasswordLength {
		return nil, domain.Invalid("password must be at least %d characters", MinPasswordLength)
	}
	if len(plain) > password.MaxBytes {
		return nil, domain.Invalid("password must be at most %d bytes", password.MaxBytes)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, domain.Invalid("name must be at most %d characters", MaxNameLength)
	}

	hash, err := uc.hasher.Hash(plain)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "hash password", err)
	}

	user := &domain.User{Email: email, Name: name, PasswordHash: hash}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return uc.session(user)
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords fail identically.
func (uc *UseCase) Login(ctx context.Context, email, plain string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || plain == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if uc.limiter != nil {
		allowed, err := uc.limiter.Allowed(ctx, email)
		if err != nil {
			uc.logger.Warn("login throttle unavailable", zap.Error(err))
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := uc.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		_ = uc.hasher.CompareDummy(plain)
		uc.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if err := uc.hasher.Compare(user.PasswordHash, plain); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			uc.logger.Error("password comparison failed", zap.String("user_id", user.ID), zap.Error(err))
		}
		uc.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if uc.limiter != nil {
		if err := uc.limiter.Reset(ctx, email); err != nil {
			uc.logger.Warn("login throttle reset failed", zap.Error(err))
		}
	}
	return uc.session(user)
}

// VerifyToken returns the user id carried by a valid token.
func (uc *UseCase) VerifyToken(_ context.Context, raw string) (string, error) {
	userID, err := uc.tokens.Verify(strings.TrimSpace(raw))
	if err != nil {
		uc.logger.Debug("token rejected", zap.Error(err))
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

func (uc *UseCase) session(user *domain.User) (*Session, error) {
	signed, expires, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "issue token", err)
	}
	return &Session{
		UserID:    user.ID,
		Token:     signed,
		ExpiresAt: expires,
		Profile:   user.Profile(),
	}, nil
}

func (uc *UseCase) recordFailure(ctx context.Context, email string) {
	if uc.limiter == nil {
		return
	}
	n, err := uc.limiter.Fail(ctx, email)
	if err != nil {
		uc.logger.Warn("login throttle update failed", zap.Error(err))
		return
	}
	uc.logger.Debug("failed login recorded", zap.Int("attempts", n))
}
