package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"petsitter/appuser"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals the password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrInvalidToken signals a missing, malformed or expired bearer credential.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// AccountStore is the subset of appuser persistence the auth service needs.
type AccountStore interface {
	Create(ctx context.Context, email, passwordHash string) (appuser.Appuser, error)
	GetByEmail(ctx context.Context, email string) (appuser.Appuser, error)
	StampLastLogin(ctx context.Context, id string, at time.Time) error
}

// Service handles identity: signup, login and bearer-token verification.
type Service struct {
	store     AccountStore
	jwtSecret []byte
	now       func() time.Time
	tokenTTL  time.Duration
}

// LoginResult bundles the token and the profile returned after a successful login.
type LoginResult struct {
	Token   string
	Appuser appuser.Appuser
}

// NewService creates a new identity service.
func NewService(store AccountStore, jwtSecret string) *Service {
	return &Service{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
		tokenTTL:  24 * time.Hour,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SignUp creates a new appuser account.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (appuser.Appuser, error) {
	if len(req.Password) < 8 {
		return appuser.Appuser{}, ErrWeakPassword
	}
	if req.Email == "" {
		return appuser.Appuser{}, fmt.Errorf("auth: email is required")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appuser.Appuser{}, fmt.Errorf("auth: hash password: %w", err)
	}

	return s.store.Create(ctx, req.Email, string(passwordHash))
}

// LogIn authenticates an appuser, stamps last_login and returns a signed token
// alongside the profile.
func (s *Service) LogIn(ctx context.Context, req LogInRequest) (LoginResult, error) {
	user, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, appuser.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	loginAt := s.now()
	if err := s.store.StampLastLogin(ctx, user.ID, loginAt); err != nil {
		return LoginResult{}, fmt.Errorf("auth: stamp last login: %w", err)
	}
	user.LastLogin = &loginAt

	token, err := s.generateToken(user.ID, user.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return LoginResult{Token: token, Appuser: user}, nil
}

// VerifyToken validates a bearer credential and returns the caller identity.
func (s *Service) VerifyToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return Identity{}, fmt.Errorf("%w: missing uid claim", ErrInvalidToken)
	}
	email, ok := claims["email"].(string)
	if !ok {
		return Identity{}, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}

	return Identity{AppuserID: uid, Email: email}, nil
}

func (s *Service) generateToken(appuserID, email string) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"uid":   appuserID,
		"email": email,
		"exp":   issuedAt.Add(s.tokenTTL).Unix(),
		"iat":   issuedAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
