package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/usecase"
)

var tracer = otel.Tracer("auth")

const (
	tokenIssuer      = "saudapakka"
	defaultTokenTTL  = 24 * time.Hour
	loginFailMessage = "No active account found with the given credentials"
)

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type AuthService struct {
	config AuthConfig
	users  usecase.UserRepository
	now    func() time.Time
}

func NewAuthService(
	config AuthConfig,
	users usecase.UserRepository,
) *AuthService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = defaultTokenTTL
	}
	return &AuthService{
		config: config,
		users:  users,
		now:    time.Now,
	}
}

type claims struct {
	jwt.RegisteredClaims
}

// Login checks the password and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, domain.AuthExpiredError{Reason: loginFailMessage}
		}
		span.RecordError(err)
		return "", domain.User{}, errors.Wrap(err, "AuthService.Login: users.GetByEmail failed")
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, domain.AuthExpiredError{Reason: loginFailMessage}
	}

	token, err := s.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return "", domain.User{}, err
	}
	return token, user, nil
}

func (s *AuthService) Issue(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
	})
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", errors.Wrap(err, "AuthService.Issue: sign failed")
	}
	return signed, nil
}

// AuthJwt validates a session token and resolves the account's current role flags.
func (s *AuthService) AuthJwt(ctx context.Context, token string) (domain.Viewer, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.AuthJwt")
	defer span.End()

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return domain.Viewer{}, domain.AuthExpiredError{Reason: "Given token not valid for any token type"}
	}

	user, err := s.users.Get(ctx, c.Subject)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Viewer{}, domain.AuthExpiredError{Reason: "User not found"}
		}
		return domain.Viewer{}, errors.Wrap(err, "AuthService.AuthJwt: users.Get failed")
	}
	return user.Viewer(), nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "HashPassword failed")
	}
	return string(hash), nil
}

// Me returns the viewer's own account.
func (s *AuthService) Me(ctx context.Context, viewer domain.Viewer) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Me")
	defer span.End()

	user, err := s.users.Get(ctx, viewer.UserID)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}
	return user, nil
}
