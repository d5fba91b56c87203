package usecase

import (
	"context"
	"errors"
	"fmt"

	"parking-booking/internal/data/repository"
	"parking-booking/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnauthenticated means the bearer token did not resolve to a caller.
var ErrUnauthenticated = errors.New("invalid or expired credentials")

// IdentityService turns a bearer token into the caller's Identity.
type IdentityService interface {
	Resolve(ctx context.Context, token string) (utils.Identity, error)
}

type sessionIdentityService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	log      *zap.Logger
}

type jwtIdentityService struct {
	secret []byte
	log    *zap.Logger
}

func NewIdentityService(repo *repository.Repository, config utils.AuthConfig, log *zap.Logger) IdentityService {
	if config.Mode == utils.AuthModeJWT {
		return NewJWTIdentityService(config.JWTSecret, log)
	}
	return NewSessionIdentityService(repo.Session, repo.User, log)
}

func NewSessionIdentityService(sessions repository.SessionRepository, users repository.UserRepository, log *zap.Logger) IdentityService {
	return &sessionIdentityService{
		sessions: sessions,
		users:    users,
		log:      log.With(zap.String("service", "identity"), zap.String("mode", utils.AuthModeSession)),
	}
}

func (s *sessionIdentityService) Resolve(ctx context.Context, token string) (utils.Identity, error) {
	sessionToken, err := uuid.Parse(token)
	if err != nil {
		return utils.Identity{}, ErrUnauthenticated
	}

	session, err := s.sessions.FindValidSession(ctx, sessionToken)
	if err != nil {
		return utils.Identity{}, fmt.Errorf("resolve session: %w", err)
	}
	if session == nil {
		return utils.Identity{}, ErrUnauthenticated
	}

	roles, err := s.users.FindRoles(ctx, session.UserID)
	if err != nil {
		return utils.Identity{}, fmt.Errorf("resolve roles: %w", err)
	}
	if len(roles) == 0 {
		roles = []string{utils.RoleCustomer}
	}

	return utils.NewIdentity(session.UserID, roles...), nil
}

func NewJWTIdentityService(secret string, log *zap.Logger) IdentityService {
	return &jwtIdentityService{
		secret: []byte(secret),
		log:    log.With(zap.String("service", "identity"), zap.String("mode", utils.AuthModeJWT)),
	}
}

// Resolve accepts HS256 tokens whose sub is the numeric user id and whose
// roles claim is a string array. A single role claim is also honoured.
func (s *jwtIdentityService) Resolve(ctx context.Context, token string) (utils.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		s.log.Debug("Rejected bearer token", zap.Error(err))
		return utils.Identity{}, ErrUnauthenticated
	}

	userID, err := subjectID(claims["sub"])
	if err != nil {
		return utils.Identity{}, ErrUnauthenticated
	}

	var roles []string
	if list, ok := claims["roles"].([]any); ok {
		for _, item := range list {
			if role, ok := item.(string); ok {
				roles = append(roles, role)
			}
		}
	}
	if role, ok := claims["role"].(string); ok {
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		roles = []string{utils.RoleCustomer}
	}

	return utils.NewIdentity(userID, roles...), nil
}

func subjectID(sub any) (int64, error) {
	switch v := sub.(type) {
	case float64:
		if v <= 0 || v != float64(int64(v)) {
			return 0, fmt.Errorf("invalid subject %v", v)
		}
		return int64(v), nil
	case string:
		return utils.ParseID(v)
	default:
		return 0, fmt.Errorf("invalid subject %v", sub)
	}
}
