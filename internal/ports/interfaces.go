package ports

import (
	"AuthSessionService/internal/model"
	"AuthSessionService/internal/security"
	"context"
	"time"
)

type JWTRepositoryInterface interface {
	FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error)
	MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
}

type UserRepositoryInterface interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type BlacklistRepositoryInterface interface {
	RevokeAccessToken(ctx context.Context, jti string, remainingTTL time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type JWTServiceInterface interface {
	GenerateAccessRefreshTokens(userUUID string, roles []string) (*model.TokensPair, *model.RefreshToken, error)
	GenerateAccessToken(userUUID string, refreshTokenUUID string, roles []string) (string, error)
	ValidateJWT(tokenString string) (*security.Claims, error)
	ParseWithoutExpiry(tokenString string) (*security.Claims, error)
}
