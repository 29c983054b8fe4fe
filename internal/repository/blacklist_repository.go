package repository

import (
	"AuthSessionService/internal/apperror"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "blacklist:"

// BlacklistRepository хранит jti отозванных access токенов в Redis.
// TTL записи равен остатку жизни токена, поэтому хранилище чистит себя
// само и не растет бесконечно.
type BlacklistRepository struct {
	client  *redis.Client
	timeout time.Duration
}

func NewBlacklistRepository(client *redis.Client, timeout time.Duration) *BlacklistRepository {
	return &BlacklistRepository{
		client:  client,
		timeout: timeout,
	}
}

func (repository *BlacklistRepository) key(jti string) string {
	return blacklistKeyPrefix + jti
}

// RevokeAccessToken помечает токен отозванным до его естественного истечения.
// Токен, который уже истек, отзывать не нужно.
func (repository *BlacklistRepository) RevokeAccessToken(ctx context.Context, jti string, remainingTTL time.Duration) error {
	if remainingTTL <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	if err := repository.client.Set(ctx, repository.key(jti), 1, remainingTTL).Err(); err != nil {
		return fmt.Errorf("ошибка записи в блэклист: %w", err)
	}

	return nil
}

// IsRevoked проверяет, отозван ли токен. Если Redis не ответил вовремя,
// возвращается ошибка и вызывающая сторона обязана отклонить токен.
func (repository *BlacklistRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repository.timeout)
	defer cancel()

	err := repository.client.Get(ctx, repository.key(jti)).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return false, fmt.Errorf("%w: %v", apperror.ErrRevocationStoreTimeout, err)
	}

	return false, fmt.Errorf("ошибка чтения блэклиста: %w", err)
}
