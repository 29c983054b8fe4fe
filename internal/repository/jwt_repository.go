package repository

import (
	"AuthSessionService/internal"
	"AuthSessionService/internal/model"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type JWTRepository struct {
	*internal.Database
}

func NewJWTRepository(database *internal.Database) *JWTRepository {
	return &JWTRepository{database}
}

func (repository *JWTRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (uuid, user_uuid, token_hash, expire_at, used, user_agent, ip_address)
			  VALUES (:uuid, :user_uuid, :token_hash, :expire_at, :used, :user_agent, :ip_address)`

	_, err := repository.DB.NamedExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("ошибка вставки данных в БД: %w", err)
	}

	return nil
}

func (repository *JWTRepository) FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error) {
	var token model.RefreshToken

	query := `SELECT * FROM refresh_tokens WHERE uuid = $1`
	err := repository.DB.GetContext(ctx, &token, query, uuid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("рефреш токен не найден")
		}
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return &token, nil
}

func (repository *JWTRepository) MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error {
	query := `UPDATE refresh_tokens SET used = TRUE WHERE uuid = $1 AND used = FALSE`

	result, err := repository.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return fmt.Errorf("не удалось обновить рефреш токен: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("не удалось проверить, обновлен ли токен: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("не удалось найти токен для его обновления")
	}

	return nil
}
