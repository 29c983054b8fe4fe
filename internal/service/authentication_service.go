package service

import (
	"AuthSessionService/config"
	"AuthSessionService/internal/apperror"
	"AuthSessionService/internal/model"
	"AuthSessionService/internal/notifier"
	"AuthSessionService/internal/ports"
	"AuthSessionService/internal/security"
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthenticationService struct {
	JWTRepository  ports.JWTRepositoryInterface
	UserRepository ports.UserRepositoryInterface
	Blacklist      ports.BlacklistRepositoryInterface
	JWTService     ports.JWTServiceInterface
	Config         *config.Config
}

func NewAuthenticationService(
	jwtRepository ports.JWTRepositoryInterface,
	userRepository ports.UserRepositoryInterface,
	blacklist ports.BlacklistRepositoryInterface,
	jwtService ports.JWTServiceInterface,
	cfg *config.Config,
) *AuthenticationService {
	return &AuthenticationService{
		JWTRepository:  jwtRepository,
		UserRepository: userRepository,
		Blacklist:      blacklist,
		JWTService:     jwtService,
		Config:         cfg,
	}
}

// Login проверяет учетные данные и выпускает пару токенов. Ответ при
// несуществующем пользователе и при неверном пароле не различается.
func (service *AuthenticationService) Login(ctx context.Context, username string, password string, userAgent string, ipAddress string) (*model.TokensPair, error) {
	user, err := service.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		log.Printf("пользователь %s не найден: %v", username, err)
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	tokensPair, refreshToken, err := service.JWTService.GenerateAccessRefreshTokens(user.UUID, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	refreshToken.UserAgent = userAgent
	refreshToken.IpAddress = ipAddress
	if err := service.JWTRepository.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("не удалось сохранить рефреш токен: %w", err)
	}

	return tokensPair, nil
}

// RefreshToken обменивает refresh токен на новый access токен. Перед
// обменом refresh токен проходит полную проверку: подпись access токена,
// наличие записи в БД, срок, признак использования и bcrypt-хэш.
// Политика ротации задается в конфигурации: по умолчанию старый refresh
// токен гасится и выдается новый.
func (service *AuthenticationService) RefreshToken(ctx context.Context, userAgent string, ipAddress string, accessToken string, refreshToken string) (*model.TokensPair, error) {
	// подпись access токена обязана сходиться, но срок его жизни здесь
	// не проверяется: к моменту обновления он как правило уже истек
	claims, err := service.JWTService.ParseWithoutExpiry(accessToken)
	if err != nil {
		return nil, fmt.Errorf("не удалось провалидировать токен: %w", err)
	}

	refreshTokenUUID := claims.RefreshTokenUUID
	userUUID := claims.UserUUID

	storedRefreshToken, err := service.JWTRepository.FindByUUID(ctx, refreshTokenUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: не удалось найти рефреш токен: %v", apperror.ErrInvalidToken, err)
	}
	if storedRefreshToken.Used == true {
		return nil, fmt.Errorf("%w: токен уже был использован", apperror.ErrInvalidToken)
	}
	// токен, у которого срок наступил ровно сейчас, уже считается просроченным
	if time.Now().Before(storedRefreshToken.ExpireAt) == false {
		return nil, fmt.Errorf("%w: токен просрочен", apperror.ErrInvalidToken)
	}
	if storedRefreshToken.UserAgent != userAgent {
		_ = service.JWTRepository.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID)
		return nil, fmt.Errorf("%w: обновление токена запрещено. User-Agent был изменен", apperror.ErrInvalidToken)
	}
	if storedRefreshToken.IpAddress != ipAddress {
		log.Printf("обнаружен вход с нового устройства, отправка webhook")
		webhookConfig := service.Config.Webhook
		oldIP := storedRefreshToken.IpAddress
		go func() {
			if err := notifier.NotifyWebhook(webhookConfig, userUUID, ipAddress, oldIP); err != nil {
				log.Printf("ошибка отправки webhook: %v", err)
			}
		}()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedRefreshToken.TokenHash), []byte(refreshToken)); err != nil {
		return nil, fmt.Errorf("%w: хэш рефреш токена не совпал", apperror.ErrInvalidToken)
	}

	if service.Config.JWT.RotateRefresh == false {
		// без ротации: новый access токен, старый refresh остается рабочим
		newAccessToken, err := service.JWTService.GenerateAccessToken(userUUID, refreshTokenUUID, claims.Roles)
		if err != nil {
			return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
		}
		return &model.TokensPair{
			AccessToken:  newAccessToken,
			RefreshToken: refreshToken,
		}, nil
	}

	if err := service.JWTRepository.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
		return nil, fmt.Errorf("не удалось использовать токен: %w", err)
	}

	tokensPair, newRefreshToken, err := service.JWTService.GenerateAccessRefreshTokens(userUUID, claims.Roles)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	newRefreshToken.UserAgent = userAgent
	newRefreshToken.IpAddress = ipAddress
	if err := service.JWTRepository.SaveRefreshToken(ctx, newRefreshToken); err != nil {
		return nil, fmt.Errorf("не удалось сохранить рефреш токен: %w", err)
	}

	return tokensPair, nil
}

// Logout гасит refresh токен и кладет jti access токена в блэклист с TTL,
// равным остатку его жизни.
func (service *AuthenticationService) Logout(ctx context.Context, claims *security.Claims) error {
	if err := service.JWTRepository.MarkRefreshTokenUsedByUUID(ctx, claims.RefreshTokenUUID); err != nil {
		return fmt.Errorf("не удалось погасить рефреш токен: %w", err)
	}

	if claims.ExpiresAt != nil {
		remaining := time.Until(claims.ExpiresAt.Time)
		if err := service.Blacklist.RevokeAccessToken(ctx, claims.ID, remaining); err != nil {
			return fmt.Errorf("не удалось отозвать access токен: %w", err)
		}
	}

	return nil
}
