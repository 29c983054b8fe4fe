package security

import (
	"AuthSessionService/config"
	"AuthSessionService/internal/apperror"
	"AuthSessionService/internal/model"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Claims struct {
	UserUUID         string   `json:"user_id"`
	RefreshTokenUUID string   `json:"refresh_token_id"`
	Roles            []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет токены. Ключ и сроки жизни передаются
// через конфигурацию, глобального состояния нет, поэтому сервис можно
// использовать конкурентно без синхронизации.
type TokenService struct {
	secretKey       []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewTokenService(cfg *config.Config) (*TokenService, error) {
	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("%w: не задан jwt.secret_key", apperror.ErrSigning)
	}

	accessTokenTTL, err := cfg.JWT.ParseAccessTokenTTL()
	if err != nil {
		return nil, err
	}
	refreshTokenTTL, err := cfg.JWT.ParseRefreshTokenTTL()
	if err != nil {
		return nil, err
	}

	return &TokenService{
		secretKey:       []byte(cfg.JWT.SecretKey),
		issuer:          cfg.JWT.Issuer,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}, nil
}

// GenerateAccessRefreshTokens выпускает новую пару токенов. Refresh токен
// возвращается клиенту в открытом виде один раз, в БД попадает только его
// bcrypt-хэш. Срок жизни обоих токенов фиксируется в момент выпуска.
func (service *TokenService) GenerateAccessRefreshTokens(userUUID string, roles []string) (*model.TokensPair, *model.RefreshToken, error) {
	if len(service.secretKey) == 0 {
		return nil, nil, fmt.Errorf("%w: пустой ключ подписи", apperror.ErrSigning)
	}

	refreshTokenStr, storedRefreshToken, err := service.generateRefreshToken(userUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка генерации рефреш токена: %w", err)
	}

	now := time.Now()
	claims := Claims{
		UserUUID:         userUUID,
		RefreshTokenUUID: storedRefreshToken.UUID,
		Roles:            roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userUUID,
			ExpiresAt: jwt.NewNumericDate(now.Add(service.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    service.issuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString(service.secretKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: ошибка подписи токена: %v", apperror.ErrSigning, err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenStr,
	}, storedRefreshToken, nil
}

func (service *TokenService) generateRefreshToken(userUUID string) (string, *model.RefreshToken, error) {
	jwtTokenBytes := make([]byte, 32)
	_, err := rand.Read(jwtTokenBytes)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка генерации: %w", err)
	}
	refreshTokenStr := base64.StdEncoding.EncodeToString(jwtTokenBytes)

	hashedToken, err := bcrypt.GenerateFromPassword([]byte(refreshTokenStr), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка хэширования: %w", err)
	}

	// refreshTokenStr отдается клиенту
	// hashedToken сохраняется в БД
	return refreshTokenStr, &model.RefreshToken{
		UUID:      uuid.New().String(),
		UserUUID:  userUUID,
		TokenHash: string(hashedToken),
		ExpireAt:  time.Now().Add(service.refreshTokenTTL),
	}, nil
}

// GenerateAccessToken выпускает только access токен, привязанный к уже
// существующему refresh токену. Используется при политике без ротации.
func (service *TokenService) GenerateAccessToken(userUUID string, refreshTokenUUID string, roles []string) (string, error) {
	if len(service.secretKey) == 0 {
		return "", fmt.Errorf("%w: пустой ключ подписи", apperror.ErrSigning)
	}

	now := time.Now()
	claims := Claims{
		UserUUID:         userUUID,
		RefreshTokenUUID: refreshTokenUUID,
		Roles:            roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userUUID,
			ExpiresAt: jwt.NewNumericDate(now.Add(service.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    service.issuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString(service.secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: ошибка подписи токена: %v", apperror.ErrSigning, err)
	}

	return accessToken, nil
}

// ValidateJWT проверяет подпись и сроки access токена. Допустим только
// HS512: токен с alg=none или любым другим методом отклоняется, чтобы
// исключить downgrade-атаку. Сравнение подписи внутри библиотеки
// выполняется за константное время (hmac.Equal).
func (service *TokenService) ValidateJWT(jwtTokenStr string) (*Claims, error) {
	return service.parse(jwtTokenStr, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
}

// ParseWithoutExpiry проверяет подпись, но не сроки. Используется только
// при обновлении пары: access токен к этому моменту обычно уже просрочен,
// но claims из него нужны, чтобы найти refresh токен в БД.
func (service *TokenService) ParseWithoutExpiry(jwtTokenStr string) (*Claims, error) {
	return service.parse(jwtTokenStr,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation())
}

func (service *TokenService) parse(jwtTokenStr string, options ...jwt.ParserOption) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return service.secretKey, nil
	}, options...)

	if err != nil || jwtToken.Valid == false {
		return nil, fmt.Errorf("%w: %v", apperror.ErrInvalidToken, err)
	}

	return claims, nil
}

// RevocationChecker отвечает на вопрос, отозван ли access токен с данным jti.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTMiddleware пропускает запрос дальше только с валидным и не отозванным
// access токеном. Любая причина отказа наружу отдается одинаковым 401,
// подробности только в логе. Если блэклист недоступен, токен тоже
// отклоняется (fail closed).
func JWTMiddleware(tokenService *TokenService, blacklist RevocationChecker) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(tokenService, blacklist, next))
	}
}

func handleAuthentication(tokenService *TokenService, blacklist RevocationChecker, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if strings.HasPrefix(authorizationHeader, "Bearer ") == false {
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		jwtTokenStr := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := tokenService.ValidateJWT(jwtTokenStr)
		if err != nil {
			log.Printf("невалидный токен: %v", err)
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		revoked, err := blacklist.IsRevoked(request.Context(), claims.ID)
		if err != nil {
			log.Printf("ошибка проверки блэклиста, токен отклонен: %v", err)
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}
		if revoked {
			log.Printf("токен %s отозван", claims.ID)
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		request = request.WithContext(context.WithValue(request.Context(), "user", claims))
		next.ServeHTTP(writer, request)
	}
}
