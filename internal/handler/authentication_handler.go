package handler

import (
	"AuthSessionService/internal/apperror"
	"AuthSessionService/internal/model"
	"AuthSessionService/internal/security"
	"AuthSessionService/internal/service"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
)

type AuthenticationHandler struct {
	*service.AuthenticationService
}

// LoginRequest содержит учетные данные пользователя
// swagger:model
type LoginRequest struct {
	// Имя пользователя
	// example: Abc
	Username string `json:"username"`

	// Пароль
	// example: 123
	Password string `json:"password"`
}

// CurrentUserResponse содержит строку с GUID(UUID) пользователя
// swagger:model
type CurrentUserResponse struct {
	UserGUID string `json:"userGUID" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// RefreshTokenRequest содержит refresh токен в json формате
// swagger:model
type RefreshTokenRequest struct {
	// Refresh токен
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`
}

// LogoutResponse содержит строку с сообщением
// swagger:model
type LogoutResponse struct {
	// Сообщение о результате операции
	// example: выполнен выход из аккаунта
	Message string `json:"message"`
}

func NewAuthenticationHandler(authenticationService *service.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Login выполняет вход и возвращает новую пару access/refresh токенов
// @Summary Вход в аккаунт
// @Description Проверяет логин и пароль, создает пару JWT-токенов и сохраняет refresh-токен в БД. Пример запроса: POST /auth/login с телом {"username": "Abc", "password": "123"}
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Учетные данные" example:`{"username": "Abc", "password": "123"}`
// @Success 200 {object} model.TokensPair "успешный ответ"
// @Failure 400 {string} string "неверный json"
// @Failure 401 {string} string "неверный логин или пароль"
// @Failure 500 {string} string "ошибка генерации токенов"
// @Router /login [post]
func (handler *AuthenticationHandler) Login(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	var loginRequest LoginRequest
	if err := json.NewDecoder(request.Body).Decode(&loginRequest); err != nil {
		log.Printf("неверный json: %v", err)
		http.Error(writer, "неверный json", http.StatusBadRequest)
		return
	}

	tokensPair, err := handler.AuthenticationService.Login(
		ctx,
		loginRequest.Username,
		loginRequest.Password,
		request.UserAgent(),
		request.RemoteAddr,
	)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			http.Error(writer, "неверный логин или пароль", http.StatusUnauthorized)
			return
		}
		log.Printf("ошибка входа: %v", err)
		http.Error(writer, "ошибка генерации токенов", http.StatusInternalServerError)
		return
	}

	response := &model.TokensPair{
		AccessToken:  tokensPair.AccessToken,
		RefreshToken: tokensPair.RefreshToken,
	}

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(&response)
}

// GetCurrentUsersUUID godoc
// @Summary Получение GUID (UUID) пользователя
// @Description Извлекает GUID (UUID) пользователя из JWT-токена. Пример запроса: GET /auth/me с заголовком Authorization: Bearer <access_token>
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} CurrentUserResponse "Успешный ответ"
// @Failure 401 {string} string "Пользователь не авторизован или токен недействителен"
// @Security ApiKeyAuth
// @Router /me [get]
func (handler *AuthenticationHandler) GetCurrentUsersUUID(writer http.ResponseWriter, request *http.Request) {
	claims, ok := request.Context().Value("user").(*security.Claims)
	if ok == false || claims == nil {
		http.Error(writer, "не авторизован", http.StatusUnauthorized)
		return
	}

	response := &CurrentUserResponse{UserGUID: claims.UserUUID}

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(&response)
}

// RefreshToken обновляет access и refresh токены
// @Summary Обновление токенов
// @Description Обновляет пару JWT-токенов по refresh-токену. Пример запроса: POST /auth/refresh-token с заголовком Authorization: Bearer <access_token> и телом {"refreshToken": "<refresh_token>"}
// @Tags Authentication
// @Accept json
// @Produce json
// @Param Authorization header string true "Access токен" default(Bearer <access_token>)
// @Param request body RefreshTokenRequest true "Refresh токен в теле запроса"
// @Success 200 {object} model.TokensPair "успешное обновление токенов"
// @Failure 400 {string} string "неверный json"
// @Failure 401 {string} string "не удалось обновить токены"
// @Failure 500 {string} string "не удалось обновить токены"
// @Security ApiKeyAuth
// @Router /refresh-token [post]
func (handler *AuthenticationHandler) RefreshToken(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	authHeader := request.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		http.Error(writer, "пустой или неверный заголовок Authorization", http.StatusUnauthorized)
		return
	}

	accessToken := strings.TrimPrefix(authHeader, "Bearer ")
	ipAddress := request.RemoteAddr
	userAgent := request.UserAgent()

	var refreshTokenRequest RefreshTokenRequest
	if err := json.NewDecoder(request.Body).Decode(&refreshTokenRequest); err != nil {
		log.Printf("неверный json: %v", err)
		http.Error(writer, "неверный json", http.StatusBadRequest)
		return
	}

	tokensPair, err := handler.AuthenticationService.RefreshToken(
		ctx,
		userAgent,
		ipAddress,
		accessToken,
		refreshTokenRequest.RefreshToken,
	)
	if err != nil {
		// причина отказа клиенту не сообщается
		log.Printf("не удалось обновить токены: %v", err)
		if errors.Is(err, apperror.ErrInvalidToken) {
			http.Error(writer, "не удалось обновить токены", http.StatusUnauthorized)
			return
		}
		http.Error(writer, "не удалось обновить токены", http.StatusInternalServerError)
		return
	}

	response := &model.TokensPair{
		AccessToken:  tokensPair.AccessToken,
		RefreshToken: tokensPair.RefreshToken,
	}

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(&response)
}

// Logout godoc
// @Summary Выход из аккаунта
// @Description Гасит refresh-токен и отзывает access-токен через блэклист. Пример запроса: POST /auth/logout с заголовком Authorization: Bearer <access_token>
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} LogoutResponse "Успешный выход"
// @Failure 400 {string} string "ошибка запроса"
// @Failure 401 {string} string "пользователь не авторизован"
// @Security ApiKeyAuth
// @Router /logout [post]
func (handler *AuthenticationHandler) Logout(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	claims, ok := request.Context().Value("user").(*security.Claims)
	if ok == false || claims == nil {
		http.Error(writer, "не авторизован", http.StatusUnauthorized)
		return
	}

	if err := handler.AuthenticationService.Logout(ctx, claims); err != nil {
		log.Printf("ошибка выхода: %v", err)
		http.Error(writer, "ошибка запроса", http.StatusBadRequest)
		return
	}
	response := &LogoutResponse{Message: "выполнен выход из аккаунта"}

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(&response)
}
