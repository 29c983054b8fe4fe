package main

import (
	"AuthSessionService/config"
	"AuthSessionService/config/server"
	"AuthSessionService/internal/handler"
	"AuthSessionService/internal/repository"
	"AuthSessionService/internal/security"
	"AuthSessionService/internal/service"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("не удалось загрузить конфигурацию: %v", err)
	}

	database, err := server.SetupDatabase(cfg)
	if err != nil {
		log.Fatalf("не удалось подключиться к БД: %v", err)
	}
	defer database.Close()

	redisClient, err := server.SetupRedis(cfg)
	if err != nil {
		log.Fatalf("не удалось подключиться к Redis: %v", err)
	}
	defer redisClient.Close()

	httpServer, router := server.SetupServer(cfg)

	tokenService, err := security.NewTokenService(cfg)
	if err != nil {
		log.Fatalf("не удалось создать сервис токенов: %v", err)
	}

	jwtRepository := repository.NewJWTRepository(database)
	userRepository := repository.NewUserRepository(database)
	blacklistRepository := repository.NewBlacklistRepository(redisClient, cfg.Redis.ParseBlacklistTimeout())
	authenticationService := service.NewAuthenticationService(jwtRepository, userRepository, blacklistRepository, tokenService, cfg)
	authenticationHandler := handler.NewAuthenticationHandler(authenticationService)

	basePath := cfg.Server.BasePath
	if basePath == "" {
		basePath = "/auth"
	}

	router.Route(basePath, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(tokenService, blacklistRepository))
			r.Get("/me", authenticationHandler.GetCurrentUsersUUID)
			r.Post("/logout", authenticationHandler.Logout)
		})
		r.Group(func(r chi.Router) {
			r.Post("/login", authenticationHandler.Login)
			// access токен в заголовке может быть уже просрочен,
			// поэтому endpoint не закрыт общим middleware
			r.Post("/refresh-token", authenticationHandler.RefreshToken)
		})
	})

	runServer(ctx, httpServer)
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
