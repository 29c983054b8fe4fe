package server

import (
	"AuthSessionService/config"
	"AuthSessionService/internal"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func init() {
	// .env нужен только для локального запуска, в остальных окружениях
	// переменные задаются снаружи
	if err := godotenv.Load(); err != nil {
		log.Println(".env не найден, используются переменные окружения процесса")
	}
}

func SetupDatabase(cfg *config.Config) (*internal.Database, error) {
	connectionString := cfg.Database.ConnectionString
	if envConnection := os.Getenv("DATABASE_CONNECTION_URL"); envConnection != "" {
		connectionString = envConnection
	}

	database, err := internal.NewDatabaseConnection(cfg.Database.Driver, connectionString)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения: %w", err)
	}
	return database, nil
}

func SetupRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	log.Println("подключение к Redis: " + cfg.Redis.Addr)
	return client, nil
}

func SetupServer(cfg *config.Config) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	return server, router
}
