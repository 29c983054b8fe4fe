package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Webhook  WebhookConfig  `yaml:"webhook"`
}

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	Driver           string `yaml:"driver"`
	ConnectionString string `yaml:"connection_string"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// таймаут обращения к блэклисту, по его истечении токен отклоняется
	BlacklistTimeout string `yaml:"blacklist_timeout"`
}

type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	Issuer          string `yaml:"issuer"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
	// true - при каждом обновлении выдается новый refresh токен,
	// false - старый refresh токен живет до истечения собственного срока
	RotateRefresh bool `yaml:"rotate_refresh"`
}

type WebhookConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

func (config *JWTConfig) ParseAccessTokenTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(config.AccessTokenTTL)
	if err != nil {
		return 0, fmt.Errorf("неверный формат access_token_ttl: %w", err)
	}
	return ttl, nil
}

func (config *JWTConfig) ParseRefreshTokenTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(config.RefreshTokenTTL)
	if err != nil {
		return 0, fmt.Errorf("неверный формат refresh_token_ttl: %w", err)
	}
	return ttl, nil
}

func (config *RedisConfig) ParseBlacklistTimeout() time.Duration {
	timeout, err := time.ParseDuration(config.BlacklistTimeout)
	if err != nil || timeout <= 0 {
		return 500 * time.Millisecond
	}
	return timeout
}

func (config *WebhookConfig) ParseTimeout() time.Duration {
	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil || timeout <= 0 {
		return 5 * time.Second
	}
	return timeout
}
