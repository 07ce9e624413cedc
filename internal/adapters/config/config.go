package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken      string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	OperatorID    int64
	ChannelID     string
	BannedWords   []string
	LogMode       string
}

func Load() (Config, error) {
	// Local development convenience; in production the env is already set.
	_ = godotenv.Load()

	cfg := Config{
		BotToken:      strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:     valueOrDefault("REDIS_ADDR", "redis:6379"),
		RedisPassword: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		ChannelID:     strings.TrimSpace(os.Getenv("CHANNEL_ID")),
		BannedWords:   parseList(os.Getenv("BANNED_WORDS")),
		LogMode:       valueOrDefault("LOG_MODE", "dev"),
	}

	redisDBRaw := strings.TrimSpace(os.Getenv("REDIS_DB"))
	if redisDBRaw != "" {
		v, err := strconv.Atoi(redisDBRaw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = v
	}

	operatorRaw := strings.TrimSpace(os.Getenv("OPERATOR_ID"))
	if operatorRaw != "" {
		v, err := strconv.ParseInt(operatorRaw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OPERATOR_ID: %w", err)
		}
		cfg.OperatorID = v
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required")
	}
	if cfg.OperatorID == 0 {
		return Config{}, fmt.Errorf("OPERATOR_ID is required")
	}
	if cfg.ChannelID == "" {
		return Config{}, fmt.Errorf("CHANNEL_ID is required")
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
