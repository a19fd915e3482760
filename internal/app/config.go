package app

import (
	"os"
	"strings"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr     string
	MetricsAddr  string
	PostgresDSN  string
	KafkaBrokers []string
}

// DefaultConfig возвращает базовые адреса API и HTTP-метрик.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
	}
}

// ConfigFromEnv читает настройки из окружения поверх DefaultConfig.
// Пустой STOREFRONT_POSTGRES_DSN означает in-memory хранилище, пустой
// STOREFRONT_KAFKA_BROKERS отключает публикацию событий.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if addr := os.Getenv("STOREFRONT_HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if addr := os.Getenv("STOREFRONT_METRICS_ADDR"); addr != "" {
		cfg.MetricsAddr = addr
	}
	cfg.PostgresDSN = os.Getenv("STOREFRONT_POSTGRES_DSN")
	if brokers := os.Getenv("STOREFRONT_KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			broker = strings.TrimSpace(broker)
			if broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	return cfg
}
