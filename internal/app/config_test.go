package app

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected default http addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected default metrics addr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.PostgresDSN != "" {
		t.Errorf("expected empty default dsn, got %s", cfg.PostgresDSN)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("expected no default brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_ADDR", ":18080")
	t.Setenv("STOREFRONT_METRICS_ADDR", ":19090")
	t.Setenv("STOREFRONT_POSTGRES_DSN", "postgres://localhost/storefront")
	t.Setenv("STOREFRONT_KAFKA_BROKERS", "broker1:9092, broker2:9092,")

	cfg := ConfigFromEnv()
	if cfg.HTTPAddr != ":18080" {
		t.Errorf("expected http addr :18080, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":19090" {
		t.Errorf("expected metrics addr :19090, got %s", cfg.MetricsAddr)
	}
	if cfg.PostgresDSN != "postgres://localhost/storefront" {
		t.Errorf("unexpected dsn: %s", cfg.PostgresDSN)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "broker1:9092" || cfg.KafkaBrokers[1] != "broker2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_ADDR", "")
	t.Setenv("STOREFRONT_METRICS_ADDR", "")
	t.Setenv("STOREFRONT_POSTGRES_DSN", "")
	t.Setenv("STOREFRONT_KAFKA_BROKERS", "")

	cfg := ConfigFromEnv()
	if cfg.HTTPAddr != ":8080" || cfg.MetricsAddr != ":9090" {
		t.Errorf("expected defaults, got %s and %s", cfg.HTTPAddr, cfg.MetricsAddr)
	}
	if cfg.PostgresDSN != "" || len(cfg.KafkaBrokers) != 0 {
		t.Errorf("expected empty dsn and brokers, got %q and %v", cfg.PostgresDSN, cfg.KafkaBrokers)
	}
}
