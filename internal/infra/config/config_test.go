package config

import (
	"testing"
	"time"
)

func setMongoEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_MODE", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	for _, key := range []string{"APP_ENV", "MONGO_DB", "KAFKA_TOPIC_PREFIX", "IDEMP_TTL", "OUTBOX_POLL_INTERVAL", "RETRY_BACKOFF"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setMongoEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "dev" || cfg.MongoDB != "hotelier" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.OutboxPollInterval != 500*time.Millisecond {
		t.Fatalf("poll interval = %v", cfg.OutboxPollInterval)
	}
	if cfg.IdempotencyTTL != 168*time.Hour {
		t.Fatalf("idempotency ttl = %v", cfg.IdempotencyTTL)
	}
	want := []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}
	if len(cfg.RetryBackoff) != len(want) {
		t.Fatalf("backoff = %v", cfg.RetryBackoff)
	}
	for i, d := range want {
		if cfg.RetryBackoff[i] != d {
			t.Fatalf("backoff[%d] = %v, want %v", i, cfg.RetryBackoff[i], d)
		}
	}
}

func TestLoadRequiresMongoURI(t *testing.T) {
	setMongoEnv(t)
	t.Setenv("MONGO_URI", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without MONGO_URI")
	}
}

func TestLoadRequiresBrokers(t *testing.T) {
	setMongoEnv(t)
	t.Setenv("KAFKA_BROKERS", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without KAFKA_BROKERS")
	}
}

func TestLoadMemoryModeSkipsMongoChecks(t *testing.T) {
	t.Setenv("STORAGE_MODE", "memory")
	t.Setenv("MONGO_URI", "")
	t.Setenv("KAFKA_BROKERS", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageMode != "memory" {
		t.Fatalf("storage mode = %q", cfg.StorageMode)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setMongoEnv(t)
	t.Setenv("OUTBOX_POLL_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadRejectsUnknownStorageMode(t *testing.T) {
	setMongoEnv(t)
	t.Setenv("STORAGE_MODE", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown storage mode")
	}
}
