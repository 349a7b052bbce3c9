package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected storage driver: got=%s want=%s", cfg.StorageDriver, StoragePostgres)
	}
	if cfg.SyncWorkers != 4 {
		t.Fatalf("unexpected sync workers: got=%d want=4", cfg.SyncWorkers)
	}
	if cfg.MatchHighThreshold != 0.9 || cfg.MatchMidThreshold != 0.75 {
		t.Fatalf("unexpected match thresholds: high=%v mid=%v", cfg.MatchHighThreshold, cfg.MatchMidThreshold)
	}
	if got := cfg.SyncPolicies["standing"]; got.MaxAttempts != 2 || got.Timeout != time.Minute {
		t.Fatalf("unexpected standing policy: %+v", got)
	}
	if len(cfg.SyncPolicies) != 4 {
		t.Fatalf("unexpected policy count: got=%d want=4", len(cfg.SyncPolicies))
	}
	if cfg.TeamCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected team cache ttl: got=%s want=5m", cfg.TeamCacheTTL)
	}
	if cfg.SyncDiscoveryCron != "" {
		t.Fatalf("expected discovery cron to be disabled by default, got %q", cfg.SyncDiscoveryCron)
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_DRIVER")
	}

	t.Setenv("STORAGE_DRIVER", " Memory ")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected storage driver: got=%s want=%s", cfg.StorageDriver, StorageMemory)
	}
}

func TestLoad_ProdRequiresInternalJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "internal-job-token")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InternalJobToken != "internal-job-token" {
		t.Fatalf("unexpected internal job token: %q", cfg.InternalJobToken)
	}
}

func TestLoad_SyncPolicyOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SYNC_TOURNAMENT_STRUCTURE_MAX_ATTEMPTS", "5")
	t.Setenv("SYNC_TOURNAMENT_STRUCTURE_TIMEOUT", "90s")
	t.Setenv("SYNC_RETRY_INITIAL_BACKOFF", "1s")
	t.Setenv("SYNC_RETRY_MAX_BACKOFF", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	got := cfg.SyncPolicies["tournament-structure"]
	if got.MaxAttempts != 5 || got.Timeout != 90*time.Second {
		t.Fatalf("unexpected tournament structure policy: %+v", got)
	}
	if cfg.SyncRetryInitialBackoff != time.Second || cfg.SyncRetryMaxBackoff != 30*time.Second {
		t.Fatalf("unexpected backoff: initial=%s max=%s", cfg.SyncRetryInitialBackoff, cfg.SyncRetryMaxBackoff)
	}
}

func TestLoad_SyncValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero attempts", key: "SYNC_STANDING_MAX_ATTEMPTS", val: "0"},
		{name: "negative timeout", key: "SYNC_DISCOVERY_TIMEOUT", val: "-1s"},
		{name: "bad duration", key: "SYNC_DISCOVERY_LOOKBACK", val: "yesterday"},
		{name: "zero workers", key: "SYNC_WORKERS", val: "0"},
		{name: "max below initial", key: "SYNC_RETRY_MAX_BACKOFF", val: "1ms"},
		{name: "mid above high", key: "MATCH_MID_THRESHOLD", val: "0.95"},
		{name: "threshold not a number", key: "MATCH_HIGH_THRESHOLD", val: "high"},
		{name: "negative retries", key: "TOURNAMENT_API_MAX_RETRIES", val: "-1"},
		{name: "zero team cache ttl", key: "TEAM_CACHE_TTL", val: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "tournament-sync-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "tournament-sync-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}
