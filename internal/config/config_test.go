package config

import (
	"os"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"APP_ENV", "APP_PORT", "STORE_DRIVER", "SQLITE_PATH", "REDIS_ADDR", "REDIS_DB", "DEPARTMENTS_STRICT_IDS", "HTTP_REQUEST_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.App.Addr(); got != "0.0.0.0:3000" {
		t.Fatalf("addr = %q", got)
	}
	if cfg.App.IsProduction() {
		t.Fatalf("expected development mode by default")
	}
	if cfg.App.RequestTimeout() != 0 {
		t.Fatalf("expected request timeout disabled")
	}
	if cfg.Store.Driver != DriverSQLite || cfg.SQLite.Path != "hospital.db" {
		t.Fatalf("unexpected store config %+v %+v", cfg.Store, cfg.SQLite)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without REDIS_ADDR")
	}
	if cfg.Departments.StrictIDs {
		t.Fatalf("strict ids should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "Production")
	t.Setenv("APP_PORT", "8081")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/departments")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DEPARTMENTS_STRICT_IDS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.App.IsProduction() {
		t.Fatalf("expected production mode")
	}
	if cfg.App.RequestTimeout() != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.App.RequestTimeout())
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Fatalf("driver = %q", cfg.Store.Driver)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
	if !cfg.Departments.StrictIDs {
		t.Fatalf("expected strict ids")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres", "POSTGRES_DSN": ""}},
		{"bad redis db", map[string]string{"REDIS_DB": "two"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
