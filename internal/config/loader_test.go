package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/versus/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars(t)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SearchDebounceMS, convey.ShouldEqual, 150)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars(t)
			t.Setenv("VERSUS_ADDR", ":8080")
			t.Setenv("VERSUS_SEARCH_DEBOUNCE_MS", "300")
			t.Setenv("VERSUS_MAX_SESSIONS", "50")
			t.Setenv("VERSUS_EXCHANGE_RATE", "4200.5")
			t.Setenv("VERSUS_CURRENCY_CODE", "EUR")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SearchDebounceMS, convey.ShouldEqual, 300)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 50)
				convey.So(cfg.ExchangeRate, convey.ShouldEqual, 4200.5)
				convey.So(cfg.CurrencyCode, convey.ShouldEqual, "EUR")
				convey.So(cfg.InboxSize, convey.ShouldEqual, 64)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars(t)
			path := writeConfigFile(t, `
addr: ":9090"
catalog_path: "/etc/versus/catalog.yaml"
session_ttl_sec: 600
events_per_second: 5
events_burst: 10
`)
			t.Setenv("VERSUS_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/etc/versus/catalog.yaml")
				convey.So(cfg.SessionTTLSec, convey.ShouldEqual, 600)
				convey.So(cfg.EventsPerSecond, convey.ShouldEqual, 5.0)
				convey.So(cfg.EventsBurst, convey.ShouldEqual, 10)
				convey.So(cfg.SearchDebounceMS, convey.ShouldEqual, 150)
			})

			convey.Convey("And env vars should win over the file", func() {
				t.Setenv("VERSUS_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the config file is missing", func() {
			clearConfigEnvVars(t)
			t.Setenv("VERSUS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is out of range", func() {
			clearConfigEnvVars(t)
			t.Setenv("VERSUS_INBOX_SIZE", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then it should be invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearConfigEnvVars unsets every VERSUS_ variable for the test. t.Setenv
// restores the previous values afterwards.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
}
