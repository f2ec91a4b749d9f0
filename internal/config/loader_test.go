package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ratingscope/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then the defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.CacheTTLMS, convey.ShouldEqual, 3_600_000)
				convey.So(cfg.FetchRetries, convey.ShouldEqual, 1)
				convey.So(cfg.FIDEProfileURL, convey.ShouldEqual, "https://ratings.fide.com/profile/%s")
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("RATINGSCOPE_ADDR", ":8081")
			_ = os.Setenv("RATINGSCOPE_CACHE_TTL_MS", "60000")
			_ = os.Setenv("RATINGSCOPE_HISTORY_YEARS", "5")
			_ = os.Setenv("RATINGSCOPE_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.CacheTTLMS, convey.ShouldEqual, 60000)
				convey.So(cfg.HistoryYears, convey.ShouldEqual, 5)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When a YAML file is given", func() {
			path := filepath.Join(t.TempDir(), "ratingscope.yaml")
			yaml := "addr: \":7000\"\nfetch_timeout_ms: 1500\nbaseline_rating: 1500\n" +
				"metrics_namespace: chess\nmetrics_buckets_ms: [5, 50, 500]\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv(config.EnvFile, path)

			convey.Convey("Then file values apply", func() {
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
				convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 1500)
				convey.So(cfg.BaselineRating, convey.ShouldEqual, 1500)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "chess")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "profiles")
				convey.So(cfg.MetricsBuckets, convey.ShouldResemble, []float64{5, 50, 500})
			})

			convey.Convey("Then env still wins over the file", func() {
				_ = os.Setenv("RATINGSCOPE_ADDR", ":7001")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7001")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_ = os.Setenv(config.EnvFile, filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := config.Load(ctx)

			convey.Convey("Then ErrLoadConfig is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an env value fails validation", func() {
			_ = os.Setenv("RATINGSCOPE_HISTORY_YEARS", "0")
			_, err := config.Load(ctx)

			convey.Convey("Then ErrInvalidConfig is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, config.EnvPrefix) {
			_ = os.Unsetenv(key)
		}
	}
}
