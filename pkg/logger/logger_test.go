package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given logger initialization", t, func() {
		Convey("When initializing with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then the global logger is available", func() {
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initializing with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a json logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("fetch").Info(ctx, "fetched",
				String("id", "fide_1503014"),
				Bool("cached", false),
				Duration("took", 15*time.Millisecond),
			)

			Convey("Then one json record carries every field", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "fetched")
				So(rec["id"], ShouldEqual, "fide_1503014")
				So(rec["cached"], ShouldEqual, false)
				So(rec["component"], ShouldEqual, "fetch")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised above debug", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Debug(ctx, "hidden")
			Get().Info(ctx, "hidden too")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels are accepted", func() {
			for _, lvl := range []string{"debug", "info", "", "WARN", "warning", "error"} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
			So(SetLevelString("debug"), ShouldBeNil)
			So(levelVar.Level(), ShouldEqual, slog.LevelDebug)
		})

		Convey("Then unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}

func TestStandaloneLoggers(t *testing.T) {
	Convey("Given a standalone logger", t, func() {
		var buf bytes.Buffer
		l := New(&buf, slog.LevelInfo)
		l.Info(context.Background(), "hello", Int("n", 3))

		Convey("Then it writes to its own writer", func() {
			So(buf.String(), ShouldContainSubstring, "hello")
			So(buf.String(), ShouldContainSubstring, "n=3")
		})

		Convey("Then Nop discards", func() {
			So(func() { Nop().Error(context.Background(), "dropped") }, ShouldNotPanic)
		})
	})
}
