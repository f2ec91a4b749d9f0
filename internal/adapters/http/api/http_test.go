package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ratingscope/internal/adapters/http/api"
	service "github.com/okian/ratingscope/internal/app"
	"github.com/okian/ratingscope/internal/domain/model"
	"github.com/okian/ratingscope/internal/domain/types"
)

type lookupCall struct {
	id    string
	debug bool
}

type mockDependencies struct {
	calls []lookupCall
	err   error
}

func (m *mockDependencies) Lookup(_ context.Context, id string, debug bool) (types.LookupResult, error) {
	m.calls = append(m.calls, lookupCall{id: id, debug: debug})
	if m.err != nil {
		return types.LookupResult{}, m.err
	}
	res := types.LookupResult{
		Record: types.PlayerRecord{
			ID:            id,
			Name:          "John Smith",
			CurrentRating: 2243,
			PeakRating:    2243,
			PeakDate:      "2025",
			RatingHistory: model.Series{{Year: 2025, Rating: 2243}},
			Trend:         model.TrendStable,
		},
	}
	if debug {
		res.Debug = &types.Debug{Snippet: "<title>Smith, John</title>"}
	}
	return res, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"lookups": 3}}, nil).
		Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Then the health endpoint serves metrics", func() {
			w := serve(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint serves JSON", func() {
			w := serve(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["lookups"], ShouldEqual, 3.0)
		})

		Convey("Then unknown routes are 404 JSON errors", func() {
			w := serve(mux, "GET", "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, `"code":"not_found"`)
		})

		Convey("Then every response carries a request id", func() {
			w := serve(mux, "GET", "/stats", "")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("Then a valid caller request id is echoed", func() {
			req := httptest.NewRequest("GET", "/stats", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "3b241101-e2bb-4255-8caf-4136c566a962")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "3b241101-e2bb-4255-8caf-4136c566a962")
		})
	})
}

func TestPlayerHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When getting a player", func() {
			w := serve(mux, "GET", "/players/fide_1503014", "")

			Convey("Then the record and its category are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				player := body["player"].(map[string]any)
				So(player["name"], ShouldEqual, "John Smith")
				So(player["currentRating"], ShouldEqual, 2243.0)
				So(body["category"], ShouldEqual, string(model.CategoryExpert))
				So(body, ShouldNotContainKey, "debug")
				So(deps.calls, ShouldResemble, []lookupCall{{id: "fide_1503014"}})
			})
		})

		Convey("When getting a player with debug", func() {
			w := serve(mux, "GET", "/players/fide_1503014?debug=true", "")

			Convey("Then the debug payload is included", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"debug":{"snippet"`)
				So(deps.calls[0].debug, ShouldBeTrue)
			})
		})

		Convey("When the id is missing", func() {
			w := serve(mux, "GET", "/players/", "")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.calls, ShouldBeEmpty)
			})
		})

		Convey("When the method is wrong", func() {
			w := serve(mux, "DELETE", "/players/fide_1", "")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When posting an opponent request", func() {
			w := serve(mux, "POST", "/opponent", `{"id":"12910923","debug":true}`)

			Convey("Then the opponent envelope is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["success"], ShouldEqual, true)
				So(body["opponent"].(map[string]any)["id"], ShouldEqual, "12910923")
				So(body, ShouldContainKey, "debug")
			})
		})

		Convey("When the opponent body is malformed", func() {
			w := serve(mux, "POST", "/opponent", `{"id":`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the opponent id is blank", func() {
			w := serve(mux, "POST", "/opponent", `{"id":"  "}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, api.ErrMissingID.Error())
			})
		})
	})

	Convey("Given a service that rejects the id", t, func() {
		mux := newMux(&mockDependencies{err: service.ErrEmptyID})

		Convey("Then the rejection maps to 400", func() {
			w := serve(mux, "GET", "/players/x", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given a failing service", t, func() {
		mux := newMux(&mockDependencies{err: errors.New("boom")})

		Convey("Then failures map to 500", func() {
			w := serve(mux, "POST", "/opponent", `{"id":"fide_1"}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "internal_error")
		})
	})
}

type mockWarmer struct {
	ids  []string
	full bool
}

func (m *mockWarmer) Len() int { return len(m.ids) }

func (m *mockWarmer) Enqueue(_ context.Context, id string) bool {
	if m.full {
		return false
	}
	m.ids = append(m.ids, id)
	return true
}

func TestWarmHandler(t *testing.T) {
	Convey("Given a server with a warmer", t, func() {
		warmer := &mockWarmer{}
		mux := http.NewServeMux()
		api.NewServer(&mockDependencies{}, &mockStatsProvider{}, nil, api.WithWarmer(warmer)).
			Register(context.Background(), mux)

		Convey("When posting ids", func() {
			w := serve(mux, "POST", "/warm", `{"ids":["12910923"," fide_1503014 ",""]}`)

			Convey("Then valid ids are accepted and blanks rejected", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var body map[string][]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["accepted"], ShouldResemble, []string{"12910923", "fide_1503014"})
				So(body["rejected"], ShouldResemble, []string{""})
				So(warmer.ids, ShouldResemble, []string{"12910923", "fide_1503014"})
			})
		})

		Convey("Then /stats reports the backlog", func() {
			serve(mux, "POST", "/warm", `{"ids":["12910923"]}`)
			w := serve(mux, "GET", "/stats", "")
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["warmQueueDepth"], ShouldEqual, 1.0)
		})

		Convey("When the queue is full", func() {
			warmer.full = true
			w := serve(mux, "POST", "/warm", `{"ids":["12910923"]}`)

			Convey("Then the id is reported as rejected", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Body.String(), ShouldContainSubstring, `"rejected":["12910923"]`)
			})
		})

		Convey("When the body has no ids", func() {
			w := serve(mux, "POST", "/warm", `{"ids":[]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When too many ids are posted", func() {
			ids := make([]string, 101)
			for i := range ids {
				ids[i] = "123456"
			}
			raw, _ := json.Marshal(map[string][]string{"ids": ids})
			w := serve(mux, "POST", "/warm", string(raw))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(warmer.ids, ShouldBeEmpty)
		})

		Convey("When using GET", func() {
			w := serve(mux, "GET", "/warm", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a server without a warmer", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then /warm falls through to the JSON 404", func() {
			w := serve(mux, "POST", "/warm", `{"ids":["1"]}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, `"code":"not_found"`)
		})
	})
}
