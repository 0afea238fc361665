package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/simrank/internal/adapters/http/api"
	service "github.com/okian/simrank/internal/app"
	"github.com/okian/simrank/internal/domain/types"
	"github.com/okian/simrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
}

const sample = `3 3
1 1 2 3
2 3 2 1
3 1 3 2
`

func newMux(opts ...api.Option) *http.ServeMux {
	svc := service.New()
	mux := http.NewServeMux()
	api.NewServer(svc, svc, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var e struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	return e.Code
}

func TestServer_Health(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("Then /healthz reports ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"status":"ok"}`)
		})

		Convey("Then /metrics serves the exposition", func() {
			_ = do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "simrank_")
		})

		Convey("Then /stats returns the service snapshot", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats types.Stats
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats.DuplicatePolicy, ShouldEqual, "reject")
		})

		Convey("Then unknown paths are not found", func() {
			So(do(mux, http.MethodGet, "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then wrong methods are refused", func() {
			So(do(mux, http.MethodPost, "/healthz", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestServer_Datasets(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(api.WithMaxLimit(5))

		Convey("When a dataset is uploaded", func() {
			w := do(mux, http.MethodPut, "/datasets/sample", sample)

			Convey("Then it is created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var ds types.Dataset
				So(json.Unmarshal(w.Body.Bytes(), &ds), ShouldBeNil)
				So(ds, ShouldResemble, types.Dataset{Name: "sample", Users: 3, Items: 3})
			})

			Convey("Then it is listed", func() {
				w := do(mux, http.MethodGet, "/datasets", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var list []types.Dataset
				So(json.Unmarshal(w.Body.Bytes(), &list), ShouldBeNil)
				So(len(list), ShouldEqual, 1)
			})

			Convey("Then a ranking can be read", func() {
				w := do(mux, http.MethodGet, "/datasets/sample/rankings/1", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var r types.Ranking
				So(json.Unmarshal(w.Body.Bytes(), &r), ShouldBeNil)
				So(r.RunID, ShouldNotBeEmpty)
				So(r.Target, ShouldEqual, 1)
				So(r.Entries, ShouldResemble, []types.Entry{
					{UserID: 3, Inversions: 1},
					{UserID: 2, Inversions: 3},
				})
			})

			Convey("Then limit truncates entries", func() {
				w := do(mux, http.MethodGet, "/datasets/sample/rankings/1?limit=1", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var r types.Ranking
				So(json.Unmarshal(w.Body.Bytes(), &r), ShouldBeNil)
				So(len(r.Entries), ShouldEqual, 1)
			})

			Convey("Then limits outside the cap are rejected", func() {
				So(do(mux, http.MethodGet, "/datasets/sample/rankings/1?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodGet, "/datasets/sample/rankings/1?limit=6", "").Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodGet, "/datasets/sample/rankings/1?limit=x", "").Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then an unknown user is not found", func() {
				w := do(mux, http.MethodGet, "/datasets/sample/rankings/99", "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorCode(w), ShouldEqual, "user_not_found")
			})

			Convey("Then a non-numeric user is a bad request", func() {
				So(do(mux, http.MethodGet, "/datasets/sample/rankings/abc", "").Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then deleting it removes it", func() {
				So(do(mux, http.MethodDelete, "/datasets/sample", "").Code, ShouldEqual, http.StatusNoContent)
				So(do(mux, http.MethodDelete, "/datasets/sample", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the dataset is unknown", func() {
			w := do(mux, http.MethodGet, "/datasets/missing/rankings/1", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(errorCode(w), ShouldEqual, "dataset_not_found")
		})

		Convey("When the upload is invalid", func() {
			cases := map[string]string{
				"2 2\n1 1\n":          "malformed_input",
				"2 2\n1 1 2\n1 2 1\n": "duplicate_user",
				"1 2\n1 1 1\n":        "integrity",
				"1 1\n4294967296 1\n": "overflow",
			}
			for body, code := range cases {
				w := do(mux, http.MethodPut, "/datasets/bad", body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, code)
			}
		})
	})

	Convey("Given a server with a small body cap", t, func() {
		mux := newMux(api.WithMaxBodyBytes(8))

		Convey("Then larger uploads are refused", func() {
			w := do(mux, http.MethodPut, "/datasets/sample", sample)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})
	})
}

func TestServer_Rankings(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("When a table is posted with a target", func() {
			w := do(mux, http.MethodPost, "/rankings?target=3", sample)

			Convey("Then the ranking is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var r types.Ranking
				So(json.Unmarshal(w.Body.Bytes(), &r), ShouldBeNil)
				So(r.Target, ShouldEqual, 3)
				So(r.Entries, ShouldResemble, []types.Entry{
					{UserID: 1, Inversions: 1},
					{UserID: 2, Inversions: 2},
				})
			})
		})

		Convey("When the target is missing", func() {
			So(do(mux, http.MethodPost, "/rankings", sample).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the target is absent from the table", func() {
			So(do(mux, http.MethodPost, "/rankings?target=9", sample).Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
