package pkgrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestChainRunsInOrderAndSkipsNil(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "upload")
	}), mw("limit"), nil, mw("audit"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/dashboards/d1/uploads", nil))

	if !reflect.DeepEqual(order, []string{"limit", "audit", "upload"}) {
		t.Fatalf("unexpected order: %#v", order)
	}
}

func TestRouteParamsAndPerRouteMiddleware(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})

	var tagged []string
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tagged = append(tagged, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	var gotID string
	router.POST("/dashboards/:id/uploads", func(ctx context.Context, r *http.Request) (any, error) {
		gotID = GetParam(ctx, "id")
		return nil, nil
	}, tag)
	router.GET("/dashboards/:id", func(ctx context.Context, r *http.Request) (any, error) {
		return map[string]string{"dashboard_id": GetParam(ctx, "id")}, nil
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboards/%20d-42%20/uploads", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if gotID != "d-42" {
		t.Fatalf("expected trimmed id d-42, got %q", gotID)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboards/d-42", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	if !reflect.DeepEqual(tagged, []string{"/dashboards/ d-42 /uploads"}) {
		t.Fatalf("per-route middleware must only wrap its route, got %v", tagged)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})
	router.GET("/dashboards/:id", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, nil
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/dashboards/d-1", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
