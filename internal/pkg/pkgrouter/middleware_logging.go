package pkgrouter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// maxLoggedBodyBytes bounds what the logger buffers of either body.
const maxLoggedBodyBytes = 16 * 1024

// quietRoutes are served without request logs.
//
//nolint:gochecknoglobals // read-only lookup
var quietRoutes = map[string]struct{}{
	"/health": {},
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	head   bytes.Buffer
	capped bool
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if remaining := maxLoggedBodyBytes - w.head.Len(); remaining > 0 {
		if len(p) > remaining {
			w.head.Write(p[:remaining])
			w.capped = true
		} else {
			w.head.Write(p)
		}
	} else if len(p) > 0 {
		w.capped = true
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func matchedRoutePath(r *http.Request) string {
	pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath()
	if pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// summarizeResponse keeps the envelope fields worth logging. The data
// member can hold a whole dataset, so only its size is reported.
func summarizeResponse(body []byte, capped bool) any {
	if len(body) == 0 {
		return nil
	}

	var env struct {
		Message string            `json:"message"`
		Data    json.RawMessage   `json:"data"`
		Meta    map[string]any    `json:"meta"`
		Error   map[string]string `json:"error"`
	}
	if capped || json.Unmarshal(body, &env) != nil {
		return parseAndMaskBody("application/json", body)
	}

	summary := map[string]any{"message": env.Message}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		summary["data_bytes"] = len(env.Data)
	}
	if env.Meta != nil {
		summary["meta"] = env.Meta
	}
	if env.Error != nil {
		summary["error"] = env.Error
	}
	return summary
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := matchedRoutePath(r)
		if _, quiet := quietRoutes[route]; quiet {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		contentType := r.Header.Get("Content-Type")

		var reqBody any
		if isFileUpload(contentType) {
			reqBody = omittedFile(r.ContentLength)
		} else if r.Body != nil {
			//nolint:errcheck // best effort for logging only
			raw, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
			r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(raw), r.Body), Closer: r.Body}
			reqBody = parseAndMaskBody(contentType, raw)
		}

		slog.InfoContext(
			r.Context(),
			"request received",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"headers", maskHeaders(r.Header),
			"body", reqBody,
			"content_length", r.ContentLength,
		)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		slog.Log(
			r.Context(),
			level,
			"response sent",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", rec.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
			"body", summarizeResponse(rec.head.Bytes(), rec.capped),
		)
	})
}

type readCloser struct {
	io.Reader
	io.Closer
}
