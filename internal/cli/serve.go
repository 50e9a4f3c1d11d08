package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/charmbracelet/log"
	"github.com/marcusm117/mctk/pkg/apperr"
	"github.com/marcusm117/mctk/pkg/cache"
	"github.com/marcusm117/mctk/pkg/ctl"
	"github.com/marcusm117/mctk/pkg/kripke"
	"github.com/marcusm117/mctk/pkg/model"
)

// checkRequest is the POST /api/check payload: a model record plus a formula
// record.
type checkRequest struct {
	Model   json.RawMessage `json:"model"`
	Formula *ctl.Formula    `json:"formula"`
}

// sccRequest is the POST /api/scc payload.
type sccRequest struct {
	Model json.RawMessage `json:"model"`
}

// apiError is the JSON error envelope.
type apiError struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve check and scc over HTTP",
		Long: `Serve exposes the checker as a small JSON API:

  POST /api/check  {"model": {...}, "formula": {...}}
  POST /api/scc    {"model": {...}}
  GET  /healthz

Every response carries an X-Request-ID header. Check results are cached
using the configured backend, so identical requests are answered from the
cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			store, err := openCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(logger, store, cfg.Cache.ttl()),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: user config dir)")

	return cmd
}

// newRouter builds the HTTP handler tree.
func newRouter(logger *log.Logger, store cache.Cache, ttl time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/check", handleCheck(store, ttl))
	r.Post("/api/scc", handleSCC())

	return r
}

// requestID assigns a UUID to each request and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

const requestIDKey ctxKey = 1

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger logs each request with its method, path, status, duration,
// and request ID.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", requestIDFromContext(r.Context()),
			)
		})
	}
}

func handleCheck(store cache.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidModel, "decode request: %v", err))
			return
		}
		if req.Formula == nil {
			writeError(w, apperr.New(apperr.CodeInvalidFormula, "missing formula"))
			return
		}
		if err := req.Formula.Validate(); err != nil {
			writeError(w, err)
			return
		}

		result, _, err := runCheck(r.Context(), req.Model, req.Formula, store, ttl)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleSCC() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sccRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.CodeInvalidModel, "decode request: %v", err))
			return
		}

		m, err := model.Unmarshal(req.Model)
		if err != nil {
			writeError(w, err)
			return
		}
		g, err := m.Build()
		if err != nil {
			writeError(w, err)
			return
		}

		comps := kripke.SCCs(g)
		out := make([][]string, len(comps))
		for i, comp := range comps {
			out[i] = comp.Sorted()
		}
		writeJSON(w, http.StatusOK, map[string]any{"components": out})
	}
}

// writeError maps an error code to an HTTP status and writes the JSON error
// envelope.
func writeError(w http.ResponseWriter, err error) {
	code := apperr.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperr.CodeInvalidModel, apperr.CodeInvalidFormula,
		apperr.CodeDuplicate, apperr.CodeUnknownRef, apperr.CodeUndefinedAtom:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, apiError{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written; an encode failure here cannot be
	// reported to the client.
	_ = json.NewEncoder(w).Encode(v)
}
