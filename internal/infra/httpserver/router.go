package httpserver

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appdebugging "github.com/bryanwahyu/code-debugger/internal/application/debugging"
	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
	"github.com/bryanwahyu/code-debugger/internal/middleware"
)

//go:embed web/index.html
var webFS embed.FS

const defaultMaxBodyBytes = 1 << 20

type Options struct {
	MaxBodyBytes   int64
	CORSOrigins    []string
	Limiter        *middleware.RateLimiter
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	debugSvc *appdebugging.Service
	maxBody  int64
}

func NewRouter(debugSvc *appdebugging.Service, opts Options) http.Handler {
	r := &Router{debugSvc: debugSvc, maxBody: opts.MaxBodyBytes}
	if r.maxBody <= 0 {
		r.maxBody = defaultMaxBodyBytes
	}

	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	mux.Get("/", r.handleIndex)
	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/healthz/live", middleware.LivenessHandler)
	mux.Get("/healthz/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	var apiMW []func(http.Handler) http.Handler
	if opts.Limiter != nil {
		apiMW = append(apiMW, middleware.RateLimitMiddleware(opts.Limiter))
	}
	// every method reaches the handler so it can answer 405 with Allow itself
	mux.With(apiMW...).Handle("/api/debug", r.wrap(r.handleDebug))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type messageBody struct {
	Message string `json:"message"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, messageBody{Message: domain.InvalidInputMessage})
		case errors.Is(err, domain.ErrEngineFailure):
			log.Printf("analysis error: %v", err)
			writeJSON(w, http.StatusInternalServerError, messageBody{Message: domain.ErrEngineFailure.Error()})
		default:
			log.Printf("request error: method=%s path=%s err=%v", req.Method, req.URL.Path, err)
			writeJSON(w, http.StatusInternalServerError, messageBody{Message: "internal server error"})
		}
	}
}

// POST /api/debug
// Body: {"code": "<javascript>"}
func (r *Router) handleDebug(w http.ResponseWriter, req *http.Request) error {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, messageBody{
			Message: fmt.Sprintf("Method %s Not Allowed", req.Method),
		})
		return nil
	}

	code, err := decodeCode(http.MaxBytesReader(w, req.Body, r.maxBody))
	if err != nil {
		return err
	}

	res, err := r.debugSvc.Analyze(req.Context(), code)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

// decodeCode accepts only a JSON object whose code field is a non-empty string
func decodeCode(body io.Reader) (string, error) {
	var in struct {
		Code any `json:"code"`
	}
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	code, ok := in.Code.(string)
	if !ok || code == "" {
		return "", domain.ErrInvalidInput
	}
	return code, nil
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// writeJSON sends the status then the body. Once the header is out nothing else
// may be written, so an encode failure (client gone) is only logged.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: status=%d err=%v", status, err)
	}
}
