package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"bukmacher/internal/core"
	"bukmacher/internal/log"
	"bukmacher/internal/metrics"
	"bukmacher/internal/middleware/ratelimit"
	"bukmacher/internal/middleware/security"
	"bukmacher/internal/middleware/trace"
	"bukmacher/internal/services"
)

const maxBodyBytes = 64 << 10

// EntryService is the entry store as the API uses it.
type EntryService interface {
	Create(ctx context.Context, in core.EntryInput) (core.BetEntry, error)
	Update(ctx context.Context, id uuid.UUID, in core.EntryInput) (core.BetEntry, error)
	Get(ctx context.Context, id uuid.UUID) (core.BetEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	AllSorted(ctx context.Context) ([]core.BetEntry, error)
}

// SettingsService reads and updates the display preferences.
type SettingsService interface {
	Current(ctx context.Context) (core.Settings, error)
	Update(ctx context.Context, patch services.SettingsPatch) (core.Settings, error)
}

// OverviewSource renders the journal overview; services.OverviewCache
// implements it.
type OverviewSource interface {
	Overview(ctx context.Context, st core.Settings, now time.Time) (services.Overview, error)
}

// Deps are the collaborators of the API server. Overviews, Metrics, Ready,
// Location and Now are optional.
type Deps struct {
	Entries   EntryService
	Settings  SettingsService
	Overviews OverviewSource
	Metrics   *metrics.Metrics
	Ready     func(ctx context.Context) error
	Location  *time.Location
	Now       func() time.Time
	Logger    *log.Logger

	// Mutating requests allowed per client and minute; 0 uses the default.
	WriteRateLimit int
}

type Server struct {
	http.Server
	entries   EntryService
	settings  SettingsService
	overviews OverviewSource
	ready     func(ctx context.Context) error
	loc       *time.Location
	now       func() time.Time
	logger    *log.Logger

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	rlCfg := ratelimit.DefaultConfig()
	rlCfg.RequestsPerMinute = 120
	if deps.WriteRateLimit > 0 {
		rlCfg.RequestsPerMinute = deps.WriteRateLimit
	}

	s := &Server{
		entries:   deps.Entries,
		settings:  deps.Settings,
		overviews: deps.Overviews,
		ready:     deps.Ready,
		loc:       deps.Location,
		now:       deps.Now,
		logger:    deps.Logger.WithComponent(log.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(rlCfg),
	}
	if s.overviews == nil {
		s.overviews = uncachedOverviews{deps.Entries}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	mux.HandleFunc("GET /api/entries", s.handleListEntries)
	mux.HandleFunc("POST /api/entries", s.handleCreateEntry)
	mux.HandleFunc("POST /api/entries/delete", s.handleDeleteEntries)
	mux.HandleFunc("GET /api/entries/{id}", s.handleGetEntry)
	mux.HandleFunc("GET /api/entries/{id}/detail", s.handleEntryDetail)
	mux.HandleFunc("PUT /api/entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	detector := security.NewDetector()
	var handler http.Handler = mux
	if deps.Metrics != nil {
		// innermost, so the matched pattern is visible after routing
		handler = deps.Metrics.Middleware(routeLabel)(handler)
	}
	handler = s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
	}, http.MethodPost, http.MethodPut, http.MethodDelete)(handler)
	handler = detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(deps.Logger, detector.ExtractClientIP).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type uncachedOverviews struct{ entries EntryService }

func (u uncachedOverviews) Overview(ctx context.Context, st core.Settings, now time.Time) (services.Overview, error) {
	entries, err := u.entries.AllSorted(ctx)
	if err != nil {
		return services.Overview{}, err
	}
	return services.BuildOverview(entries, st, now), nil
}

func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
