package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	appweb "fintrack/web"
)

// ReadinessCheck is one dependency probed by /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(context.Context) error
}

// Options configures NewServer.
type Options struct {
	Addr               string
	Finance            *services.FinanceService
	Sessions           storage.SessionStore
	Logger             *log.Logger
	SessionTTL         time.Duration
	CookieSecure       bool
	RateLimitPerMinute int
	Location           *time.Location
	Checks             []ReadinessCheck
}

type Server struct {
	http.Server
	templates *template.Template

	finance    *services.FinanceService
	sessions   storage.SessionStore
	sequencer  *backend.Sequencer
	logger     *log.Logger
	structured *log.StructuredLogger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	sessionTTL   time.Duration
	cookieSecure bool
	loc          *time.Location
	checks       []ReadinessCheck
	startedAt    time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a ready-to-run server.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	detector := security.NewDetector()
	s := &Server{
		templates:    tmpl,
		finance:      opts.Finance,
		sessions:     opts.Sessions,
		sequencer:    backend.NewSequencer(),
		logger:       logger,
		structured:   log.NewStructuredLogger(logger),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:     detector,
		tracer:       trace.NewMiddleware(logger, detector.ExtractClientIP),
		sessionTTL:   opts.SessionTTL,
		cookieSecure: opts.CookieSecure,
		loc:          opts.Location,
		checks:       opts.Checks,
		startedAt:    time.Now(),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(detector.ExtractClientIP, ratelimit.MutatingOnly, s.onRateLimited)

	var h http.Handler = mux
	h = limit(h)
	h = headers.Middleware(h)
	h = detector.Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /register", s.handleRegisterPage)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.Handle("GET /{$}", s.requireSession(s.handleIndex))
	mux.Handle("GET /stats", s.requireSession(s.handleStatsPage))
	mux.Handle("GET /categories", s.requireSession(s.handleCategoriesPage))
	mux.Handle("GET /investments", s.requireSession(s.handleInvestmentsPage))

	mux.Handle("GET /ui/transactions", s.requireSession(s.handleTransactionList))
	mux.Handle("POST /ui/transactions/{kind}", s.requireSession(s.handleCreateTransaction))
	mux.Handle("DELETE /ui/transactions/{kind}/{id}", s.requireSession(s.handleDeleteTransaction))

	mux.Handle("GET /ui/categories/{kind}", s.requireSession(s.handleCategoryList))
	mux.Handle("GET /ui/category-options/{kind}", s.requireSession(s.handleCategoryOptions))
	mux.Handle("POST /ui/categories/{kind}", s.requireSession(s.handleCreateCategory))
	mux.Handle("PUT /ui/categories/{kind}/{id}", s.requireSession(s.handleUpdateCategory))
	mux.Handle("DELETE /ui/categories/{kind}/{id}", s.requireSession(s.handleDeleteCategory))

	mux.Handle("GET /ui/stats", s.requireSession(s.handleStatsPanel))
	mux.Handle("GET /api/stats/chart", s.requireSession(s.handleStatsChart))
	mux.Handle("GET /ui/investments", s.requireSession(s.handleInvestmentsPanel))
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	Fail(http.StatusTooManyRequests, "Too many requests. Please try again later.").Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) today() core.Date {
	return core.Today(s.loc)
}
