// Package httpapi serves the SkillSense JSON API over gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillsense/internal/analysis"
	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/coach"
	"github.com/abhisek/skillsense/internal/metrics"
	"github.com/abhisek/skillsense/internal/profile"
	"github.com/abhisek/skillsense/internal/recommend"
)

// DefaultMaxUploadBytes bounds resume uploads.
const DefaultMaxUploadBytes = 5 << 20

// Services are the domain services behind the API. Assessment and Coach
// are nil when no LLM provider is configured; their routes then answer 503.
type Services struct {
	Analysis   *analysis.Service
	Profiles   *profile.Service
	Recommend  *recommend.Mapper
	Assessment *assessment.Service
	Coach      *coach.Service
	Metrics    *metrics.Metrics
}

// Config configures the HTTP layer.
type Config struct {
	JWTSecret      []byte
	AllowedOrigins []string
	MaxUploadBytes int64
	ResumeMaxRunes int

	// LogOutput receives access logs. Defaults to gin.DefaultWriter.
	LogOutput io.Writer
}

// Server is the API server.
type Server struct {
	svc    Services
	cfg    Config
	engine *gin.Engine
}

// New builds the router.
func New(svc Services, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{svc: svc, cfg: cfg}
	s.engine = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	out := s.cfg.LogOutput
	if out == nil {
		out = gin.DefaultWriter
	}
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    out,
		SkipPaths: []string{"/health", "/metrics"},
		Formatter: func(p gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\n",
				p.ClientIP,
				p.TimeStamp.Format(time.RFC1123),
				p.Method,
				p.Path,
				p.Request.Proto,
				p.StatusCode,
				p.Latency,
				p.Request.UserAgent(),
				p.ErrorMessage,
			)
		},
	}))
	r.Use(gin.Recovery())
	if s.svc.Metrics != nil {
		r.Use(s.metricsMiddleware())
		r.GET("/metrics", gin.WrapH(s.svc.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "skillsense",
			"timestamp": time.Now().UTC(),
		})
	})

	api := r.Group("/api")
	api.Use(s.authMiddleware())
	{
		api.GET("/roles", s.listRoles)
		api.GET("/roles/:id", s.getRole)

		api.GET("/profile", s.getProfile)
		api.PUT("/profile/skills", s.putSkills)
		api.DELETE("/profile/skills/:skill", s.deleteSkill)

		api.POST("/analysis", s.analyze)
		api.GET("/analysis/history", s.history)
		api.GET("/analysis/latest", s.latest)
		api.POST("/recommendations", s.recommendations)

		ai := api.Group("")
		ai.Use(s.requireAI())
		{
			ai.POST("/assessments", s.startAssessment)
			ai.GET("/assessments/:id", s.getAssessment)
			ai.POST("/assessments/:id/submit", s.submitAssessment)

			ai.POST("/coach/resume", s.critiqueResume)
			ai.POST("/coach/interview/questions", s.interviewQuestions)
			ai.POST("/coach/interview/evaluate", s.evaluateAnswer)
			ai.POST("/coach/roadmap", s.roadmap)
			ai.POST("/coach/chat", s.chat)
		}
	}

	return r
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.svc.Metrics.HTTPDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (s *Server) requireAI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.svc.Assessment == nil || s.svc.Coach == nil {
			failure(c, http.StatusServiceUnavailable, "AI features are not configured on this server", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
