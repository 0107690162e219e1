package api

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/david/donor-concierge/internal/concierge"
	"github.com/david/donor-concierge/internal/config"
	"github.com/david/donor-concierge/internal/db"
	"github.com/david/donor-concierge/internal/ingest"
	"github.com/david/donor-concierge/internal/models"
)

// OpportunityStore is the catalog side of the store. *db.Store satisfies it.
type OpportunityStore interface {
	ListOpportunities(ctx context.Context, params db.ListParams) (*db.ListResult, error)
	GetOpportunityByKey(ctx context.Context, key string) (*models.Opportunity, error)
	ingest.Upserter
}

type Server struct {
	Concierge *concierge.Service
	Store     OpportunityStore
	Echo      *echo.Echo

	cfg         *config.Config
	logger      *zap.Logger
	adminSecret string
}

// NewServer wires routes and middleware. gatherer backs /metrics; nil uses
// the default prometheus registry.
func NewServer(svc *concierge.Service, store OpportunityStore, cfg *config.Config, logger *zap.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))

	// An empty list falls back to echo's default of any origin.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		Concierge:   svc,
		Store:       store,
		Echo:        e,
		cfg:         cfg,
		logger:      logger,
		adminSecret: strings.TrimSpace(cfg.AdminSecret),
	}
	if s.adminSecret == "" {
		s.adminSecret = ephemeralSecret()
		logger.Warn("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	}

	s.routes(gatherer)
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := s.Echo.Group("/api/v1")
	api.POST("/donors", s.handleRegisterDonor)

	donor := api.Group("/donors/:id")
	donor.GET("/transcript", s.handleTranscript)
	donor.POST("/messages", s.handleMessage)
	donor.GET("/vision", s.handleVision)
	donor.GET("/board", s.handleBoard)
	donor.GET("/suggestions", s.handleSuggestions)
	donor.GET("/matches", s.handleMatches)

	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/opportunities/:key", s.handleGetOpportunity)

	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/seed", s.handleSeed)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

type registerRequest struct {
	DisplayName string `json:"displayName"`
}

func (s *Server) handleRegisterDonor(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	d, err := s.Concierge.RegisterDonor(c.Request().Context(), req.DisplayName)
	if err != nil {
		return s.conciergeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

type messageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleMessage(c echo.Context) error {
	id, err := donorID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid donor id"})
	}
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	res, err := s.Concierge.HandleMessage(c.Request().Context(), id, req.Content)
	if err != nil {
		return s.conciergeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleTranscript(c echo.Context) error {
	id, err := donorID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid donor id"})
	}
	turns, err := s.Concierge.Transcript(c.Request().Context(), id)
	if err != nil {
		return s.conciergeError(c, err)
	}
	if turns == nil {
		turns = []models.ChatTurn{}
	}
	return c.JSON(http.StatusOK, turns)
}

func (s *Server) handleVision(c echo.Context) error {
	id, err := donorID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid donor id"})
	}
	v, err := s.Concierge.Vision(c.Request().Context(), id)
	if err != nil {
		return s.conciergeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (s *Server) handleBoard(c echo.Context) error {
	id, err := donorID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid donor id"})
	}
	board, err := s.Concierge.Board(c.Request().Context(), id)
	if err != nil {
		return s.conciergeError(c, err)
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) handleSuggestions(c echo.Context) error {
	id, err := donorID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid donor id"})
	}
	sugg, err := s.Concierge.Suggestions(c.Request().Context(), id)
	if err != nil {
		return s.conciergeError(c, err)
	}
	return c.JSON(http.StatusOK, sugg)
}

func (s *Server) handleMatches(c echo.Context) error {
	id, err := donorID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid donor id"})
	}
	report, err := s.Concierge.Matches(c.Request().Context(), id)
	if err != nil {
		return s.conciergeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	limit := 20
	offset := 0
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}

	result, err := s.Store.ListOpportunities(c.Request().Context(), db.ListParams{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
		Query:    c.QueryParam("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.logger.Error("failed to list opportunities", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	if result.Opportunities == nil {
		result.Opportunities = []models.Opportunity{}
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	opp, err := s.Store.GetOpportunityByKey(c.Request().Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		s.logger.Error("failed to load opportunity", zap.String("key", c.Param("key")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, opp)
}

func (s *Server) handleSeed(c echo.Context) error {
	stats, rejected, err := ingest.SeedCatalog(c.Request().Context(), s.Store, s.cfg.CatalogPath, s.logger)
	if err != nil {
		s.logger.Error("catalog seed failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if rejected == nil {
		rejected = []ingest.Rejection{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"stats":    stats,
		"rejected": rejected,
	})
}

func (s *Server) conciergeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, concierge.ErrEmptyMessage):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message content is required"})
	case errors.Is(err, concierge.ErrUnknownDonor):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Donor not found"})
	default:
		s.logger.Error("concierge request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
}

func donorID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Check X-Admin-Secret header or Bearer token
		if s.secretMatches(c.Request().Header.Get("X-Admin-Secret")) {
			return next(c)
		}
		authHeader := c.Request().Header.Get("Authorization")
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if s.secretMatches(authHeader[7:]) {
				return next(c)
			}
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func (s *Server) secretMatches(candidate string) bool {
	if candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.adminSecret)) == 1
}

func ephemeralSecret() string {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic("api: generate admin secret: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
