// Package server exposes the receipt store over a local JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/moneymate/internal/extract"
	"github.com/theirongolddev/moneymate/internal/insight"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
	"github.com/theirongolddev/moneymate/internal/store"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	BodyLimit    int // bytes accepted per upload
	EventsBuffer int
	Top          int // default company count for /v1/summary
}

// ScanCounter reports how many uploads the scan cache has recorded.
type ScanCounter interface {
	Count(ctx context.Context) (int, error)
}

// Deps are the collaborators the server needs. Ingester, Insight and Scans
// may be nil; the matching endpoints then answer 503 or omit the field.
type Deps struct {
	Store    *store.Store
	Ingester *pipeline.Ingester
	Insight  insight.Generator
	Scans    ScanCounter
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Event records one receipt added through the API.
type Event struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Filename  string         `json:"filename"`
	Company   string         `json:"company"`
	Date      model.Date     `json:"date"`
	Items     int            `json:"items"`
	Total     string         `json:"total"`
	FileType  model.FileType `json:"file_type"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt    time.Time `json:"started_at"`
	StorePath    string    `json:"store_path"`
	Receipts     int       `json:"receipts"`
	SkippedLines int       `json:"skipped_lines"`
	Scans        *int      `json:"scans,omitempty"`
	CanScan      bool      `json:"can_scan"`
	CanInsight   bool      `json:"can_insight"`
	EventCount   int       `json:"event_count"`
}

// Service provides the HTTP API.
type Service struct {
	cfg  Config
	deps Deps
	log  zerolog.Logger
	app  *fiber.App

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event
}

// New returns a service with routes registered.
func New(cfg Config, deps Deps) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = 20 << 20
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Top <= 0 {
		cfg.Top = 10
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Service{
		cfg:       cfg,
		deps:      deps,
		log:       deps.Logger,
		startedAt: deps.Now(),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "moneymate",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(s.logRequests)

	s.app.Get("/healthz", s.handleHealth)
	v1 := s.app.Group("/v1")
	v1.Get("/status", s.handleStatus)
	v1.Get("/receipts", s.handleListReceipts)
	v1.Post("/receipts", s.handleUpload)
	v1.Get("/summary", s.handleSummary)
	v1.Get("/insight", s.handleInsight)
	v1.Get("/events", s.handleEvents)
	return s
}

// App returns the underlying fiber application.
func (s *Service) App() *fiber.App { return s.app }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		if err := s.app.Listen(s.cfg.Addr); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Service) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	ev := s.log.Debug()
	if status >= fiber.StatusInternalServerError {
		ev = s.log.Warn()
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Interface("request_id", c.Locals("requestid")).
		Msg("request")
	return err
}

func (s *Service) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// uploadStatus maps ingestion errors onto HTTP status codes.
func uploadStatus(err error) int {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFileType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, pipeline.ErrAlreadyScanned):
		return fiber.StatusConflict
	case errors.Is(err, extract.ErrCorruptFile), errors.Is(err, extract.ErrNoText):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, extract.ErrExtraction), errors.Is(err, extract.ErrInvalidReceipt):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
}
