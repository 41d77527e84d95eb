package server

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/theirongolddev/moneymate/internal/extract"
	"github.com/theirongolddev/moneymate/internal/insight"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
)

// SummaryResponse is served at /v1/summary.
type SummaryResponse struct {
	Summary    model.Summary      `json:"summary"`
	Categories []model.KeyTotal   `json:"categories"`
	Companies  []model.KeyTotal   `json:"companies"`
	Daily      []model.DailyTotal `json:"daily"`
}

// UploadResponse is returned after a receipt is stored.
type UploadResponse struct {
	Receipt   model.Receipt  `json:"receipt"`
	FileType  model.FileType `json:"file_type"`
	Hash      string         `json:"sha256"`
	Duplicate bool           `json:"duplicate"`
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.SendString("ok\n")
}

func (s *Service) handleStatus(c *fiber.Ctx) error {
	st := Status{
		StartedAt:    s.startedAt,
		StorePath:    s.deps.Store.Path(),
		Receipts:     s.deps.Store.Len(),
		SkippedLines: len(s.deps.Store.Warnings()),
		CanScan:      s.deps.Ingester != nil,
		CanInsight:   s.deps.Insight != nil,
	}
	if s.deps.Scans != nil {
		if n, err := s.deps.Scans.Count(c.UserContext()); err == nil {
			st.Scans = &n
		}
	}
	s.mu.RLock()
	st.EventCount = len(s.events)
	s.mu.RUnlock()
	return c.JSON(st)
}

// rangeFromQuery reads ?from=&to= or ?period=. Explicit dates win.
func (s *Service) rangeFromQuery(c *fiber.Ctx) (model.DateRange, error) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		if period := c.Query("period"); period != "" {
			rng, err := model.RangeForPeriod(period, s.deps.Now())
			if err != nil {
				return model.DateRange{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return rng, nil
		}
	}
	rng, err := model.ParseRange(from, to)
	if err != nil {
		return model.DateRange{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return rng, nil
}

func (s *Service) handleListReceipts(c *fiber.Ctx) error {
	rng, err := s.rangeFromQuery(c)
	if err != nil {
		return err
	}
	receipts := s.deps.Store.Filter(rng)
	if receipts == nil {
		receipts = []model.Receipt{}
	}
	return c.JSON(fiber.Map{"count": len(receipts), "receipts": receipts})
}

func (s *Service) handleUpload(c *fiber.Ctx) error {
	if s.deps.Ingester == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "scanning is disabled: no API key configured")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "no file uploaded, use form field 'file'")
	}
	// Reject by name before reading the body into memory.
	if _, err := extract.Classify(fh.Filename); err != nil {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("opening upload: %w", err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}

	force, _ := strconv.ParseBool(c.Query("force", "false"))
	res, err := s.deps.Ingester.Ingest(c.UserContext(), extract.Upload{Filename: fh.Filename, Data: data}, force)
	if err != nil {
		return fiber.NewError(uploadStatus(err), err.Error())
	}

	s.publishEvent(Event{
		Type:      "receipt",
		Timestamp: s.deps.Now(),
		Filename:  fh.Filename,
		Company:   res.Receipt.Company,
		Date:      res.Receipt.Date,
		Items:     len(res.Receipt.Items),
		Total:     res.Receipt.Total().StringFixed(2),
		FileType:  res.FileType,
	})

	return c.Status(fiber.StatusCreated).JSON(UploadResponse{
		Receipt:   res.Receipt,
		FileType:  res.FileType,
		Hash:      res.Hash,
		Duplicate: res.Duplicate,
	})
}

func (s *Service) handleSummary(c *fiber.Ctx) error {
	rng, err := s.rangeFromQuery(c)
	if err != nil {
		return err
	}
	top := c.QueryInt("top", s.cfg.Top)

	receipts := s.deps.Store.Filter(rng)
	return c.JSON(SummaryResponse{
		Summary:    pipeline.Summarize(receipts, rng),
		Categories: pipeline.SortedCategories(receipts),
		Companies:  pipeline.TopCompanies(receipts, top),
		Daily:      pipeline.DailySeries(receipts),
	})
}

func (s *Service) handleInsight(c *fiber.Ctx) error {
	if s.deps.Insight == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "insights are disabled: no API key configured")
	}
	rng, err := s.rangeFromQuery(c)
	if err != nil {
		return err
	}

	receipts := s.deps.Store.Filter(rng)
	text, err := s.deps.Insight.Generate(c.UserContext(), insight.Request{
		Range:      rng,
		Categories: pipeline.SortedCategories(receipts),
		Companies:  pipeline.TopCompanies(receipts, s.cfg.Top),
		Total:      pipeline.Summarize(receipts, rng).Total,
	})
	switch {
	case errors.Is(err, insight.ErrNoData):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case err != nil:
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"range": rng, "insight": text})
}

func (s *Service) handleEvents(c *fiber.Ctx) error {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()
	return c.JSON(events)
}
