package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/moneymate/internal/cache"
	"github.com/theirongolddev/moneymate/internal/extract"
	"github.com/theirongolddev/moneymate/internal/model"
)

// ErrAlreadyScanned is returned when an upload's content was ingested before.
var ErrAlreadyScanned = errors.New("this receipt has already been scanned")

// ReceiptStore is where ingested receipts are appended.
type ReceiptStore interface {
	Append(r model.Receipt) error
}

// ScanCache remembers content hashes of ingested uploads.
type ScanCache interface {
	Lookup(ctx context.Context, sha string) (cache.Scan, bool, error)
	Record(ctx context.Context, s cache.Scan) (cache.Scan, error)
}

// Ingester runs an upload through classification, extraction and storage.
// Cache is optional.
type Ingester struct {
	Extractor extract.Extractor
	Store     ReceiptStore
	Cache     ScanCache
	Model     string
	Logger    zerolog.Logger
}

// IngestResult describes one successfully stored upload.
type IngestResult struct {
	Receipt   model.Receipt
	FileType  model.FileType
	Hash      string
	Duplicate bool // content was seen before and force was set
}

// Ingest stores the receipt extracted from up. Unless force is set, content
// already present in the scan cache is rejected with ErrAlreadyScanned.
// Nothing is stored when any step fails.
func (in *Ingester) Ingest(ctx context.Context, up extract.Upload, force bool) (IngestResult, error) {
	log := in.Logger.With().Str("file", up.Filename).Logger()

	ft, err := extract.Classify(up.Filename)
	if err != nil {
		log.Warn().Err(err).Msg("rejected upload")
		return IngestResult{FileType: ft}, err
	}

	res := IngestResult{FileType: ft, Hash: HashContent(up.Data)}

	if in.Cache != nil {
		prev, seen, err := in.Cache.Lookup(ctx, res.Hash)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("scan cache lookup failed")
		case seen && !force:
			return res, fmt.Errorf("%w: %s matches %s scanned %s", ErrAlreadyScanned,
				up.Filename, prev.Filename, prev.ScannedAt.Local().Format("2006-01-02 15:04"))
		case seen:
			res.Duplicate = true
		}
	}

	receipt, err := in.Extractor.Extract(ctx, up)
	if err != nil {
		log.Error().Err(err).Msg("extraction failed")
		return res, err
	}

	if err := in.Store.Append(receipt); err != nil {
		return res, fmt.Errorf("storing receipt: %w", err)
	}
	res.Receipt = receipt

	if in.Cache != nil {
		_, err := in.Cache.Record(ctx, cache.Scan{
			SHA256:      res.Hash,
			Filename:    up.Filename,
			FileType:    ft,
			Company:     receipt.Company,
			ReceiptDate: receipt.Date,
			ItemCount:   len(receipt.Items),
			Total:       receipt.Total(),
			Model:       in.Model,
		})
		if err != nil {
			log.Warn().Err(err).Msg("recording scan failed")
		}
	}

	log.Info().
		Str("company", receipt.Company).
		Str("date", receipt.Date.String()).
		Int("items", len(receipt.Items)).
		Str("total", receipt.Total().StringFixed(2)).
		Msg("receipt stored")
	return res, nil
}

// HashContent returns the hex SHA-256 of data.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
