// Package store persists receipts as newline-delimited JSON in the working directory.
package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/moneymate/internal/model"
)

// FileName is the store file inside the working directory.
const FileName = "scanned_receipts.json"

// LineError records a stored line that could not be decoded.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// Store is an append-only receipt log. Reads observe every completed Append
// made through the same Store. There is no protection against other
// processes writing the same file.
type Store struct {
	path string
	log  zerolog.Logger

	mu       sync.RWMutex
	receipts []model.Receipt
	warnings []LineError
}

// Open creates dir if needed and loads the store file inside it.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating working dir: %w", err)
	}
	s := &Store{
		path: filepath.Join(dir, FileName),
		log:  log,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// maxLineSize caps a single stored line. Longer lines are skipped as corrupt.
var maxLineSize = 4 << 20

// ErrLineTooLong is recorded for lines longer than the line size cap.
var ErrLineTooLong = errors.New("line too long")

// load reads the whole file. A missing or empty file yields an empty store.
// Corrupt lines are skipped and remembered as warnings.
func (s *Store) load() error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		receipts []model.Receipt
		warnings []LineError
		lineNum  int
	)
	skip := func(err error) {
		warnings = append(warnings, LineError{Line: lineNum, Err: err})
		s.log.Warn().Int("line", lineNum).Err(err).Str("path", s.path).Msg("skipping corrupt receipt")
	}

	br := bufio.NewReaderSize(f, 64*1024)
	for {
		raw, tooLong, err := readLine(br, maxLineSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading store: %w", err)
		}
		if len(raw) > 0 || tooLong {
			lineNum++
			line := bytes.TrimSpace(raw)
			switch {
			case tooLong:
				skip(ErrLineTooLong)
			case len(line) == 0:
			default:
				if r, derr := DecodeLine(line); derr != nil {
					skip(derr)
				} else {
					receipts = append(receipts, r)
				}
			}
		}
		if err != nil {
			break
		}
	}

	s.mu.Lock()
	s.receipts = receipts
	s.warnings = warnings
	s.mu.Unlock()

	s.log.Debug().Int("receipts", len(receipts)).Int("skipped", len(warnings)).Msg("store loaded")
	return nil
}

// readLine returns the next line including its newline. When the line is
// longer than limit its bytes are drained and discarded and tooLong is set.
// err is io.EOF for the last line of the file.
func readLine(br *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}

// Reload re-reads the file from disk, picking up writes from other processes.
func (s *Store) Reload() error {
	return s.load()
}

// Append validates r, writes it as one line and syncs the file. The
// in-memory view only changes after the write succeeds.
func (s *Store) Append(r model.Receipt) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid receipt: %w", err)
	}
	line, err := EncodeLine(r)
	if err != nil {
		return fmt.Errorf("encoding receipt: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening store for append: %w", err)
	}
	terminated, err := endsWithNewline(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("checking store tail: %w", err)
	}
	if !terminated {
		// The previous write was cut short. Keep the fragment on its own line.
		line = append([]byte{'\n'}, line...)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing receipt: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing store: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	s.receipts = append(s.receipts, cloneReceipt(r))
	return nil
}

// endsWithNewline reports whether f is empty or ends with a newline.
func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}

// Receipts returns every receipt in insertion order.
func (s *Store) Receipts() []model.Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}

// FilterByDate returns receipts whose date lies within [from, to]. A nil
// bound imposes no constraint on that side.
func (s *Store) FilterByDate(from, to *model.Date) []model.Receipt {
	return s.Filter(model.DateRange{From: from, To: to})
}

// Filter returns receipts inside rng, in insertion order.
func (s *Store) Filter(rng model.DateRange) []model.Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Receipt
	for _, r := range s.receipts {
		if rng.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of loaded receipts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.receipts)
}

// Warnings returns the lines skipped during the last load.
func (s *Store) Warnings() []LineError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LineError, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

func cloneReceipt(r model.Receipt) model.Receipt {
	r.Items = append([]model.Item(nil), r.Items...)
	return r
}
