// Package translog records conversation turns as JSON Lines on disk.
// The active file rotates by size: rotated files are gzip-compressed
// and optionally shipped to object storage.
package translog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/metrics"
)

// Record is one logged conversation turn.
type Record struct {
	Time      time.Time `json:"time"`
	SessionID string    `json:"session_id"`
	Turn      int       `json:"turn"`
	Query     string    `json:"query"`
	Intent    string    `json:"intent,omitempty"`
	Campuses  []string  `json:"campuses,omitempty"`
	Command   string    `json:"command,omitempty"`
	Reply     string    `json:"reply"`
	Provider  string    `json:"provider,omitempty"`
}

// Archiver ships a rotated transcript file to long-term storage.
// objstore.Client satisfies this through ArchiveUploader.
type Archiver interface {
	Archive(ctx context.Context, key string, body io.Reader) error
}

// Writer appends records to a JSONL file and rotates it by size.
// Safe for concurrent use.
type Writer struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	size     int64
	maxBytes int64
	archiver Archiver
	met      *metrics.Metrics
	log      *logger.Logger
	wg       sync.WaitGroup
	closed   bool
}

// Options configures a Writer.
type Options struct {
	// Path is the active JSONL file. Its directory must exist.
	Path string
	// MaxBytes triggers rotation when the active file exceeds it.
	// Zero disables rotation.
	MaxBytes int64
	// Archiver receives rotated .gz files. Nil keeps them on disk only.
	Archiver Archiver
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

// NewWriter opens (or creates) the active transcript file.
func NewWriter(opts Options) (*Writer, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("translog: path is required")
	}

	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("translog: open %s: %w", opts.Path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("translog: stat %s: %w", opts.Path, err)
	}

	return &Writer{
		file:     f,
		path:     opts.Path,
		size:     info.Size(),
		maxBytes: opts.MaxBytes,
		archiver: opts.Archiver,
		met:      opts.Metrics,
		log:      opts.Logger.WithModule("translog"),
	}, nil
}

// Append writes one record as a JSON line. Rotation happens after the
// write so a record is never split across files.
func (w *Writer) Append(rec Record) error {
	if w == nil {
		return nil
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("translog: marshal record: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("translog: writer closed")
	}

	n, err := w.file.Write(line)
	w.size += int64(n)
	if err != nil {
		return fmt.Errorf("translog: write record: %w", err)
	}
	w.met.RecordTranscriptRecord()

	if w.maxBytes > 0 && w.size >= w.maxBytes {
		if err := w.rotateLocked(); err != nil {
			w.log.WithError(err).Error("transcript rotation failed")
		}
	}
	return nil
}

// rotateLocked closes the active file, compresses it to a timestamped
// .gz next to it, and reopens a fresh active file. Caller holds w.mu.
func (w *Writer) rotateLocked() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close active file: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	gzPath := fmt.Sprintf("%s.%s.gz", w.path, stamp)

	if err := compressFile(w.path, gzPath); err != nil {
		// Reopen in append mode so logging continues into the old file
		f, openErr := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return fmt.Errorf("compress failed (%w) and reopen failed: %w", err, openErr)
		}
		w.file = f
		return fmt.Errorf("compress rotated file: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("reopen active file: %w", err)
	}
	w.file = f
	w.size = 0
	w.met.RecordTranscriptRotation()
	w.log.WithField("archive", filepath.Base(gzPath)).Info("transcript rotated")

	if w.archiver != nil {
		w.wg.Add(1)
		go w.upload(gzPath)
	}
	return nil
}

// upload ships one rotated file and removes it on success.
func (w *Writer) upload(gzPath string) {
	defer w.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	f, err := os.Open(gzPath)
	if err != nil {
		w.met.RecordTranscriptUpload("error")
		w.log.WithError(err).Error("open rotated transcript failed")
		return
	}
	defer f.Close()

	key := "transcripts/" + filepath.Base(gzPath)
	if err := w.archiver.Archive(ctx, key, f); err != nil {
		w.met.RecordTranscriptUpload("error")
		w.log.WithError(err).WithField("key", key).Error("transcript upload failed")
		return
	}

	w.met.RecordTranscriptUpload("ok")
	w.log.WithField("key", key).Info("transcript archived")

	if err := os.Remove(gzPath); err != nil {
		w.log.WithError(err).Warn("remove archived transcript failed")
	}
}

// Close flushes pending uploads and closes the active file.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	err := w.file.Close()
	w.mu.Unlock()

	w.wg.Wait()
	return err
}

// compressFile gzips src into dst and removes src.
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	gw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		out.Close()
		return err
	}

	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	in.Close()
	return os.Remove(src)
}
