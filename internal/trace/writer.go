package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// JSONLZstdWriter writes one JSON document per line through a zstd
// encoder.
type JSONLZstdWriter struct {
	mu  sync.Mutex
	dst io.Closer // nil when the caller owns the destination
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewJSONLZstdWriter wraps dst. Closing the writer flushes the encoder but
// leaves dst open.
func NewJSONLZstdWriter(dst io.Writer) (*JSONLZstdWriter, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &JSONLZstdWriter{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Create opens path for writing, creating parent directories, and closes
// the file together with the writer.
func Create(path string) (*JSONLZstdWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	w, err := NewJSONLZstdWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.dst = f
	return w, nil
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return os.ErrClosed
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush pushes buffered lines through the encoder.
func (w *JSONLZstdWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return nil
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return nil
	}
	err := w.w.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if w.dst != nil {
		if cerr := w.dst.Close(); err == nil {
			err = cerr
		}
		w.dst = nil
	}
	w.w = nil
	w.enc = nil
	return err
}

// ReadAll decodes every entry of a compressed JSONL stream.
func ReadAll(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("decode entry %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("read trace: %w", err)
	}
	return out, nil
}

func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}
