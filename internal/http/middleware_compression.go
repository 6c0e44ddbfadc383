package httpx

import (
	"compress/gzip"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// CompressionConfig configures Compression.
type CompressionConfig struct {
	Level int // gzip level 1-9; anything else selects the gzip default
	// MinSize holds back compression until the body reaches this many bytes.
	// Smaller bodies are sent uncompressed. Zero compresses every eligible body.
	MinSize int
	Logger  *slog.Logger
}

// Compression gzips text responses for clients that accept it.
// HEAD requests, 204/304 responses, bodies that already carry a Content-Encoding
// and binary media types pass through untouched.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	level := cfg.Level
	if level < gzip.BestSpeed || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	writers := &sync.Pool{New: func() any {
		gz, _ := gzip.NewWriterLevel(io.Discard, level) // level is validated above
		return gz
	}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Accept-Encoding")

			cw := &compressWriter{ResponseWriter: w, writers: writers, minSize: cfg.MinSize}
			next.ServeHTTP(cw, r)
			if err := cw.finish(); err != nil {
				logger.WarnContext(r.Context(), "finishing gzip response failed", "path", r.URL.Path, "error", err)
			}
		})
	}
}

// acceptsGzip reports whether Accept-Encoding admits gzip with a non-zero q-value.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.TrimSpace(name)
		if !strings.EqualFold(name, "gzip") && name != "*" {
			continue
		}
		q := 1.0
		for _, param := range strings.Split(params, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
				continue
			}
			if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				q = f
			}
		}
		return q > 0
	}
	return false
}

func compressibleType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	switch mediaType {
	case "application/json", "application/javascript", "application/xml",
		"application/manifest+json", "image/svg+xml":
		return true
	}
	return false
}

// compressWriter defers the compress-or-not decision until the status and
// headers are known and, with MinSize, until enough body has been buffered.
type compressWriter struct {
	http.ResponseWriter
	writers *sync.Pool
	minSize int

	status  int // set by the handler's first WriteHeader
	decided bool
	gz      *gzip.Writer
	pending []byte
}

func (cw *compressWriter) WriteHeader(code int) {
	if code < http.StatusOK {
		cw.ResponseWriter.WriteHeader(code)
		return
	}
	if cw.status != 0 {
		return
	}
	cw.status = code

	if !cw.eligible() {
		cw.decided = true
		cw.ResponseWriter.WriteHeader(code)
		return
	}
	if cw.minSize <= 0 {
		cw.startGzip()
	}
}

func (cw *compressWriter) eligible() bool {
	if cw.status == http.StatusNoContent || cw.status == http.StatusNotModified {
		return false
	}
	h := cw.Header()
	if h.Get("Content-Encoding") != "" {
		return false
	}
	ct := h.Get("Content-Type")
	return ct == "" || compressibleType(ct)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.status == 0 {
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		cw.WriteHeader(http.StatusOK)
	}
	switch {
	case cw.gz != nil:
		return cw.gz.Write(b)
	case cw.decided:
		return cw.ResponseWriter.Write(b)
	}

	cw.pending = append(cw.pending, b...)
	if len(cw.pending) >= cw.minSize {
		cw.startGzip()
		if err := cw.drainPending(cw.gz); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (cw *compressWriter) startGzip() {
	cw.decided = true
	cw.gz, _ = cw.writers.Get().(*gzip.Writer)
	cw.gz.Reset(cw.ResponseWriter)

	h := cw.Header()
	h.Set("Content-Encoding", "gzip")
	h.Del("Content-Length")
	cw.ResponseWriter.WriteHeader(cw.status)
}

func (cw *compressWriter) drainPending(dst io.Writer) error {
	if len(cw.pending) == 0 {
		return nil
	}
	_, err := dst.Write(cw.pending)
	cw.pending = nil
	return err
}

// Flush commits to compression when still undecided, so streamed output is never held back.
func (cw *compressWriter) Flush() {
	if !cw.decided && cw.status != 0 {
		cw.startGzip()
		_ = cw.drainPending(cw.gz)
	}
	if cw.gz != nil {
		_ = cw.gz.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (cw *compressWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

// finish sends any body still held below MinSize uncompressed, then closes
// the gzip stream and returns the writer to the pool.
func (cw *compressWriter) finish() error {
	if !cw.decided && cw.status != 0 {
		cw.decided = true
		cw.ResponseWriter.WriteHeader(cw.status)
		if err := cw.drainPending(cw.ResponseWriter); err != nil {
			return err
		}
	}
	if cw.gz == nil {
		return nil
	}
	err := cw.gz.Close()
	cw.gz.Reset(io.Discard)
	cw.writers.Put(cw.gz)
	cw.gz = nil
	return err
}
