package dataset

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotObject is returned when the document is neither null nor an object.
var ErrNotObject = errors.New("analysis document must be a JSON object")

// Decode reads one analysis document. A literal null yields (nil, nil).
func Decode(r io.Reader) (*Analysis, error) {
	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("read analysis: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, ErrNotObject
	}

	var a Analysis
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}

// FileSource loads an analysis JSON file exported from the analysis API.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) Load(ctx context.Context) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open analysis file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// StaticSource always returns the same analysis. Useful for tests and for
// handing an already-decoded analysis to components that expect a Source.
type StaticSource struct {
	Analysis *Analysis
}

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Load(ctx context.Context) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Analysis, nil
}

// Fingerprint hashes the analysis content so refreshers can skip reloads
// that did not change anything. A nil analysis has the empty fingerprint.
func Fingerprint(a *Analysis) string {
	if a == nil {
		return ""
	}
	buf, err := json.Marshal(a)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
