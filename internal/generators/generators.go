// Package generators defines the artifact generator contract and the
// registry the artifact service queries for compatible generators. Concrete
// formats live in subpackages.
package generators

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

// ErrNotFound is returned for generator names that were never registered.
var ErrNotFound = errors.New("generator not found")

// TimestampLayout is used for every "Generated:" line.
const TimestampLayout = "2006-01-02 15:04:05"

// Generator renders a control's settings into one text artifact. Generators
// are stateless; SupportsSettings only inspects the key set.
type Generator interface {
	Generate(controlName string, s settings.Settings) (string, error)
	FileExtension() string
	MimeType() string
	SupportsSettings(s settings.Settings) bool
}

// Encoder is implemented by generators whose files need a specific on-disk
// encoding, e.g. CRLF line endings or UTF-16.
type Encoder interface {
	Encode(text string) ([]byte, error)
}

// Entry pairs a generator with its registry key.
type Entry struct {
	Name      string
	Generator Generator
}

// Encode returns the bytes to write for text produced by g.
func Encode(g Generator, text string) ([]byte, error) {
	if enc, ok := g.(Encoder); ok {
		return enc.Encode(text)
	}
	return []byte(text), nil
}

// CRLF normalises line endings to \r\n.
func CRLF(text string) string {
	return strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\n", "\r\n")
}

// Clock returns now, or time.Now when now is nil.
func Clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
