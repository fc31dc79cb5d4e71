package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/leapstack-labs/trigdata/internal/loader"
	"github.com/leapstack-labs/trigdata/internal/parser"
)

// LoadResult contains statistics and diagnostics of one load.
type LoadResult struct {
	Document string
	Sections int
	Records  int

	// Skipped lists sections that produced no records.
	Skipped []string

	// Errors are per-block diagnostics. A failed block is skipped and the
	// rest of the document is still loaded.
	Errors []error

	// Warnings are non-fatal, such as unrecognized sections.
	Warnings []error

	Duration time.Duration
}

// HasErrors returns true if any block failed.
func (r *LoadResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err joins the block diagnostics, or returns nil.
func (r *LoadResult) Err() error {
	return errors.Join(r.Errors...)
}

// Summary returns a human-readable summary.
func (r *LoadResult) Summary() string {
	return fmt.Sprintf("%s: %d records in %d sections (%d skipped) | %d errors | Duration: %s",
		r.Document, r.Records, r.Sections, len(r.Skipped), len(r.Errors),
		r.Duration.Round(time.Millisecond))
}

// LoadFile reads and loads the file at path. A leading UTF-8 byte order
// mark is dropped.
func (e *Engine) LoadFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return e.Load(path, f)
}

// LoadString loads content under the document name name.
func (e *Engine) LoadString(name, content string) (*LoadResult, error) {
	return e.Load(name, strings.NewReader(content))
}

// Load parses r and inserts its records. The returned error is only set
// when nothing could be loaded: reading failed or the document is already
// loaded. Syntax errors are reported per block in the result.
func (e *Engine) Load(name string, r io.Reader) (*LoadResult, error) {
	start := time.Now()
	if e.documentIndex(name) >= 0 {
		return nil, fmt.Errorf("document %q is already loaded", name)
	}

	content, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	e.logger.Debug("loading document", "document", name, "bytes", len(content))

	parsed, diags, err := parser.Parse(name, strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	result := &LoadResult{Document: name, Errors: diags}
	doc := &Document{Name: name, Hash: computeHash(string(content))}

	factory := loader.New(e.registry, name, loader.Options{
		PreserveUnmodeled:    e.cfg.PreserveUnmodeled,
		PreserveUnrecognized: e.cfg.PreserveUnrecognized,
		Logger:               e.logger,
	})

	for _, section := range parsed.Sections {
		result.Sections++
		kind, err := factory.KindFor(section)
		if err != nil {
			e.logger.Warn("skipping section", "document", name, "section", section.Name, "line", section.Line)
			result.Skipped = append(result.Skipped, section.Name)
			result.Warnings = append(result.Warnings, err)
			continue
		}

		e.logger.Debug("section opened", "section", section.Name, "kind", kind, "blocks", len(section.Blocks))
		doc.Sections = append(doc.Sections, Section{Name: section.Name, Line: section.Line, Kind: kind})

		for _, block := range section.Blocks {
			if _, err := factory.Construct(section.Name, kind, block); err != nil {
				e.logger.Warn("block rejected", "document", name, "line", block.Declaration().Number, "error", err)
				result.Errors = append(result.Errors, err)
				continue
			}
			result.Records++
		}
	}

	e.documents = append(e.documents, doc)
	result.Duration = time.Since(start)

	e.logger.Info("document loaded",
		"document", name,
		"records", result.Records,
		"errors", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// Changed reports whether content differs from what was loaded as document.
// Documents that are not loaded are always changed.
func (e *Engine) Changed(document, content string) bool {
	doc, ok := e.Document(document)
	return !ok || doc.Hash != computeHash(strings.TrimPrefix(content, "\ufeff"))
}

// computeHash generates a SHA256 hash of content.
func computeHash(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:8]) // Use first 8 bytes for brevity
}
