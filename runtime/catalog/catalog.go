// Package catalog loads the lookup collections a formula is resolved
// against from JSON or YAML documents.
//
// A document is validated against an embedded JSON Schema, its
// schemaVersion must be a 1.x semantic version, and variables given only a
// formulaText get their step formula built from it.
package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
)

// Format is the encoding of a catalog document
type Format int

const (
	FormatAuto Format = iota // by file extension, else by content
	FormatJSON
	FormatYAML
)

// StdinPath makes Load read from standard input.
const StdinPath = "-"

// Document is the persisted catalog shape
type Document struct {
	SchemaVersion string `json:"schemaVersion,omitempty"`
	formula.Lookups
}

// Catalog is a loaded, validated set of lookup collections
type Catalog struct {
	Source  string
	Version string // canonical semver, e.g. "v1.2.0"
	Lookups *formula.Lookups
	Index   *formula.Index
}

// Option configures loading
type Option func(*loader)

type loader struct {
	logger *slog.Logger
	stdin  io.Reader
}

// WithLogger routes debug events to logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithStdin replaces os.Stdin as the source for StdinPath
func WithStdin(r io.Reader) Option {
	return func(l *loader) {
		l.stdin = r
	}
}

func newLoader(opts []Option) *loader {
	l := &loader{
		logger: slog.New(slog.DiscardHandler),
		stdin:  os.Stdin,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Empty returns a catalog with no entities.
func Empty() *Catalog {
	return &Catalog{
		Version: "v" + DefaultVersion,
		Lookups: &formula.Lookups{},
		Index:   formula.NewIndex(nil),
	}
}

// Load reads the catalog at path. StdinPath reads standard input.
func Load(path string, opts ...Option) (*Catalog, error) {
	l := newLoader(opts)

	var data []byte
	var err error
	if path == StdinPath {
		data, err = io.ReadAll(l.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, ferrors.NewCatalogReadError(path, err)
	}

	c, err := l.parse(data, formatFor(path))
	if err != nil {
		return nil, err
	}
	c.Source = path
	return c, nil
}

// Parse decodes, validates and expands a catalog document.
func Parse(data []byte, format Format, opts ...Option) (*Catalog, error) {
	return newLoader(opts).parse(data, format)
}

func (l *loader) parse(data []byte, format Format) (*Catalog, error) {
	if format == FormatAuto {
		format = sniff(data)
	}

	jsonData, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCatalogRead, "invalid JSON document", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCatalogRead, "invalid catalog document", err)
	}

	version, err := checkVersion(doc.SchemaVersion)
	if err != nil {
		return nil, err
	}

	lookups := doc.Lookups
	if err := expandFormulas(&lookups, l.logger); err != nil {
		return nil, err
	}

	l.logger.Debug("catalog loaded",
		"version", version,
		"variables", len(lookups.Variables),
		"goalsVariables", len(lookups.GoalsVariables),
		"goalsIndicators", len(lookups.GoalsIndicators),
		"indicatorQuadrenniums", len(lookups.IndicatorQuadrenniums))

	return &Catalog{
		Version: version,
		Lookups: &lookups,
		Index:   formula.NewIndex(&lookups),
	}, nil
}

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// sniff treats documents starting with "{" as JSON
func sniff(data []byte) Format {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON
	}
	return FormatYAML
}

// toJSON re-encodes YAML documents as JSON so both share one decoding path
func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCatalogRead, "invalid YAML document", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCatalogRead, "YAML document is not representable as JSON", err)
	}
	return out, nil
}
