package parser

import (
	"log/slog"
	"time"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Counts only
	TelemetryTiming                      // Counts + build time
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	logger     *slog.Logger
	telemetry  TelemetryMode
	maxDepth   int
	cycleGuard bool
	root       string
}

func newConfig(opts []ParserOpt) *ParserConfig {
	config := &ParserConfig{
		logger:     slog.New(slog.DiscardHandler),
		cycleGuard: true,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithLogger sets the logger for debug events
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTelemetryBasic enables basic telemetry (counts only)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + build time)
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithMaxDepth limits expression nesting, counting groups, calls and
// sub-formula expansion. Zero means unlimited.
func WithMaxDepth(depth int) ParserOpt {
	return func(c *ParserConfig) {
		c.maxDepth = depth
	}
}

// WithoutCycleGuard disables circular reference detection during
// sub-formula expansion. A cyclic catalog then recurses until the depth
// limit, if any.
func WithoutCycleGuard() ParserOpt {
	return func(c *ParserConfig) {
		c.cycleGuard = false
	}
}

// WithRootVariable names the variable whose formula is being built, so a
// reference back to it is reported as circular.
func WithRootVariable(id string) ParserOpt {
	return func(c *ParserConfig) {
		c.root = id
	}
}

// BuildTelemetry holds builder metrics (production-safe)
type BuildTelemetry struct {
	BuildTime    time.Duration // Total build time
	StepCount    int           // Steps received
	TokenCount   int           // Steps kept by the tokenizer
	ExpandedRefs int           // Sub-formulas expanded
	CycleHits    int           // Circular references cut by the guard
	ErrorCount   int           // Error nodes in the result
}
