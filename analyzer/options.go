package analyzer

// Logger is the narrow logging seam the analyzer writes warnings through.
// A nil Logger is valid everywhere in this package; every call site goes
// through the package-level helpers below which no-op on nil, so callers
// never need a no-op implementation of their own.
type Logger interface {
	Warnf(format string, args ...interface{})
}

func warnf(l Logger, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Warnf(format, args...)
}

// Config holds the tunables a ModuleAnalyzer run is parameterized by. It is
// YAML-tagged so it can be loaded the same way the rest of the stack loads
// configuration (gopkg.in/yaml.v3), and is otherwise only ever constructed
// through NewConfig + Options, never decoded directly into analyzer state.
type Config struct {
	MaxAsyncTraceDepth int  `yaml:"maxAsyncTraceDepth"`
	DeferIndexRebuild  bool `yaml:"deferIndexRebuild"`
	ForceReanalysis    bool `yaml:"forceReanalysis"`
}

// DefaultConfig returns the baseline configuration used when no Options are
// supplied.
func DefaultConfig() Config {
	return Config{
		MaxAsyncTraceDepth: asyncErrorTraceDepth,
		DeferIndexRebuild:  true,
		ForceReanalysis:    false,
	}
}

// Option mutates a Config in place; NewConfig folds a slice of Options over
// DefaultConfig.
type Option func(*Config)

// NewConfig builds a Config from DefaultConfig plus the given Options.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithForceReanalysis disables the HashGate's skip-if-unchanged behavior.
func WithForceReanalysis(force bool) Option {
	return func(c *Config) { c.ForceReanalysis = force }
}

// WithDeferIndexRebuild controls whether committed batches request deferred
// index maintenance from the graph Writer.
func WithDeferIndexRebuild(defer_ bool) Option {
	return func(c *Config) { c.DeferIndexRebuild = defer_ }
}

// WithMaxAsyncTraceDepth overrides AsyncErrorTracer's hop limit.
func WithMaxAsyncTraceDepth(depth int) Option {
	return func(c *Config) { c.MaxAsyncTraceDepth = depth }
}
