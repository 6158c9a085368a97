package tessera

import "github.com/rs/zerolog"

// WorldOption augments how a World is constructed. Options win over values
// loaded from the environment.
type WorldOption func(*worldOptions)

type worldOptions struct {
	logger        *zerolog.Logger
	strictRestore bool
	statsdAddress string
	statsdTags    []string
}

// WithCustomLogger replaces the default stderr logger. Tests use it to
// capture engine output.
func WithCustomLogger(logger zerolog.Logger) WorldOption {
	return func(o *worldOptions) {
		o.logger = &logger
	}
}

// WithStrictRestore makes any per-component failure during Restore abort the
// whole operation instead of skipping the component.
func WithStrictRestore() WorldOption {
	return func(o *worldOptions) {
		o.strictRestore = true
	}
}

// WithStatsd points tick telemetry at a statsd agent. Without it (or the
// TESSERA_STATSD_ADDRESS variable) telemetry is a no-op.
func WithStatsd(address string, tags ...string) WorldOption {
	return func(o *worldOptions) {
		o.statsdAddress = address
		o.statsdTags = tags
	}
}
