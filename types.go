package convexmodel

import "github.com/reoring/convexmodel/source"

// UnknownPolicy controls how keys not declared by an object are handled.
type UnknownPolicy int

const (
	UnknownStrip  UnknownPolicy = iota // Ignore unknown keys; they are not re-encoded.
	UnknownStrict                      // Reject unknown keys with CodeUnknownKey.
)

func (p UnknownPolicy) String() string {
	if p == UnknownStrict {
		return "strict"
	}
	return "strip"
}

// Option configures Compile and CompileFile.
type Option func(*options)

type options struct {
	unknown UnknownPolicy
	source  source.Options
}

// WithUnknownKeys sets the policy applied to undeclared object keys.
func WithUnknownKeys(p UnknownPolicy) Option {
	return func(o *options) { o.unknown = p }
}

// WithSourceOptions sets the enforcement used by DecodeJSON and DecodeYAML.
func WithSourceOptions(so source.Options) Option {
	return func(o *options) { o.source = so }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
