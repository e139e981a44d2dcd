package treefmt

import (
	"flag"
	"fmt"
)

// GapPolicy selects how a [Formatter] reacts to a descend into a level whose
// parent has no node yet.
type GapPolicy int

const (
	// GapInject draws a placeholder node for the missing parent and continues.
	GapInject GapPolicy = iota
	// GapFail rejects the descend with [ErrStructuralGap].
	GapFail
)

func (p GapPolicy) String() string {
	switch p {
	case GapInject:
		return "inject"
	case GapFail:
		return "fail"
	default:
		return fmt.Sprintf("GapPolicy(%d)", int(p))
	}
}

// Set implements flag.Value.
func (p *GapPolicy) Set(s string) error {
	switch s {
	case "inject":
		*p = GapInject
	case "fail":
		*p = GapFail
	default:
		return fmt.Errorf("invalid gap policy %q, expected one of [inject, fail]", s)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p GapPolicy) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *GapPolicy) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return p.Set(s)
}

// Config configures a [Formatter].
type Config struct {
	// Prefix is written at the start of every emitted line.
	Prefix string `yaml:"prefix"`

	// FlushLeft draws the root node without a connector glyph.
	FlushLeft bool `yaml:"flush_left"`

	GapPolicy GapPolicy `yaml:"gap_policy"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{FlushLeft: true, GapPolicy: GapInject}
}

// RegisterFlagsWithPrefix registers the formatter flags on f.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Prefix, prefix+"line-prefix", "", "Text written at the start of every tree line.")
	f.BoolVar(&cfg.FlushLeft, prefix+"flush-left", true, "Draw the root node flush against the left margin, without a connector.")
	cfg.GapPolicy = GapInject
	f.Var(&cfg.GapPolicy, prefix+"gap-policy", "What to do when a level is entered before its parent node was added. One of [inject, fail].")
}
