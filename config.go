package opgraph

import (
	"github.com/coregx/opgraph/backtrack"
	"github.com/coregx/opgraph/dfalazy"
	"github.com/coregx/opgraph/parallel"
)

// Engine selects which matching engine a Pattern runs on.
type Engine uint8

const (
	// EngineAuto runs the on-the-fly DFA first and falls back to the
	// backtracking engine, at the same start position, the moment the DFA
	// reports an UnsupportedError (a backreference to a non-empty capture)
	// — the hybrid strategy spec.md's error-handling
	// design describes for the top-level engine.
	EngineAuto Engine = iota
	// EngineBacktrack always runs the single-threaded backtracking
	// interpreter: full language support (backreferences, lookaround)
	// at the cost of possible exponential blowup on adversarial patterns.
	EngineBacktrack
	// EngineParallel always runs the Thompson-style parallel NFA family.
	// Config.Parallel.Hashing trades capture/backreference precision for a
	// bound on live thread count; Config.Parallel.Mode selects Wide,
	// Serial, or Beam scheduling.
	EngineParallel
	// EngineDFA always runs the on-the-fly DFA, never falling back.
	// Returns UnsupportedError directly for features it cannot execute.
	EngineDFA
)

func (e Engine) String() string {
	switch e {
	case EngineAuto:
		return "Auto"
	case EngineBacktrack:
		return "Backtrack"
	case EngineParallel:
		return "Parallel"
	case EngineDFA:
		return "DFA"
	default:
		return "Engine(?)"
	}
}

// Config bundles every engine's resource limits plus the engine-selection
// policy, the way the teacher's meta.Config bundles its own NFA/DFA/hybrid
// knobs into one value threaded through CompileWithConfig
// (_examples/coregx-coregex/meta/config.go).
type Config struct {
	Engine Engine

	Backtrack backtrack.Config
	Parallel  parallel.Config
	DFA       dfalazy.Config

	// MaxLiteralsForPrefilter caps how many required-prefix literals
	// Compile will hand to prefilter.Builder before giving up on the
	// multi-literal strategy and running the chosen engine at every
	// position unfiltered. Default: 64.
	MaxLiteralsForPrefilter int
}

// DefaultConfig returns the hybrid engine with every sub-engine's own
// default resource limits.
func DefaultConfig() Config {
	return Config{
		Engine:                  EngineAuto,
		Backtrack:               backtrack.DefaultConfig(),
		Parallel:                parallel.DefaultConfig(),
		DFA:                     dfalazy.DefaultConfig(),
		MaxLiteralsForPrefilter: 64,
	}
}

// Validate checks every sub-engine's Config and this Config's own fields.
func (c Config) Validate() error {
	if err := c.Backtrack.Validate(); err != nil {
		return err
	}
	if err := c.Parallel.Validate(); err != nil {
		return err
	}
	if err := c.DFA.Validate(); err != nil {
		return err
	}
	if c.MaxLiteralsForPrefilter < 0 {
		return &ConfigError{Field: "MaxLiteralsForPrefilter", Message: "must be >= 0"}
	}
	return nil
}
