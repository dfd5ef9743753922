package opgraph

import (
	"errors"

	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/backtrack"
	"github.com/coregx/opgraph/dfalazy"
	"github.com/coregx/opgraph/internal/parser"
	"github.com/coregx/opgraph/parallel"
	"github.com/coregx/opgraph/prefilter"
)

// Compile parses pattern under flags and the default engine-selection
// policy, using the ASCII alphabet unless Unicode is set in flags.
func Compile(pattern string, flags Flag) (*Pattern, error) {
	return CompileWithConfig(pattern, flags, nil, DefaultConfig())
}

// MustCompile is like Compile but panics on error, for package-level
// pattern variables initialised at startup — mirroring the teacher's own
// MustCompile (_examples/coregx-coregex/regex.go).
func MustCompile(pattern string, flags Flag) *Pattern {
	p, err := Compile(pattern, flags)
	if err != nil {
		panic(`opgraph: Compile(` + pattern + `): ` + err.Error())
	}
	return p
}

// CompileWithConfig parses pattern under flags, an optional explicit
// alphabet (nil selects ASCII, or Unicode when the Unicode flag is set),
// and a full engine Config.
func CompileWithConfig(pattern string, flags Flag, alpha alphabet.Alphabet, cfg Config) (*Pattern, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateFlags(flags, alpha != nil && alpha != alphabet.ASCII); err != nil {
		return nil, err
	}

	if alpha == nil {
		if flags.Has(Unicode) {
			alpha = alphabet.Unicode
		} else {
			alpha = alphabet.ASCII
		}
	}

	opt := parser.Options{
		IgnoreCase:         flags.Has(IgnoreCase),
		Multiline:          flags.Has(Multiline),
		DotAll:             flags.Has(DotAll),
		Verbose:            flags.Has(Verbose),
		Extended:           flags.Has(Groups),
		Alphabet:           alpha,
		DisableStringMerge: flags.Has(Chars),
	}

	graph, gs, err := parser.Parse(pattern, opt)
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			return nil, &CompileError{Pattern: pattern, Offset: se.Pos, Message: se.Msg}
		}
		return nil, &CompileError{Pattern: pattern, Offset: -1, Message: err.Error()}
	}

	permissive := flags.Has(Empty) || flags.Has(Unsafe)
	if err := graph.Validate(permissive); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, &EmptyRepeatError{Pattern: pattern, NodeID: ve.NodeID}
		}
		return nil, &CompileError{Pattern: pattern, Offset: -1, Message: err.Error()}
	}

	var lits []prefilter.Literal
	if cfg.MaxLiteralsForPrefilter > 0 {
		lits = prefilter.ExtractPrefixes(graph)
		if len(lits) > cfg.MaxLiteralsForPrefilter {
			lits = nil
		}
	}

	return &Pattern{
		source:    pattern,
		flags:     flags,
		graph:     graph,
		groups:    gs,
		names:     gs.Names(),
		alphabet:  alpha,
		cfg:       cfg,
		pf:        prefilter.NewBuilder(lits).Build(),
		backtrack: backtrack.New(graph, alpha, cfg.Backtrack),
		parallel:  parallel.New(graph, alpha, cfg.Parallel),
		dfa:       dfalazy.New(graph, alpha, cfg.DFA),
	}, nil
}

// NumGroups reports the number of capturing groups, including group 0 (the
// whole match).
func (p *Pattern) NumGroups() int { return p.graph.NumGroups }

// GroupIndex returns the index bound to name, or (0, false) if no group
// carries that name.
func (p *Pattern) GroupIndex(name string) (int, bool) {
	idx, ok := p.names[name]
	return idx, ok
}

// String returns the source pattern text, the way fmt.Stringer on a
// compiled regex conventionally does.
func (p *Pattern) String() string { return p.source }
