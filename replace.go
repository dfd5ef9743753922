package opgraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/opgraph/matchresult"
)

// ReplacementError reports a malformed replacement string passed to Sub or
// Subn: an out-of-range \<digit> or \g<...> backreference, an unknown named
// group, or a malformed \g<...> construct. Caught once, when the
// replacement is compiled, not per match.
type ReplacementError struct {
	Repl    string
	Offset  int
	Message string
}

func (e *ReplacementError) Error() string {
	return fmt.Sprintf("opgraph: error parsing replacement %q at offset %d: %s", e.Repl, e.Offset, e.Message)
}

// MissingBackreferenceError reports a replacement backreference to a group
// that exists in the pattern but did not participate in this particular
// match — the one place spec.md promotes a missing-backreference condition
// from a silent per-thread failure (as it is inside the graph itself) to a
// reported error, since a replacement string has no other thread to fall
// back to.
type MissingBackreferenceError struct {
	Group string
}

func (e *MissingBackreferenceError) Error() string {
	return "opgraph: replacement backreference to group " + e.Group + " which did not participate in the match"
}

type replToken struct {
	isGroup bool
	literal string
	group   int    // valid when isGroup
	name    string // original group reference text, for MissingBackreferenceError
}

// compileReplacement parses repl under the replacement mini-language:
// literal characters pass through; \<digit> and \g<name-or-number> are
// backreferences; \n \t \r \f \v \a and \\ are the standard escapes; \0
// followed by up to two more octal digits is an octal escape (a backslash
// and 1-9 always starts a backreference); any other backslash sequence is preserved
// verbatim (the backslash and the following rune both survive unchanged).
func (p *Pattern) compileReplacement(repl string) ([]replToken, error) {
	src := []rune(repl)
	var toks []replToken
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, replToken{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		r := src[i]
		if r != '\\' {
			lit.WriteRune(r)
			continue
		}
		if i+1 >= len(src) {
			return nil, &ReplacementError{Repl: repl, Offset: i, Message: "trailing backslash"}
		}
		next := src[i+1]
		switch {
		case next >= '0' && next <= '9':
			if next == '0' {
				// \0 and \0oo are octal, not a backreference.
				j := i + 1
				val := 0
				for j < len(src) && j < i+4 && src[j] >= '0' && src[j] <= '7' {
					val = val*8 + int(src[j]-'0')
					j++
				}
				flush()
				lit.WriteRune(rune(val))
				i = j - 1
				continue
			}
			j := i + 1
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			numText := string(src[i+1 : j])
			n, _ := strconv.Atoi(numText)
			if n >= p.NumGroups() {
				return nil, &ReplacementError{Repl: repl, Offset: i, Message: "invalid group reference \\" + numText}
			}
			flush()
			toks = append(toks, replToken{isGroup: true, group: n, name: numText})
			i = j - 1

		case next == 'g':
			if i+2 >= len(src) || src[i+2] != '<' {
				return nil, &ReplacementError{Repl: repl, Offset: i, Message: "expected '<' after \\g"}
			}
			end := -1
			for j := i + 3; j < len(src); j++ {
				if src[j] == '>' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, &ReplacementError{Repl: repl, Offset: i, Message: "unterminated \\g<...>"}
			}
			ref := string(src[i+3 : end])
			idx, err := p.resolveReplacementGroup(ref)
			if err != nil {
				return nil, &ReplacementError{Repl: repl, Offset: i, Message: err.Error()}
			}
			flush()
			toks = append(toks, replToken{isGroup: true, group: idx, name: ref})
			i = end

		case next == 'n':
			flush()
			lit.WriteByte('\n')
			i++
		case next == 't':
			flush()
			lit.WriteByte('\t')
			i++
		case next == 'r':
			flush()
			lit.WriteByte('\r')
			i++
		case next == 'f':
			flush()
			lit.WriteByte('\f')
			i++
		case next == 'v':
			flush()
			lit.WriteByte('\v')
			i++
		case next == 'a':
			flush()
			lit.WriteByte('\a')
			i++
		case next == '\\':
			flush()
			lit.WriteByte('\\')
			i++

		default:
			// Unknown backslash sequence: preserved verbatim.
			lit.WriteRune('\\')
			lit.WriteRune(next)
			i++
		}
	}
	flush()
	return toks, nil
}

func (p *Pattern) resolveReplacementGroup(ref string) (int, error) {
	if ref == "" {
		return 0, fmt.Errorf("empty group reference")
	}
	if ref[0] >= '0' && ref[0] <= '9' {
		n, err := strconv.Atoi(ref)
		if err != nil || n < 0 || n >= p.NumGroups() {
			return 0, fmt.Errorf("invalid group reference \\g<%s>", ref)
		}
		return n, nil
	}
	idx, ok := p.GroupIndex(ref)
	if !ok {
		return 0, fmt.Errorf("unknown group name %q", ref)
	}
	return idx, nil
}

func expandReplacement(toks []replToken, m *matchresult.Match) (string, error) {
	var out strings.Builder
	for _, t := range toks {
		if !t.isGroup {
			out.WriteString(t.literal)
			continue
		}
		text, ok := m.Group(t.group)
		if !ok {
			return "", &MissingBackreferenceError{Group: t.name}
		}
		out.WriteString(text)
	}
	return out.String(), nil
}
