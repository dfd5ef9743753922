package opgraph

import "fmt"

// CompileError reports a malformed pattern, caught at compile time: an
// unclosed group, a trailing backslash, a bad repeat range, a forward
// backreference without strict-mode opt-in, and similar. It carries the
// original pattern text and the rune offset the parser had reached, the
// way the teacher's own nfa.CompileError pairs a pattern with its
// underlying cause (_examples/coregx-coregex/nfa/error.go).
type CompileError struct {
	Pattern string
	Offset  int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("opgraph: error parsing pattern %q at offset %d: %s", e.Pattern, e.Offset, e.Message)
}

// ConfigError reports an out-of-range Config field or an invalid
// combination of Flag bits.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "opgraph: invalid config field " + e.Field + ": " + e.Message
}

// UnsupportedError reports a pattern feature the chosen engine (or
// alphabet) cannot execute, such as a backreference under the hashing
// parallel engine or the on-the-fly DFA. A class the alphabet does not
// support is not reported this way: the engines evaluate the alphabet's
// predicate directly, and it returns false.
// EngineAuto catches this at match time and retries the same position on
// the backtracking engine, which has no such restrictions; any other
// explicit engine choice surfaces it to the caller.
type UnsupportedError struct {
	Feature string
	Engine  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("opgraph: %s is unsupported by the %s engine", e.Feature, e.Engine)
}

// EmptyRepeatError reports a Repeat whose body may match the empty string
// without Empty or Unsafe having been set, caught at compile time.
type EmptyRepeatError struct {
	Pattern string
	NodeID  int
}

func (e *EmptyRepeatError) Error() string {
	return fmt.Sprintf("opgraph: pattern %q: repeat node %d can match the empty string (set Empty or Unsafe)", e.Pattern, e.NodeID)
}

// GroupNamingError describes a duplicate or invalid group name. Compile
// does not return it: the parser reports such names, at compile time, as a
// *CompileError whose message names the group.
type GroupNamingError struct {
	Pattern string
	Name    string
	Message string
}

func (e *GroupNamingError) Error() string {
	return fmt.Sprintf("opgraph: pattern %q: group name %q: %s", e.Pattern, e.Name, e.Message)
}
