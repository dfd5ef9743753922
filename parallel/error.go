package parallel

import "errors"

// ErrUnsupportedBackreference is returned synchronously when a pattern
// containing a live GroupReference is run under a Hashing configuration:
// the hashing key deliberately excludes capture state, so two threads at
// the same node with different captured text would be wrongly merged.
var ErrUnsupportedBackreference = errors.New("parallel: backreferences are unsupported under the hashing configuration")

// ErrBeamExhausted is returned when ModeBeam exceeds MaxBeamDoublings
// without finding a match or exhausting the input.
var ErrBeamExhausted = errors.New("parallel: beam width exceeded MaxBeamDoublings without converging")
