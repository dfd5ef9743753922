package dfalazy

import "errors"

// ErrUnsupportedBackreference is returned when a live GroupReference is
// reached: a DFA state merges configurations by graph position and loop
// counters alone (that is what keeps the state count bounded), which
// throws away exactly the captured text a backreference needs to test.
var ErrUnsupportedBackreference = errors.New("dfalazy: backreferences are unsupported by the on-the-fly DFA engine")

// ErrCacheThrashing is returned when the state cache would have to be
// cleared more than Config.MaxCacheClears times in one run,
// signalling the caller should fall back to a different engine.
var ErrCacheThrashing = errors.New("dfalazy: state cache cleared too many times, pattern is too large for this engine")
