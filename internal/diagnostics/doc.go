// Package diagnostics extracts radial quantities from a simulation's fields:
// the shell-averaged frozen density profile, the enclosed-mass rotation
// curve, an NFW reference for comparison, and a one-line run summary.
//
// All routines are read-only; they work on copies returned by the
// simulation's accessors and may be called between any two steps.
package diagnostics
