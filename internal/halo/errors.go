package halo

import "errors"

var (
	// ErrInvalidConfiguration rejects a non-positive grid size, extent or
	// timestep, or out-of-range Params. No state is created or changed.
	ErrInvalidConfiguration = errors.New("halo: invalid configuration")

	// ErrInvalidInjection rejects a profile with a non-positive amount or radius.
	ErrInvalidInjection = errors.New("halo: invalid injection")
)
