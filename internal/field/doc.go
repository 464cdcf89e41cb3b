// Package field provides the fixed square lattice the halo simulation runs on.
//
//   - [Grid]: lattice size, physical extent and coordinate-to-index mapping
//   - [Field]: an N×N scalar quantity stored row-major (index y*N + x)
//   - [Gradient]: central finite differences with a configurable [EdgePolicy]
//
// Fields are values wrapping a shared backing slice. Copying a Field does not
// copy its data; use [Field.Clone] for an independent copy.
package field
