// Package field provides the array types shared by every stage of flow
// synthesis.
//
// A [Field] is a dense time series of grid samples indexed (t, x, y):
//
//   - [Field]: scalar samples, row-major, shape (T, Nx, Ny)
//   - [Pair]: co-registered (u, v) components of a vector field
//   - [ComplexField]: complex encoding of a vector field
//   - [Shape]: dimensions used for shape checks and error reporting
//
// # Example
//
//	u := field.New(10, 64, 32)
//	u.Set(0, 3, 4, 1.5)
//	pair, err := field.NewPair(u, v)
//
// # Thread Safety
//
// Fields are plain values. Writers must own disjoint time slices; every
// generator and transform in this module allocates a fresh output and fills
// slices in parallel with [ParallelFor].
package field
