// Package generators synthesizes time series of flow fields on a regular grid.
//
// Each generator implements [Generator]:
//
//   - [GaussianBlob]: scalar blob travelling diagonally across the domain
//   - [MovingVortex]: Lamb–Oseen vortex orbiting the domain centre
//   - [DoubleGyre]: periodically perturbed double gyre
//   - [Kolmogorov]: forced turbulence delegated to a [Solver], optionally cached
//
// The analytic generators are pure: identical arguments yield bit-identical
// fields. Outputs always have shape (n, grid.Nx, grid.Ny).
//
//	g := generators.NewDoubleGyre()
//	pair, err := g.Generate(ctx, 50, grid.New(100, 50, 2, 1))
package generators
