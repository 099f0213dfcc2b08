// Package spectral integrates 2-D incompressible Navier–Stokes flow with
// Kolmogorov forcing on a doubly periodic box.
//
// The state is the vorticity ω on an Nx×Ny grid:
//
//	∂ω/∂t = -(u·∇)ω + ν∇²ω - μω + F,   F = -A k cos(k y)
//
// Derivatives are taken in Fourier space (go-dsp FFT2); the nonlinear term is
// dealiased with the 2/3 rule. Velocity follows from the streamfunction,
// ψ̂ = ω̂/|k|², u = ∂ψ/∂y, v = -∂ψ/∂x.
//
// [Solver] satisfies generators.Solver and is the default backend of the
// kolmogorov generator.
package spectral
