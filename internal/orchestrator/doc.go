// Package orchestrator drives one global flux evaluation end to end.
//
// The Executer is a short-lived object coordinating the prep, execution, and
// processing of a flux solve. It follows a strict state machine:
//
//	Idle → Transformed → Solved → Idle
//
// The flow within one Run:
//
//  1. Transform
//     - Apply the geometry transform pipeline (axial mesh, edge assemblies)
//     - Switch the working model to the converted copy if one was built
//
//  2. Solve
//     - Invoke the external kernel on the working model
//     - A kernel failure is fatal to the run; there is no retry, since a
//       flux solve is expensive and stateful and a silent retry would risk
//       masking physical-model bugs
//
//  3. Map
//     - Renormalize flux to the specified core power when one is set
//     - Compute one-group reaction rates per block
//     - Refresh derived and assembly-level parameters
//     - Check the energy balance
//     - Refresh dpa rates when dose options are configured
//
//  4. Restore
//     - Undo the transforms in reverse order; commit or discard the
//       converted state depending on ApplyResultsToReactor
//     - The pipeline registry ends empty regardless, so a repeated restore
//       is a no-op and the next Run is well-formed
//
// Re-entrant Run calls are safe only after the prior call completed its full
// cycle; the pipeline's idempotency guard enforces this.
package orchestrator
