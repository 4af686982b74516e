// Package core provides the typed reactor model operated on by the global
// flux evaluation pipeline.
//
// This package contains the domain records that represent the entities in a
// reactor core model:
//
//   - Reactor: top-level state (cycle, time node, step lengths) owning a Core
//   - Core: geometry and symmetry descriptors, assemblies, derived summaries
//   - Assembly: an axial stack of blocks plus assembly-level aggregates
//   - Block: the unit of physics state (flux, power, reaction rates, dose)
//
// Unlike a dynamically keyed parameter store, every physics quantity is a
// named field on BlockParams, AssemblyParams, or CoreParams. The small set of
// parameters that external collaborators address by name (symmetry rescaling
// subsets) goes through ScalarParam accessors.
//
// The core package is designed to be:
//   - Type-safe: no stringly-typed parameter lookups in hot paths
//   - Cloneable: deep copies back the geometry transform pipeline
//   - Independent of solver and settings packages (pure domain state)
package core
