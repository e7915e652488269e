// Package config defines the format-agnostic configuration model for a
// benchmark run, along with the Loader interface implemented by the HCL and
// YAML packages.
//
// A run is fully described by a Model: how many graphs to generate, their
// size and capacity range, where to write them, which solvers to execute and
// how to treat solver failures. Every source of configuration (files, CLI
// flags) is expressed as a Patch applied on top of Default().
package config
