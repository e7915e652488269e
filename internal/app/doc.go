// Package app wires configuration, logging and the benchmark pipeline
// together. It owns the run lifecycle: resolve the model, generate or reuse
// the corpus, execute the solvers and report a summary.
package app
