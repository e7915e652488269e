// Package graphgen synthesises random complete directed graphs with integer
// capacities and serialises them to the plain-text format the max-flow
// solvers read:
//
//	<V>
//	<u> <v> <capacity>
//	...
//
// One line per ordered pair of distinct vertices, enumerated with u
// ascending and, for each u, v ascending. The package carries no global
// random state: every Generator draws from the *rand.Rand it was built with,
// so a seeded source reproduces a byte-identical file.
package graphgen
