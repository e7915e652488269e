package graphgen

import "errors"

var (
	// ErrTooFewVertices is returned when a graph is requested with V < 1.
	ErrTooFewVertices = errors.New("graphgen: vertex count must be at least 1")

	// ErrTooManyVertices is returned when V*(V-1) edges do not fit in an int.
	ErrTooManyVertices = errors.New("graphgen: vertex count too large")
	// ErrInvalidCapacityRange is returned for a range outside 1 <= min <= max.
	ErrInvalidCapacityRange = errors.New("graphgen: capacity range must satisfy 1 <= min <= max")

	// ErrNilSource is returned when a Generator is built without a random source.
	ErrNilSource = errors.New("graphgen: random source must not be nil")

	// ErrMalformed is returned by Read for input that is not a valid graph file.
	ErrMalformed = errors.New("graphgen: malformed graph file")
)
