package domain

import "errors"

// Domain errors represent model and estimation failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidParameter indicates a hyperparameter outside its support
	// (non-positive alpha/beta/a/b) or a malformed observation sequence.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericDegeneracy indicates a degenerate draw, such as a precision
	// underflowing to zero and producing a non-positive standard deviation.
	ErrNumericDegeneracy = errors.New("numeric degeneracy")

	// ErrEmptyInput indicates the estimator was called on an empty
	// sample collection.
	ErrEmptyInput = errors.New("empty input")

	// ErrDivergenceUndefined indicates a KL term where the reference
	// probability is zero but the empirical probability is positive.
	ErrDivergenceUndefined = errors.New("divergence undefined")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")
)
