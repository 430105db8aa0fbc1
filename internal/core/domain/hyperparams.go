package domain

import "fmt"

// Hyperparams holds the CRP concentration and the Normal-Gamma prior
// parameters shared by every cluster component.
//
// Alpha is the CRP concentration. Mu and Beta locate and scale the prior
// on a component mean; A and B are the shape and rate of the Gamma prior
// on a component precision.
type Hyperparams struct {
	Alpha float64 `json:"alpha" toml:"alpha"`
	Mu    float64 `json:"mu" toml:"mu"`
	Beta  float64 `json:"beta" toml:"beta"`
	A     float64 `json:"a" toml:"a"`
	B     float64 `json:"b" toml:"b"`
}

// Validate checks that every parameter lies inside its support.
// Mu is unconstrained; the rest must be strictly positive.
func (h Hyperparams) Validate() error {
	if !(h.Alpha > 0) {
		return fmt.Errorf("%w: alpha must be > 0, got %v", ErrInvalidParameter, h.Alpha)
	}
	if !(h.Beta > 0) {
		return fmt.Errorf("%w: beta must be > 0, got %v", ErrInvalidParameter, h.Beta)
	}
	if !(h.A > 0) {
		return fmt.Errorf("%w: a must be > 0, got %v", ErrInvalidParameter, h.A)
	}
	if !(h.B > 0) {
		return fmt.Errorf("%w: b must be > 0, got %v", ErrInvalidParameter, h.B)
	}
	return nil
}
