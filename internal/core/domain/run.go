package domain

// RunResult is the output of one generative run over the full observation
// sequence. Labels holds the realized cluster label of each observation in
// order; labels are positive integers numbered by first appearance, so
// Labels[0] is always 1. NumClusters counts the distinct labels used.
// LogLikelihood is the run's unnormalized total log-likelihood, which the
// inference engine combines into a particle weight.
type RunResult struct {
	Labels        []int   `json:"labels"`
	NumClusters   int     `json:"num_clusters"`
	LogLikelihood float64 `json:"log_likelihood"`
}
