package domain

// WeightedSample is one particle's contribution to the posterior estimate:
// the summary statistic of a completed generative run (the number of
// distinct clusters used) together with the log-importance-weight the
// inference engine attached to that run.
//
// Samples are immutable. Their arrival order from the engine must be
// preserved: the convergence diagnostic operates on order-preserving
// prefixes of the sample sequence.
type WeightedSample struct {
	NumClusters int     `json:"num_clusters"`
	LogWeight   float64 `json:"log_weight"`
}

// DivergencePoint is one point on a convergence curve: the KL divergence
// of the estimate built from the first SampleCount samples.
type DivergencePoint struct {
	SampleCount int     `json:"sample_count"`
	Divergence  float64 `json:"divergence"`
}
