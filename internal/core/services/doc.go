// Package services implements the driving port interfaces.
// Services contain the model and estimation logic and orchestrate
// calls to driven ports (adapters).
//
// The generative side (partition process, cluster components, generative
// model, reference sampler) draws from gonum's distuv distributions using
// explicitly threaded rand sources; the estimation side (weighted
// empirical estimator, convergence diagnostic) is pure.
package services
