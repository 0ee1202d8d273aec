// Package analysis extracts orbital frequencies from sampled trajectories.
package analysis
