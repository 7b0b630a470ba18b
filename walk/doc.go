// Package walk derives biased transition probabilities from co-occurrence
// counts and computes the stationary distribution of the resulting random
// walk.
//
// The walk is "biased" in that raw co-occurrence frequencies are reweighted
// before normalization: transitions into values that dominate their field are
// discounted, transitions into rare values are emphasized. Power iteration
// over the biased matrix then concentrates probability mass on the values a
// plain frequency count would treat as unremarkable hubs versus genuinely
// surprising ones.
//
// All arithmetic is plain float64. Zero-count pairs carry no probability
// mass; there is no smoothing.
package walk
