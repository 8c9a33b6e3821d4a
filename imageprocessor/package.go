// Package imageprocessor loads images and turns them into perceptual fingerprints.
// It also measures the Hamming distance between two fingerprints.
package imageprocessor
