// Package features turns digit images into representations a k-NN classifier can compare.
//
// Each strategy pairs a conversion with a distance:
//
//   - Baseline compares raw pixels.
//   - Pyramid compares every level of a repeatedly shrunken image.
//   - Descriptor (BRIEF) compares random pixel-pair intensity tests as bits.
//   - Patchify compares each pixel against its neighborhood as bits.
//   - BriefKernel learns binary kernels per image with k-means and projects through them.
//   - Convolutional learns pixel kernels from training patches and pools their responses.
//
// Strategies are configured through explicit parameters. Nothing is read
// from package-level state.
package features
