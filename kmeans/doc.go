// Package kmeans implements k-means clustering over values of any type.
//
// The caller supplies the geometry through a Space: a distance function, a
// mean operator and optionally an equality test. Centers are seeded with
// k-means++ and refined with Lloyd iterations until they stop changing or
// an iteration cap is reached.
//
// Used by the convolutional feature strategies to learn kernels from image
// patches, both for pixel grids and for bit sequences.
package kmeans
