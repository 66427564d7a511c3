// Package knn implements a k-nearest-neighbor classifier over values of any type.
//
// The classifier stores labeled examples and votes among the k closest
// stored examples of a query under a caller-supplied distance function.
//
// # Tie-breaking
//
// Neighbors are ranked by distance, then by storage order, so that equal
// distances favor the example trained first. The vote returns the label
// with most neighbors; among tied labels the one whose nearest neighbor
// ranks first wins. Classification is therefore deterministic for a fixed
// training order.
//
// # Usage
//
//	clf, _ := knn.New(7, bitseq.Distance)
//	clf.Train(training)
//	cm, _ := clf.Test(ctx, testing)
//	fmt.Println(cm.ErrorRate())
package knn
