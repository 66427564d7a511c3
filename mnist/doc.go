// Package mnist reads and writes handwritten-digit datasets in the IDX format.
//
// An IDX label file holds a big-endian header (magic 0x00000801, count)
// followed by one byte per label. An image file holds (magic 0x00000803,
// count, rows, cols) followed by row-major pixels. Images must be square.
//
// Load pairs the two files of a dataset:
//
//	store, _ := blobstore.Open(ctx, "/data/mnist")
//	train, err := mnist.Load(ctx, store, "train")
//
// It looks for "<prefix>-images-idx3-ubyte" and "<prefix>-labels-idx1-ubyte"
// with an optional .gz, .zst or .lz4 extension and decompresses accordingly.
package mnist
