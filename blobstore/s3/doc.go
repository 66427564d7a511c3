// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("mnist/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// Importing the package registers the "s3" URI scheme for blobstore.Open:
//
//	store, err := blobstore.Open(ctx, "s3://my-bucket/mnist?region=eu-west-1")
//
// Credentials come from the AWS default credential chain. The optional
// endpoint query parameter targets S3-compatible services with path-style
// addressing.
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Automatic pagination for listing
//   - Configurable prefix for dataset isolation
package s3
