// Package minio provides a blobstore.Store backed by the MinIO client.
//
// It works with MinIO and other S3-compatible storage (Ceph, Garage,
// SeaweedFS). Importing the package registers the "minio" URI scheme:
//
//	import _ "github.com/hupe1980/knnlab/blobstore/minio"
//
//	store, err := blobstore.Open(ctx, "minio://localhost:9000/datasets/mnist?secure=false")
//
// Credentials come from the URI user info, or else from MINIO_ACCESS_KEY and
// MINIO_SECRET_KEY.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "datasets", "mnist")
package minio
