// Package minio provides a blobstore.Store implementation using the MinIO
// client.
//
// It works against MinIO and other S3-compatible systems (Ceph, Garage,
// SeaweedFS) without pulling in the AWS SDK at runtime.
//
//	store, err := minio.New("localhost:9000", "packs", "demo/",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	)
//	data, err := store.Get(ctx, "energy.json")
package minio
