// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.NewFromConfig(ctx, "my-bucket", "packs/",
//	    s3.WithRegion("eu-central-1"),
//	)
//	data, err := store.Get(ctx, "energy.json.zst")
//
// Puts go through the multipart upload manager, listing follows
// continuation tokens, and WithEndpoint targets S3-compatible services
// with path-style addressing.
package s3
