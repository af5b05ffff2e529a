// Package s3 provides an Amazon S3 implementation of setstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("subscribers/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	err = engine.Save(ctx, store, "daily/2026-10-19", blob)
//
// # Features
//
//   - One object per encoded set
//   - Multipart uploads for large sets (feature/s3/manager)
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - Custom endpoints with path-style addressing (LocalStack, Ceph RGW)
package s3
