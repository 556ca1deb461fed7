// Package s3 stores session state in Amazon S3 or any S3-compatible service
// such as MinIO.
//
// The whole cookie state lives in one object, so a run on another machine can
// reuse the same authenticated session:
//
//	cfg := s3.Config{
//		Bucket:         "replay-state",
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000",
//		ForcePathStyle: true,
//		KeyPrefix:      "chaoxing/sessions/",
//	}
//	store, err := s3.New(ctx, cfg, cfg.Key(username))
//
// Credentials fall back to the default AWS chain (env vars, shared config,
// IAM roles) when AccessKeyID and SecretKey are empty.
//
// SDK errors are classified: a missing object becomes session.ErrNotFound,
// other failures map to ErrAccessDenied, ErrBucketNotFound,
// ErrServiceUnavailable, ErrOperationTimeout or ErrOperationCanceled.
package s3
