// Package s3 stores candidate traces and replay reports in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "tracking-traces",
//	    s3.WithPrefix("replay/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// Reads are ranged GETs. Create streams through the multipart uploader, Put
// sends one request with a CRC32C checksum, and List follows pagination.
// Any type satisfying Client can stand in for *s3.Client.
package s3
