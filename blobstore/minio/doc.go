// Package minio stores candidate traces and replay reports in MinIO or any other
// S3-compatible object store (Ceph, Garage, SeaweedFS).
//
// # Basic Usage
//
//	client, err := minio.Dial(minio.Options{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minio.NewStore(client, "tracking", "traces/")
//	runner := replay.NewRunner(store, cfg)
//
// Uploads through Create stream with unknown size, so a replay report can be
// written while it is encoded.
package minio
