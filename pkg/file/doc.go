// Package file stores generated artefacts (topic illustrations) behind a
// small Storage interface with local filesystem and S3 backends.
//
// Both backends accept a relative object path, refuse paths that escape the
// storage root, and can build a public URL for a stored object:
//
//	storage, err := file.NewLocalStorage("/var/standup/img", "/images/")
//	if err != nil {
//		return err
//	}
//	f, err := storage.Put(ctx, "2024/topic.png", body, "image/png")
//	if err != nil {
//		return err
//	}
//	link := storage.URL(f.Path) // "/images/2024/topic.png"
//
// S3Storage talks to AWS S3 or any S3-compatible service (MinIO, Wasabi)
// through aws-sdk-go-v2. Pass WithS3Client to plug in a mock in tests.
package file
