// Package minio provides a MinIO implementation of the modelstore.Store
// interface, usable with any S3-compatible object storage.
package minio
