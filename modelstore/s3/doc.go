// Package s3 provides an Amazon S3 implementation of the modelstore.Store
// interface, with range reads for partial access and managed multipart
// uploads for streaming writes.
package s3
