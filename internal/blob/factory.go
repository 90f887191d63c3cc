// Package blob selects a concrete blob store backend from the environment.
package blob

import (
	"context"
	"fmt"
	"os"

	"setcore/internal/blob/core"
	"setcore/internal/infra/blob/fs"
	"setcore/internal/infra/blob/memory"
	"setcore/internal/infra/blob/s3"
)

// Store is the backend abstraction consumed by the service layer.
type Store = core.Store

// Open selects a blob store implementation using environment variables.
//
//	SETCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	SETCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("SETCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(core.DriverFilesystem)
	}
	switch core.Driver(driver) {
	case core.DriverFilesystem:
		return fs.New(os.Getenv("SETCORE_BLOB_FS_ROOT"))
	case core.DriverS3:
		return s3.OpenFromEnv(ctx)
	case core.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
