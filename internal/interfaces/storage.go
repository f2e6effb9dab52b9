package interfaces

import "context"

// FileStore persists uploaded attachment bytes and returns the
// web-relative path where the file is served from.
type FileStore interface {
	SaveFile(ctx context.Context, folder, filename string, data []byte) (string, error)
}
