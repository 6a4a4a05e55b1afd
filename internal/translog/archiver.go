package translog

import (
	"context"
	"io"

	"github.com/dvc-advising/transferbot-go/internal/objstore"
)

// ArchiveUploader adapts an objstore.Client to the Archiver interface.
type ArchiveUploader struct {
	Client *objstore.Client
}

// Archive uploads one rotated transcript file.
func (u ArchiveUploader) Archive(ctx context.Context, key string, body io.Reader) error {
	_, err := u.Client.Upload(ctx, key, body, "application/gzip")
	return err
}
