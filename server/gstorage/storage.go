package gstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Daskott/soilsense/server/logger"
	"google.golang.org/api/option"
)

const TRANSFER_TIMEOUT = 50 * time.Second

var (
	ErrObjectNotExist = storage.ErrObjectNotExist

	logg = logger.NewLogger()
)

type GStorage struct {
	storageClient *storage.Client
	bucket        string
	prefix        string
}

// NewGStorage returns a client for objects under 'prefix' in 'bucket'.
// Application default credentials are used when 'credentialsFilePath' is empty.
func NewGStorage(ctx context.Context, credentialsFilePath, bucket, prefix string) (*GStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFilePath != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFilePath))
	} else {
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("NewGStorage: %v", err)
	}

	return &GStorage{storageClient: client, bucket: bucket, prefix: prefix}, nil
}

// UploadFile uploads the file in 'filePath' as '<prefix>/<file name>'
func (gs *GStorage) UploadFile(ctx context.Context, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("os.Open: %v", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, TRANSFER_TIMEOUT)
	defer cancel()

	objectName := ObjectName(gs.prefix, filePath)
	wc := gs.storageClient.Bucket(gs.bucket).Object(objectName).NewWriter(ctx)
	if _, err = io.Copy(wc, f); err != nil {
		wc.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %v", err)
	}

	logg.Infof("Blob %v uploaded to bucket %v", objectName, gs.bucket)
	return nil
}

// DownloadFile downloads '<prefix>/<file name of destFilePath>' into 'destFilePath'.
// Returns ErrObjectNotExist when there's nothing to download.
func (gs *GStorage) DownloadFile(ctx context.Context, destFilePath string) error {
	ctx, cancel := context.WithTimeout(ctx, TRANSFER_TIMEOUT)
	defer cancel()

	objectName := ObjectName(gs.prefix, destFilePath)
	rc, err := gs.storageClient.Bucket(gs.bucket).Object(objectName).NewReader(ctx)
	if err == storage.ErrObjectNotExist {
		return err
	}
	if err != nil {
		return fmt.Errorf("Object(%q).NewReader: %v", objectName, err)
	}
	defer rc.Close()

	f, err := os.OpenFile(destFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %v", err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("f.Close: %v", err)
	}

	logg.Infof("Blob %v downloaded to local file %v", objectName, destFilePath)
	return nil
}

func (gs *GStorage) Close() error {
	return gs.storageClient.Close()
}

// ObjectName returns the bucket object name used for 'filePath'
func ObjectName(prefix, filePath string) string {
	return path.Join(prefix, filepath.Base(filePath))
}
