// Package backup uploads zstd-compressed snapshots of the letters log
// to S3-compatible storage.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kjk/letterbox/atomicfile"
	"github.com/kjk/letterbox/letterstore"
	"github.com/kjk/letterbox/u"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const ext = ".csv.zst"

type Config struct {
	Access   string
	Secret   string
	Bucket   string
	Endpoint string
	Region   string
	// use http instead of https, for local minio
	Insecure     bool
	RequestTrace io.Writer
}

// ConfigFromEnv reads BACKUP_ACCESS, BACKUP_SECRET, BACKUP_BUCKET,
// BACKUP_ENDPOINT and BACKUP_REGION
func ConfigFromEnv() *Config {
	return &Config{
		Access:   os.Getenv("BACKUP_ACCESS"),
		Secret:   os.Getenv("BACKUP_SECRET"),
		Bucket:   os.Getenv("BACKUP_BUCKET"),
		Endpoint: os.Getenv("BACKUP_ENDPOINT"),
		Region:   os.Getenv("BACKUP_REGION"),
	}
}

func (c *Config) validate() error {
	if c == nil {
		return errors.New("must provide config")
	}
	var missing []string
	if c.Access == "" {
		missing = append(missing, "Access")
	}
	if c.Secret == "" {
		missing = append(missing, "Secret")
	}
	if c.Bucket == "" {
		missing = append(missing, "Bucket")
	}
	if c.Endpoint == "" {
		missing = append(missing, "Endpoint")
	}
	if len(missing) > 0 {
		return fmt.Errorf("backup config is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

type Client struct {
	Client *minio.Client
	Bucket string
}

// New creates a client and checks that the bucket exists
func New(ctx context.Context, config *Config) (*Client, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	c := config
	mc, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.Access, c.Secret, ""),
		Region: c.Region,
		Secure: !c.Insecure,
	})
	if err != nil {
		return nil, err
	}
	if c.RequestTrace != nil {
		mc.TraceOn(c.RequestTrace)
	}
	found, err := mc.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("bucket '%s' doesn't exist", c.Bucket)
	}
	return &Client{
		Client: mc,
		Bucket: c.Bucket,
	}, nil
}

// Dir returns the directory holding backups of app
func Dir(app string) string {
	return path.Join("apps", app, "backup")
}

// RemotePath returns e.g. apps/santa/backup/2024/12-01/letters-2024-12-01_10-30-00.csv.zst
func RemotePath(app string, t time.Time) string {
	t = t.UTC()
	name := "letters-" + t.Format("2006-01-02_15-04-05") + ext
	return path.Join(Dir(app), t.Format("2006"), t.Format("01-02"), name)
}

func Compress(d []byte) ([]byte, error) {
	return u.ZstdCompressData(d)
}

func Decompress(d []byte) ([]byte, error) {
	return u.ZstdDecompressData(d)
}

type UploadResult struct {
	RemotePath string
	// size of the snapshot before and after compression
	Size           int64
	CompressedSize int64
}

// Upload compresses a snapshot of store and uploads it
func (c *Client) Upload(ctx context.Context, store *letterstore.Store, app string, t time.Time) (*UploadResult, error) {
	var buf bytes.Buffer
	size, err := store.Snapshot(&buf)
	if err != nil {
		return nil, fmt.Errorf("store.Snapshot() failed: %w", err)
	}
	d, err := Compress(buf.Bytes())
	if err != nil {
		return nil, err
	}
	remotePath := RemotePath(app, t)
	opts := minio.PutObjectOptions{
		ContentType: u.MimeTypeFromFileName(remotePath),
	}
	_, err = c.Client.PutObject(ctx, c.Bucket, remotePath, bytes.NewReader(d), int64(len(d)), opts)
	if err != nil {
		return nil, fmt.Errorf("upload of '%s' failed: %w", remotePath, err)
	}
	res := &UploadResult{
		RemotePath:     remotePath,
		Size:           size,
		CompressedSize: int64(len(d)),
	}
	return res, nil
}

// List returns remote paths of backups of app, oldest first
func (c *Client) List(ctx context.Context, app string) ([]string, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    Dir(app) + "/",
		Recursive: true,
	}
	var res []string
	for oi := range c.Client.ListObjects(ctx, c.Bucket, opts) {
		if oi.Err != nil {
			return nil, oi.Err
		}
		if strings.HasSuffix(oi.Key, ext) {
			res = append(res, oi.Key)
		}
	}
	sort.Strings(res)
	return res, nil
}

// Restore downloads a backup and writes the decompressed log to dstPath.
// It refuses to overwrite an existing file.
func (c *Client) Restore(ctx context.Context, remotePath string, dstPath string) error {
	if u.FileExists(dstPath) {
		return fmt.Errorf("'%s': %w", dstPath, os.ErrExist)
	}
	obj, err := c.Client.GetObject(ctx, c.Bucket, remotePath, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()
	d, err := io.ReadAll(obj)
	if err != nil {
		return fmt.Errorf("download of '%s' failed: %w", remotePath, err)
	}
	d, err = Decompress(d)
	if err != nil {
		return fmt.Errorf("'%s' is not a valid backup: %w", remotePath, err)
	}
	if err = os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	return atomicfile.WriteNew(dstPath, d)
}
