package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/sirupsen/logrus"
)

// UploadPrefix is the public path prefix of every stored upload
const UploadPrefix = "uploads"

// ErrFileTooLarge is returned when an upload exceeds the configured size limit
var ErrFileTooLarge = errors.New("file too large")

// UploadStore persists one uploaded file and returns its stored path
type UploadStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// objectName builds "<unix-millis>-<basename>" for an uploaded file
func objectName(now time.Time, originalName string) string {
	base := originalName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if base == "" || base == "." || base == ".." {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

// LocalUploadStore writes uploads into a directory served under /uploads
type LocalUploadStore struct {
	dir    string
	now    func() time.Time
	logger *logrus.Logger
}

// NewLocalUploadStore creates the upload directory if needed
func NewLocalUploadStore(dir string, logger *logrus.Logger) (*LocalUploadStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("アップロードディレクトリの作成に失敗: %w", err)
	}
	return &LocalUploadStore{dir: dir, now: time.Now, logger: logger}, nil
}

// Dir returns the directory uploads are written to
func (s *LocalUploadStore) Dir() string {
	return s.dir
}

func (s *LocalUploadStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := objectName(s.now(), originalName)
	file, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}

	stored := path.Join(UploadPrefix, name)
	s.logger.WithFields(logrus.Fields{
		"original_name": originalName,
		"stored_path":   stored,
	}).Debug("ファイルを保存しました")
	return stored, nil
}

// S3UploadStore streams uploads into a bucket with the same key layout as the local store
type S3UploadStore struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	now      func() time.Time
	logger   *logrus.Logger
}

// NewS3UploadStore creates an S3 backed upload store
func NewS3UploadStore(uploader s3manageriface.UploaderAPI, bucket string, logger *logrus.Logger) *S3UploadStore {
	return &S3UploadStore{uploader: uploader, bucket: bucket, now: time.Now, logger: logger}
}

func (s *S3UploadStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	key := path.Join(UploadPrefix, objectName(s.now(), originalName))

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
		Metadata: map[string]*string{
			"original-name": aws.String(originalName),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"key":    key,
	}).Debug("ファイルをS3に保存しました")
	return key, nil
}

// LimitReader returns a reader that fails with ErrFileTooLarge once more than max bytes are read
func LimitReader(r io.Reader, max int64) io.Reader {
	return &limitedReader{r: r, remaining: max}
}

type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
