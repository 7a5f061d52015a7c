package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sirupsen/logrus"
)

// LogUploader ships rotated log files to a bucket and removes the local copy
type LogUploader struct {
	client s3iface.S3API
	bucket string
	logger *logrus.Logger
	// active returns the file currently written by the logger; it is never uploaded
	active func() string
}

// NewLogUploader S3アップローダーを作成
func NewLogUploader(client s3iface.S3API, bucket string, logger *logrus.Logger, active func() string) *LogUploader {
	if active == nil {
		active = func() string { return "" }
	}
	return &LogUploader{
		client: client,
		bucket: bucket,
		logger: logger,
		active: active,
	}
}

// UploadLogFile ログファイルをS3にアップロード
func (u *LogUploader) UploadLogFile(ctx context.Context, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}
	defer file.Close()

	fileName := filepath.Base(filePath)
	objectKey := "logs/" + fileName

	_, err = u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String("text/plain"),
		Metadata: map[string]*string{
			"upload-time": aws.String(time.Now().Format(time.RFC3339)),
			"source":      aws.String("memo-api"),
		},
	})
	if err != nil {
		return fmt.Errorf("S3アップロードに失敗: %w", err)
	}

	u.logger.WithFields(logrus.Fields{
		"file":   fileName,
		"bucket": u.bucket,
		"key":    objectKey,
	}).Info("ログファイルをS3にアップロードしました")
	return nil
}

// UploadOldLogs uploads and deletes every .log file older than maxAge.
// It returns the number of files shipped.
func (u *LogUploader) UploadOldLogs(ctx context.Context, logDir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return 0, fmt.Errorf("ログディレクトリの読み取りに失敗: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	active := filepath.Base(u.active())
	uploaded := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") || entry.Name() == active {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ファイル情報の取得に失敗")
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		filePath := filepath.Join(logDir, entry.Name())
		if err := u.UploadLogFile(ctx, filePath); err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ログファイルのアップロードに失敗")
			continue
		}
		uploaded++

		if err := os.Remove(filePath); err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ローカルファイルの削除に失敗")
		}
	}

	return uploaded, nil
}

// Run uploads old logs every interval until ctx is cancelled
func (u *LogUploader) Run(ctx context.Context, logDir string, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	u.logger.WithFields(logrus.Fields{
		"interval": interval,
		"maxAge":   maxAge,
	}).Info("定期的なログアップロードを開始しました")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := u.UploadOldLogs(ctx, logDir, maxAge); err != nil {
				u.logger.WithError(err).Error("定期的なログアップロードに失敗")
			}
		}
	}
}
