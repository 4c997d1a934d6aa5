// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/July173/autogestionFrontWeb-sub002/internal/config"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
)

var ErrBlobNotFound = errors.New("staged file not found")

// StorageService stages attachments between selection and submission. It
// writes to S3 when AWS credentials are configured and keeps blobs in memory
// otherwise.
type StorageService struct {
	s3Client s3iface.S3API
	bucket   string
	folder   string

	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		bucket: cfg.AWS.S3Bucket,
		folder: cfg.Storage.Folder,
		blobs:  make(map[string][]byte),
	}
	if cfg.AWS.AccessKeyID == "" {
		// Memory only for local development
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	s.s3Client = s3.New(sess)
	return s, nil
}

// NewS3StorageService builds a service on an existing S3 client.
func NewS3StorageService(client s3iface.S3API, bucket, folder string) *StorageService {
	return &StorageService{s3Client: client, bucket: bucket, folder: folder, blobs: make(map[string][]byte)}
}

// Stage checks the attachment constraint and stores the file. It returns the
// message key of a violated constraint, or the staged attachment.
func (s *StorageService) Stage(ctx context.Context, filename, contentType string, data []byte) (*models.Attachment, string, error) {
	if key := request.CheckPDF(contentType, int64(len(data)), data); key != "" {
		return nil, key, nil
	}

	ref := s.generateFileName(filename)
	if s.s3Client != nil {
		_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(ref),
			Body:          bytes.NewReader(data),
			ContentType:   aws.String(request.PDFMimeType),
			ContentLength: aws.Int64(int64(len(data))),
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to upload to S3: %w", err)
		}
	} else {
		s.mu.Lock()
		s.blobs[ref] = append([]byte(nil), data...)
		s.mu.Unlock()
	}

	return &models.Attachment{
		Ref:         ref,
		Filename:    filepath.Base(filename),
		Size:        int64(len(data)),
		ContentType: request.PDFMimeType,
	}, "", nil
}

// Open returns the content of a staged file.
func (s *StorageService) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if s.s3Client != nil {
		out, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(ref),
		})
		if err != nil {
			var aerr awserr.Error
			if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
				return nil, ErrBlobNotFound
			}
			return nil, fmt.Errorf("failed to read from S3: %w", err)
		}
		return out.Body, nil
	}

	s.mu.RLock()
	data, ok := s.blobs[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a staged file. Deleting a missing file is not an error.
func (s *StorageService) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if s.s3Client != nil {
		_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(ref),
		})
		if err != nil {
			return fmt.Errorf("failed to delete file from S3: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	delete(s.blobs, ref)
	s.mu.Unlock()
	return nil
}

// Discard deletes the blob of a discarded attachment, logging failures.
func (s *StorageService) Discard(ctx context.Context, att *models.Attachment) {
	if att == nil {
		return
	}
	if err := s.Delete(ctx, att.Ref); err != nil {
		logrus.WithError(err).WithField("ref", att.Ref).Warn("Failed to delete staged attachment")
	}
}

func (s *StorageService) generateFileName(originalName string) string {
	id := uuid.New()

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".pdf"
	}

	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String(), ext)

	if s.folder != "" {
		return fmt.Sprintf("%s/%s", s.folder, filename)
	}

	return filename
}
