package service

import (
	"context"
	"fmt"
	"io"
	"major_compass_backend/internal/config"
	"major_compass_backend/internal/util"
	"major_compass_backend/pkg/logger"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageService 文件存储，支持本地磁盘与 MinIO 两种后端
type StorageService struct {
	cfg   config.StorageConfig
	minio *minio.Client
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	s := &StorageService{cfg: cfg}

	if cfg.Type == util.StorageMinio {
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init minio client: %w", err)
		}
		s.minio = client

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		exists, err := client.BucketExists(ctx, cfg.MinioBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check minio bucket: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create minio bucket: %w", err)
			}
			logger.Log.Info("Created minio bucket", zap.String("bucket", cfg.MinioBucket))
		}
	}

	return s, nil
}

// UploadAvatar 保存头像文件并返回可访问地址
func (s *StorageService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.New().String(), ext)

	if s.cfg.Type == util.StorageMinio {
		return s.uploadToMinio(ctx, objectName, file)
	}
	return s.uploadToLocal(objectName, file)
}

func (s *StorageService) uploadToMinio(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	_, err = s.minio.PutObject(ctx, s.cfg.MinioBucket, objectName, src, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	scheme := "http"
	if s.cfg.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinioEndpoint, s.cfg.MinioBucket, objectName), nil
}

func (s *StorageService) uploadToLocal(objectName string, file *multipart.FileHeader) (string, error) {
	dst := filepath.Join(s.cfg.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}

	return "/uploads/" + objectName, nil
}
