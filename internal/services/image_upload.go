package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// 图片限制：只收 png/jpeg，最大 2MB
const MaxImageSize = 2 * 1024 * 1024

const imagePrefix = "/media/decisions/"

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// ImageStorage 决策配图的对象存储（MinIO / 任意 S3 兼容服务）。
// 对外只暴露相对 URL，Decision.image_url 存的就是这个字符串。
type ImageStorage struct {
	client *minio.Client
	bucket string
}

var (
	imageStorage *ImageStorage
	imageOnce    sync.Once
	imageErr     error
)

// GetImageStorage 获取单例存储客户端，未配置时返回错误而不是崩溃
func GetImageStorage() (*ImageStorage, error) {
	imageOnce.Do(func() {
		endpoint := os.Getenv("MINIO_ENDPOINT")
		if endpoint == "" {
			imageErr = fmt.Errorf("MINIO_ENDPOINT 未配置")
			return
		}
		bucket := os.Getenv("MINIO_BUCKET")
		if bucket == "" {
			bucket = "decisions"
		}
		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_USE_SSL") == "true",
		})
		if err != nil {
			imageErr = fmt.Errorf("连接对象存储失败: %w", err)
			return
		}
		imageStorage = &ImageStorage{client: client, bucket: bucket}
		log.Println("Object storage client ready")
	})
	return imageStorage, imageErr
}

// Upload 校验并保存上传的图片，返回相对 URL。
// 对象名用 uuid 生成，外部猜不到也不会撞名。
func (s *ImageStorage) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: 不支持的图片格式 %q", ErrValidation, contentType)
	}
	if header.Size > MaxImageSize {
		return "", fmt.Errorf("%w: 图片不能超过 2MB", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	objectName := uuid.New().String() + ext

	_, err := s.client.PutObject(ctx, s.bucket, objectName, file, header.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("保存图片失败: %w", err)
	}
	return imagePrefix + objectName, nil
}

// Fetch 按对象名取回图片，用于 /media/decisions/:name 的回源
func (s *ImageStorage) Fetch(ctx context.Context, name string) (io.ReadCloser, string, error) {
	// 防止 ../ 之类的对象名穿透
	if name != filepath.Base(name) {
		return nil, "", fmt.Errorf("%w: 非法的图片名", ErrValidation)
	}
	stat, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("%w: 图片不存在", ErrNotFound)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("读取图片失败: %w", err)
	}
	return obj, stat.ContentType, nil
}

// Remove 删除一个此前上传的对象，传入存库的相对 URL
func (s *ImageStorage) Remove(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, imagePrefix) {
		return nil
	}
	name := strings.TrimPrefix(url, imagePrefix)
	return s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
}
