package pkg

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type OSSConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ObjectStore 附件对象存储。服务端只存路径，不落字节；
// 读取一律走限时签名 URL，发布前的房间附件不对外直出
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func NewObjectStore(cfg OSSConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *ObjectStore) Put(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// PresignGet 生成限时签名 URL
func (s *ObjectStore) PresignGet(ctx context.Context, objectPath string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// AttachmentObjectPath 房间/用户/时间派生的对象路径
func AttachmentObjectPath(roomID, userID uint64, now time.Time, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("rooms/%d/%d/%d-%s%s", roomID, userID, now.Unix(), uuid.NewString(), ext)
}
