package oss

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"ViewTube.com/config"
)

// NewMediaStore 创建 MinIO 客户端并确保存储桶存在。Endpoint 为空时返回 nil
func NewMediaStore(ctx context.Context, c config.Minio) (*MediaStore, error) {
	if c.Endpoint == "" {
		hlog.Warn("minio endpoint is empty, media cleanup is disabled")
		return nil, nil
	}

	hlog.Infof("Initializing MinIO client with endpoint: %s, accessKey: %s", c.Endpoint, c.AccessKey)
	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	// 检查存储桶是否存在，不存在则创建
	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %s", c.Bucket)
	}
	if !exists {
		if err = client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s", c.Bucket)
		}
	}

	hlog.Info("Connect Minio Success")
	return &MediaStore{client: client, bucket: c.Bucket, publicBaseURL: c.PublicBaseURL}, nil
}
