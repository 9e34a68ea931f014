package oss

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// MediaStore 管理视频、封面等媒体对象。上传不在本服务中完成，这里只负责删除视频后的清理
type MediaStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// ObjectName 把媒体地址还原成桶内的对象名，不是本系统托管的地址返回 false
func ObjectName(publicBaseURL, bucket, url string) (string, bool) {
	if url == "" || publicBaseURL == "" {
		return "", false
	}
	base := strings.TrimRight(publicBaseURL, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	name := strings.TrimPrefix(url, base)
	name = strings.TrimPrefix(name, bucket+"/")
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// RemoveMedia 删除给定地址对应的对象。对象不存在不算错误，返回第一个失败
func (m *MediaStore) RemoveMedia(ctx context.Context, urls []string) error {
	var firstErr error
	for _, url := range urls {
		name, ok := ObjectName(m.publicBaseURL, m.bucket, url)
		if !ok {
			hlog.CtxDebugf(ctx, "skip unmanaged media url: %s", url)
			continue
		}
		err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
		if err != nil {
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				continue
			}
			hlog.CtxErrorf(ctx, "Failed to delete %s: %v", name, err)
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "remove object %s", name)
			}
			continue
		}
		hlog.CtxInfof(ctx, "Removed media object %s/%s", m.bucket, name)
	}
	return firstErr
}
