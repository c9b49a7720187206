package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/medstore-backend/internal/cfg"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImportFileRepo архивирует исходные CSV-файлы импорта в MinIO.
type ImportFileRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImportFileRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImportFileRepo {
	return &ImportFileRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Archive сохраняет файл импорта и возвращает ключ объекта.
func (i *ImportFileRepo) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	reader := bytes.NewReader(data)

	info, err := i.mc.PutObject(ctx, i.cfg.BucketName, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}
