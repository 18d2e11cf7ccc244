package filestorage

import (
	"bytes"
	"context"
	"estate-finance-backend/config"
	"estate-finance-backend/db"
	documentstore "estate-finance-backend/lib/file-storage/store"
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

type Provider interface {
	UploadDocument(ctx context.Context, applicationID, uploadedBy, fileName, contentType string, file []byte) (docID string, err error)
	GetDocument(ctx context.Context, docID string) (file []byte, rec *dbmodels.Document, err error)
	ListByApplication(applicationID string) (list []dbmodels.Document, err error)
	EnsureBucket(ctx context.Context) error
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
		docStore: documentstore.NewInstance(db.DB),
	}
}

type impl struct {
	s3client *minio.Client
	docStore documentstore.Provider
}

func (i impl) UploadDocument(ctx context.Context, applicationID, uploadedBy, fileName, contentType string, file []byte) (string, error) {
	rec := dbmodels.Document{
		ApplicationID: applicationID,
		FileName:      fileName,
		ContentType:   contentType,
		UploadedBy:    uploadedBy,
	}
	docID, err := i.docStore.Save(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения метаданных документа")
	}
	key := i.bucketKey(applicationID, docID)
	reader := bytes.NewReader(file)
	_, err = i.s3client.PutObject(ctx, config.Conf.S3.BucketName, key, reader, int64(len(file)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки документа в хранилище")
	}
	rec.ID = docID
	rec.BucketKey = key
	_, err = i.docStore.Save(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения ключа документа")
	}
	return docID, nil
}

func (i impl) GetDocument(ctx context.Context, docID string) ([]byte, *dbmodels.Document, error) {
	rec, err := i.docStore.GetByID(docID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения метаданных документа")
	}
	if rec == nil {
		return nil, nil, errors.Wrapf(models.ErrNotFound, "документ %v не найден", docID)
	}
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, rec.BucketKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения документа из хранилища")
	}
	defer object.Close()
	file, err := io.ReadAll(object)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка чтения документа из хранилища")
	}
	return file, rec, nil
}

func (i impl) ListByApplication(applicationID string) ([]dbmodels.Document, error) {
	return i.docStore.ListByApplication(applicationID)
}

func (i impl) EnsureBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: "us-east-1"})
}

func (i impl) bucketKey(applicationID, docID string) string {
	return fmt.Sprintf("%s/%s", applicationID, docID)
}
