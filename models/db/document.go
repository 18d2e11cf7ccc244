package dbmodels

// Document - метаданные файла в S3 (оферты, документы покупателя)
type Document struct {
	BaseModel
	ApplicationID string `gorm:"type:varchar(36);index"`
	FileName      string `gorm:"type:varchar(255)"`
	ContentType   string `gorm:"type:varchar(100)"`
	BucketKey     string `gorm:"type:varchar(500)"`
	UploadedBy    string `gorm:"type:varchar(36)"`
}
