package initializers

import (
	s3client "estate-finance-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3() {
	err := s3client.Connect()
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}
