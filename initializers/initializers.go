package initializers

import (
	"context"
	"time"

	"estate-finance-backend/config"
	"estate-finance-backend/fiberlog"
	applicationhandler "estate-finance-backend/lib/application"
	applicationlifecycle "estate-finance-backend/lib/application/lifecycle"
	diphandler "estate-finance-backend/lib/dip"
	dipworker "estate-finance-backend/lib/dip/worker"
	xlsexport "estate-finance-backend/lib/export/xls"
	filestorage "estate-finance-backend/lib/file-storage"
	loanhandler "estate-finance-backend/lib/loan"
	loanworker "estate-finance-backend/lib/loan/worker"
	notifyhandler "estate-finance-backend/lib/notify"
	offerletterhandler "estate-finance-backend/lib/offer-letter"
	authhandler "estate-finance-backend/lib/organization/auth"
	"estate-finance-backend/lib/rbac"
	repaymenthandler "estate-finance-backend/lib/repayment"
	repaymentworker "estate-finance-backend/lib/repayment/worker"
	reviewcataloghandler "estate-finance-backend/lib/review-catalog"
	reviewrequesthandler "estate-finance-backend/lib/review-request"
	s3client "estate-finance-backend/s3"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	filestorage.NewInstance(s3client.Client)
	if err := filestorage.Instance.EnsureBucket(ctx); err != nil {
		log.WithError(err).Error("ошибка подготовки бакета для документов")
	}
	xlsexport.NewHandler()
	notifyhandler.NewHandler(config.Conf.Smtp.Sender)
	reviewcataloghandler.NewHandler()
	applicationlifecycle.NewHandler()
	reviewrequesthandler.NewHandler()
	offerletterhandler.NewHandler()
	applicationhandler.NewHandler()
	diphandler.NewHandler()
	loanhandler.NewHandler()
	repaymenthandler.NewHandler()
	authhandler.NewHandler()
	rbac.NewHandler()
	if *config.Conf.Workers.Enabled {
		go initWorkers(ctx)
	}
}

// запускаем с промежутком в 10 сек чтоб размыть нагрузку
func initWorkers(ctx context.Context) {
	// Задача генерации предварительных решений
	dipworker.StartWorker(ctx)

	if makeTimeGap(ctx) {
		// Задача формирования кредитных предложений и графиков платежей
		loanworker.StartWorker(ctx)
	}
	if makeTimeGap(ctx) {
		// Задача смены статусов платежей по сроку оплаты
		repaymentworker.StartWorker(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
