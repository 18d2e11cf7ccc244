package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"estate-finance-backend/config"
	apiv1 "estate-finance-backend/controllers/v1"
	"estate-finance-backend/controllers/v1/dict"
	webhooksapi "estate-finance-backend/controllers/v1/webhooks"
	"estate-finance-backend/fiberlog"
	"estate-finance-backend/initializers"
	"estate-finance-backend/middleware"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024 * 1024, // limit of 100MB
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	if config.Conf.App.ErrNotifyAddr != "" {
		apiV1.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyAddr))
	}
	apiv1.InitAuthApiRouters(apiV1)
	webhooksapi.InitPaymentWebhookApiRouters(apiV1)

	//основной контур, требует авторизации
	private := fiber.New()
	apiV1.Mount("/", private)
	private.Use(middleware.AuthorizationRequired())
	private.Use(middleware.SessionVersionCheck())
	private.Use(middleware.RbacMiddleware())
	apiv1.InitApplicationApiRouters(private)
	apiv1.InitReviewRequestApiRouters(private)
	apiv1.InitReviewCatalogApiRouters(private)
	apiv1.InitDipApiRouters(private)
	apiv1.InitLoanApiRouters(private)
	apiv1.InitRepaymentApiRouters(private)

	//dict
	dicts := fiber.New()
	private.Mount("/dict", dicts)
	dict.InitDeclineReasonDictApiRouters(dicts)

	app.Hooks().OnShutdown()

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
