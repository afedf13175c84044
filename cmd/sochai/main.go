package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sochai/sochai-web/app/controllers"
	"github.com/sochai/sochai-web/internal/pkg/apiclient"
	"github.com/sochai/sochai-web/internal/pkg/broadcast"
	"github.com/sochai/sochai-web/internal/pkg/cache"
	"github.com/sochai/sochai-web/internal/pkg/checkout"
	"github.com/sochai/sochai-web/internal/pkg/database"
	"github.com/sochai/sochai-web/internal/pkg/env"
	"github.com/sochai/sochai-web/internal/pkg/media"
	"github.com/sochai/sochai-web/internal/pkg/metrics/counter"
	"github.com/sochai/sochai-web/internal/pkg/middleware"
	"github.com/sochai/sochai-web/internal/pkg/oauth"
	"github.com/sochai/sochai-web/internal/pkg/reconcile"
	"github.com/sochai/sochai-web/internal/pkg/router"
	"github.com/sochai/sochai-web/internal/pkg/session"
	"github.com/sochai/sochai-web/internal/pkg/storage"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	cache.SetupCache()

	var ledger reconcile.Ledger = reconcile.NewMemoryLedger()
	if err := database.SetupDatabase(); err == nil {
		ledger = reconcile.NewStore(database.GetDB())
	}

	codec, err := session.NewCodecFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	session.NewServerStore()
	oauth.Setup()

	basePath := ""
	for _, path := range []string{"./", "../../", "../../../"} {
		if _, err := os.Stat(path + "public"); err == nil {
			basePath = path
			break
		}
	}

	api := apiclient.NewClientFromEnv()
	bus := broadcast.NewRedisBus(cache.GetClient())
	checkoutCfg := checkout.LoadConfig()
	ctrl := controllers.New(controllers.Deps{
		API:      api,
		Checkout: checkout.New(api, checkout.NewHTTPScriptLoader(checkoutCfg.ScriptURL), ledger, checkoutCfg),
		Media: media.NewUploader(func(ctx context.Context) (storage.ObjectStore, error) {
			cfg, err := storage.LoadConfig()
			if err != nil {
				return nil, err
			}
			client, err := storage.NewClient(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return client, nil
		}),
		Ledger:   ledger,
		Bus:      bus,
		Counters: counter.New(prometheus.DefaultRegisterer, cache.GetClient()),
	})

	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // five screenshots plus form overhead
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	metricsAuth := basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "change-me"),
		},
	})
	app.Get("/metrics", metricsAuth, monitor.New())
	app.Get("/metrics/prometheus", metricsAuth, adaptor.HTTPHandler(promhttp.Handler()))

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, ctrl, middleware.SessionConfig{
		Codec: codec,
		Bus:   bus,
		Cookies: session.CookieOptions{
			Secure: env.GetBool("COOKIE_SECURE", !env.IsDev()),
			Domain: env.GetEnv("COOKIE_DOMAIN", ""),
		},
	})

	return app
}
