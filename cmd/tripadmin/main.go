package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"tripadmin/cfg"
	"tripadmin/internal/auth"
	"tripadmin/internal/booking"
	"tripadmin/internal/review"
	"tripadmin/pkg/bookingapi"
	"tripadmin/pkg/cache"
	"tripadmin/pkg/idgen"
	"tripadmin/pkg/logger"
	"tripadmin/pkg/session"
	"tripadmin/pkg/telemetry"
	"tripadmin/pkg/token"

	_ "tripadmin/cmd/tripadmin/docs" // swagger docs

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// @title           Trip Admin API
// @version         1.0
// @description     Role-scoped administration gateway for travel bookings and reviews.
// @BasePath        /
// @schemes         http
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// telemetry
	// ============
	if config.Observability.Enabled {
		shutdownOtel, err := telemetry.Init(context.Background(), &config.Observability)
		if err != nil {
			log.Fatalf("failed to initialize OpenTelemetry: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				log.Printf("failed to shutdown OpenTelemetry: %v", err)
			}
		}()
	}

	// ============
	// cache + sessions
	// ============
	redisAddr := config.RedisConfig.Host + ":" + config.RedisConfig.Port
	redis := cache.NewRedisCache(redisAddr, config.RedisConfig.Password)
	sessions := session.NewRedisStore(redis, config.AuthConfig.SessionTTLMinutes)

	// ============
	// external service
	// ============
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}
	upstream := bookingapi.NewClient(httpClient, config.BookingAPIConfig.BaseURL, zlogger)

	// ============
	// internal services
	// ============
	tokens := token.NewService(config.AuthConfig.JWTSecret)

	seqGen, err := idgen.NewSnowflakeGenerator(config.SnowflakeNodeID)
	if err != nil {
		log.Fatal(err)
	}

	bookingSvc := booking.NewService(upstream, redis, config.CacheTTLMinutes, seqGen, zlogger)
	bookingHandler := booking.NewBookingHandler(bookingSvc)

	reviewSvc := review.NewService(upstream, redis, config.CacheTTLMinutes, zlogger)
	reviewHandler := review.NewReviewHandler(reviewSvc)

	authHandler := auth.NewHandler(upstream, tokens, sessions, config.AuthConfig.LoginTimeoutSeconds, zlogger)
	authn := auth.Middleware(tokens)

	// ============
	// HTTP
	// ============
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(otelgin.Middleware(config.Observability.ServiceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(r)
	bookingHandler.RegisterRoutes(r, authn)
	reviewHandler.RegisterRoutes(r, authn)
	initSwagger(r)

	addr := fmt.Sprintf(":%s", config.AppPort)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
