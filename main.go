package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/WeOneApp/wardsponsor/app/controllers"
	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/cache"
	"github.com/WeOneApp/wardsponsor/internal/pkg/checkout"
	"github.com/WeOneApp/wardsponsor/internal/pkg/database"
	"github.com/WeOneApp/wardsponsor/internal/pkg/env"
	"github.com/WeOneApp/wardsponsor/internal/pkg/jobqueue"
	"github.com/WeOneApp/wardsponsor/internal/pkg/mail"
	"github.com/WeOneApp/wardsponsor/internal/pkg/payment"
	"github.com/WeOneApp/wardsponsor/internal/pkg/router"
)

func main() {
	app := NewApplication()

	// Stop background workers cleanly on shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		jobqueue.GetManager().Stop()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// Receipts go through the background queue; the queue hands delivery to
	// the SMTP mailer.
	checkoutService := checkout.NewService(database.GetDB(), payment.NewRazorpayClientFromEnv(), jobqueue.NewQueuedReceiptSender())
	controllers.SetCheckoutService(checkoutService)

	jobqueue.SetExpiryRunner(checkoutService)
	jobqueue.SetReceiptRunner(mail.NewReceiptMailer())
	jobqueue.GetManager().Start()

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
