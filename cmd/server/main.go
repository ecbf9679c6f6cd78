package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/flowstate-hq/booking-api/internal/booking"
	"github.com/flowstate-hq/booking-api/internal/config"
	"github.com/flowstate-hq/booking-api/internal/database"
	"github.com/flowstate-hq/booking-api/internal/handler"
	"github.com/flowstate-hq/booking-api/internal/mailer"
	"github.com/flowstate-hq/booking-api/internal/payment"
	"github.com/flowstate-hq/booking-api/internal/queue"
	"github.com/flowstate-hq/booking-api/internal/repository"
	"github.com/flowstate-hq/booking-api/internal/router"
)

func main() {
	// .env is a development convenience; in production the variables
	// come from the environment and the file is absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient() // nil when Redis is not configured

	eventRepo := repository.NewEventRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	cafeRepo := repository.NewCafeRepo(db)

	gateway, err := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	if err != nil {
		log.Fatalf("payment: %v", err)
	}
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword, cfg.EmailFrom)
	publisher := queue.NewPublisher()

	bookingSvc := booking.NewService(eventRepo, bookingRepo, gateway, mail, publisher)

	// Background consumers: the audit log writer and the email
	// redelivery worker.  Each maintains its own connection with
	// reconnect-and-backoff, so a broker outage degrades rather than
	// crashes the server.
	go func() {
		if err := queue.StartBookingConsumer(publisher.URL); err != nil {
			log.Printf("rabbitmq: booking consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartNotificationConsumer(publisher.URL, mail, publisher); err != nil {
			log.Printf("rabbitmq: notification consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e,
		&handler.PublicHandler{EventRepo: eventRepo, BookingRepo: bookingRepo},
		&handler.PaymentHandler{Gateway: gateway, KeyID: gateway.KeyID, Booking: bookingSvc},
		rdb)
	router.RegisterAdmin(e,
		&handler.AdminAuthHandler{SessionSecret: cfg.SessionSecret, AdminPasswordHash: cfg.AdminPasswordHash},
		&handler.AdminEventHandler{EventRepo: eventRepo, BookingRepo: bookingRepo, CafeRepo: cafeRepo},
		&handler.AdminBookingHandler{BookingRepo: bookingRepo},
		&handler.AdminCafeHandler{CafeRepo: cafeRepo},
		cfg.SessionSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
