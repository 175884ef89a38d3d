package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"booking-service/config"
	"booking-service/data"
	"booking-service/handlers"
	"booking-service/notification"
	"booking-service/repository"
	"booking-service/services"
	"booking-service/voice"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	_ = godotenv.Load()
	cfg := config.GetConfig()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	lumberjackLog := &lumberjack.Logger{
		Filename:  "/booking-service/logs/logfile.log",
		MaxSize:   1,
		LocalTime: true,
	}
	logger.SetOutput(lumberjackLog)
	defer func() {
		if err := lumberjackLog.Close(); err != nil {
			logger.WithFields(logrus.Fields{"path": "booking/main"}).Error("Error closing log file:", err)
		}
	}()

	tracerProvider, err := newTracerProvider(cfg.ServiceName, cfg.JaegerAddress)
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "booking/main"}).Fatal("JaegerTraceProvider failed to Initialize", err)
	}
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))
	tracer := tracerProvider.Tracer(cfg.ServiceName)

	ctx := context.Background()

	mongoconn := options.Client().ApplyURI(cfg.MongoURI)
	mongoclient, err := mongo.Connect(ctx, mongoconn)
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "booking/main"}).Fatal(err)
	}
	defer mongoclient.Disconnect(ctx)
	if err := mongoclient.Ping(ctx, readpref.Primary()); err != nil {
		logger.WithFields(logrus.Fields{"path": "booking/main"}).Fatal(err)
	}

	propertyCollection := mongoclient.Database("booking").Collection("properties")
	propertyRepo := repository.NewPropertyRepo(propertyCollection, logger, tracer)
	if err := propertyRepo.Seed(ctx, data.SeedProperties()); err != nil {
		logger.WithFields(logrus.Fields{"path": "booking/main"}).Fatal(err)
	}

	reservationRepo, err := repository.New(logger, tracer)
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "booking/main"}).Fatal(err)
	}
	defer reservationRepo.CloseSession()
	reservationRepo.CreateTable()

	draftCache := repository.NewDraftCache(logger, tracer)
	draftCache.Ping()

	seed, err := loadSeedReservations(cfg.SeedFile)
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "booking/main"}).Fatal(err)
	}

	availabilityService := services.NewAvailabilityServiceImpl(reservationRepo, seed, logger, tracer)
	pricingService := services.NewPricingServiceImpl()

	parser := voice.NewParser(data.SeedProperties())

	send := notification.DeepLinkSend(cfg.DeepLinkBase, &http.Client{Timeout: 10 * time.Second})
	if cfg.DeepLinkBase == "" && cfg.SMTPHost != "" {
		send = notification.EmailSend(cfg.SMTPFrom, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	}
	dispatcher := notification.NewDispatcher(cfg.Recipients, send, 2*time.Second, logger)

	bookingService := services.NewBookingServiceImpl(
		propertyRepo, reservationRepo, availabilityService, pricingService,
		draftCache, parser, dispatcher, logger, tracer)

	bookingHandler := handlers.NewBookingHandler(bookingService, logger, tracer)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, propertyRepo, reservationRepo, logger, tracer)
	voiceHandler := handlers.NewVoiceHandler(logger, tracer)

	router := mux.NewRouter()
	router.Use(bookingHandler.MiddlewareContentTypeSet)

	router.HandleFunc("/api/booking/start", bookingHandler.StartSession).Methods(http.MethodPost)
	router.HandleFunc("/api/booking/{session}", bookingHandler.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/api/booking/{session}/intent", bookingHandler.ApplyIntent).Methods(http.MethodPost)
	router.HandleFunc("/api/booking/{session}/utterance", bookingHandler.ApplyUtterance).Methods(http.MethodPost)
	router.HandleFunc("/api/booking/{session}", bookingHandler.AbandonSession).Methods(http.MethodDelete)

	router.HandleFunc("/api/properties", availabilityHandler.GetProperties).Methods(http.MethodGet)
	router.HandleFunc("/api/availability/{propertyId}", availabilityHandler.GetCalendar).Methods(http.MethodGet)
	router.HandleFunc("/api/reservations/{propertyId}", availabilityHandler.GetReservations).Methods(http.MethodGet)

	router.HandleFunc("/api/voice/{session}/listening", voiceHandler.SetListening).Methods(http.MethodPost)
	router.HandleFunc("/api/voice/{session}/speaking", voiceHandler.SetSpeaking).Methods(http.MethodPost)
	router.HandleFunc("/api/voice/{session}", voiceHandler.GetState).Methods(http.MethodGet)

	headersOk := gorillaHandlers.AllowedHeaders([]string{"X-Requested-With", "Authorization", "Content-Type"})
	originsOk := gorillaHandlers.AllowedOrigins([]string{"*"})
	methodsOk := gorillaHandlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"})

	handlerForHttp := gorillaHandlers.CORS(originsOk, headersOk, methodsOk)(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlerForHttp,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"path": "booking/main"}).Info("Server listening on port ", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithFields(logrus.Fields{"path": "booking/main"}).Fatal(err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	sig := <-sigCh
	logger.WithFields(logrus.Fields{"path": "booking/main"}).Info("Received terminate, graceful shutdown ", sig)

	timeoutContext, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if server.Shutdown(timeoutContext) != nil {
		logger.WithFields(logrus.Fields{"path": "booking/main"}).Fatal("Cannot gracefully shutdown...")
	}
	logger.WithFields(logrus.Fields{"path": "booking/main"}).Info("Server stopped")
}

// loadSeedReservations reads the pre-existing reservation set merged
// into every availability read. No file means an empty seed.
func loadSeedReservations(path string) (data.Reservations, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var seed data.Reservations
	if err := seed.FromJSON(f); err != nil {
		return nil, err
	}
	return seed, nil
}

func newTracerProvider(serviceName, collectorEndpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(collectorEndpoint)))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)
	return tp, nil
}
