package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          string
	ServiceName   string
	JaegerAddress string
	MongoURI      string
	CassDB        string
	RedisHost     string
	RedisPort     string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	SMTPFrom      string

	// DeepLinkBase is the pre-addressed outbound channel; one deep link
	// is opened per recipient with the message as a query parameter.
	DeepLinkBase string
	Recipients   []string

	// SeedFile optionally points at a JSON list of reservations that
	// existed before the service started taking bookings.
	SeedFile string
}

func GetConfig() Config {
	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8080"
	}

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	var recipients []string
	for _, r := range strings.Split(os.Getenv("NOTIFY_RECIPIENTS"), ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}

	return Config{
		Port:          port,
		ServiceName:   "booking-service",
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),
		MongoURI:      os.Getenv("MONGO_DB_URI"),
		CassDB:        os.Getenv("CASS_DB"),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     os.Getenv("REDIS_PORT"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      smtpPort,
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
		DeepLinkBase:  os.Getenv("NOTIFY_DEEPLINK_BASE"),
		Recipients:    recipients,
		SeedFile:      os.Getenv("SEED_RESERVATIONS"),
	}
}
