package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	NotificationCapacity int
	MySQLDSN             string
	SQLitePath           string
	ArchiveBuffer        int
	RabbitMQURL          string
	RabbitExchange       string
	RabbitQueue          string
	RabbitRoutingKey     string
	RabbitConsumerTag    string
	RabbitPublishPrefix  string
	JWTSecret            string
	SSEHeartbeat         time.Duration
	HistoryLimit         int
	OTELServiceName      string
	OTLPEndpoint         string
	OTLPInsecure         bool
	LogLevel             string
	LogFile              string
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:             ":8080",
		NotificationCapacity: 50,
		ArchiveBuffer:        64,
		SSEHeartbeat:         15 * time.Second,
		HistoryLimit:         20,
		RabbitExchange:       "notifications",
		RabbitQueue:          "notifications.registry",
		RabbitRoutingKey:     "notification.*",
		RabbitConsumerTag:    "registry-consumer",
		RabbitPublishPrefix:  "notification",
		OTELServiceName:      "devhub-notifications",
		OTLPInsecure:         true,
		LogLevel:             "info",
		LogFile:              "logs/app.log",
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
	cfg.SQLitePath = os.Getenv("SQLITE_PATH")
	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	if v := os.Getenv("RABBITMQ_EXCHANGE"); v != "" {
		cfg.RabbitExchange = v
	}
	if v := os.Getenv("RABBITMQ_QUEUE"); v != "" {
		cfg.RabbitQueue = v
	}
	if v := os.Getenv("RABBITMQ_ROUTING_KEY"); v != "" {
		cfg.RabbitRoutingKey = v
	}
	if v := os.Getenv("RABBITMQ_CONSUMER_TAG"); v != "" {
		cfg.RabbitConsumerTag = v
	}
	if v := os.Getenv("RABBITMQ_PUBLISH_PREFIX"); v != "" {
		cfg.RabbitPublishPrefix = v
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.OTELServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OTLPInsecure = b
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	if v := os.Getenv("SSE_HEARTBEAT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSEHeartbeat = time.Duration(n) * time.Second
		}
	}

	cfg.NotificationCapacity = positiveInt("NOTIFICATION_CAPACITY", cfg.NotificationCapacity)
	cfg.HistoryLimit = positiveInt("HISTORY_LIMIT", cfg.HistoryLimit)
	cfg.ArchiveBuffer = positiveInt("ARCHIVE_BUFFER", cfg.ArchiveBuffer)

	return cfg
}

func positiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
