package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration, read from the environment.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	Port             string        `envconfig:"APP_PORT" default:"8080"`
	BaseURL          string        `envconfig:"APP_BASE_URL" default:"http://localhost:8080"`
	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`

	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL        time.Duration `envconfig:"JWT_TTL" default:"24h"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionSecure bool          `envconfig:"SESSION_SECURE" default:"false"`

	ResetTokenTTL      time.Duration `envconfig:"RESET_TOKEN_TTL" default:"30m"`
	ResetPurgeInterval time.Duration `envconfig:"RESET_PURGE_INTERVAL" default:"15m"`

	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	MailFrom string `envconfig:"MAIL_FROM" default:"noreply@marketplace.local"`

	Twitter

	RabbitURL  string `envconfig:"RABBIT_URL"`
	MQExchange string `envconfig:"MQ_EXCHANGE" default:"marketplace.events"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"marketplace"`
}

// Twitter holds the optional OAuth1 credentials for store/product announcements.
type Twitter struct {
	ConsumerKey       string `envconfig:"TWITTER_CONSUMER_KEY"`
	ConsumerSecret    string `envconfig:"TWITTER_CONSUMER_SECRET"`
	AccessToken       string `envconfig:"TWITTER_ACCESS_TOKEN"`
	AccessTokenSecret string `envconfig:"TWITTER_ACCESS_TOKEN_SECRET"`
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using process environment")
	}
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
