package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Otp      OtpConfig      `envPrefix:"OTP_"`
	SMTP     SMTPConfig     `envPrefix:"SMTP_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
}

type ServerConfig struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	CORSPattern string `env:"CORS_PATTERN" envDefault:".*"`
}

type DatabaseConfig struct {
	Hosts    []string `env:"HOSTS" envDefault:"localhost:27017"`
	Database string   `env:"DATABASE" envDefault:"client_portal"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	AuthDB   string   `env:"AUTH_DB" envDefault:"admin"`
	Direct   bool     `env:"DIRECT" envDefault:"true"`
}

type JWTConfig struct {
	Secret string        `env:"SECRET,required"`
	Expiry time.Duration `env:"EXPIRY" envDefault:"720h"`
}

type OtpConfig struct {
	Expiry time.Duration `env:"EXPIRY" envDefault:"10m"`
}

// SMTPConfig is the system mail transport, used when a tenant has no
// smtp_setting of its own.
type SMTPConfig struct {
	Host        string        `env:"HOST" envDefault:"localhost"`
	Port        int           `env:"PORT" envDefault:"587"`
	User        string        `env:"USER"`
	Pass        string        `env:"PASS"`
	From        string        `env:"FROM" envDefault:"no-reply@portal.local"`
	SendTimeout time.Duration `env:"SEND_TIMEOUT" envDefault:"10s"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"portal.notifications"`
	GroupID string   `env:"GROUP_ID" envDefault:"portal-api"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
