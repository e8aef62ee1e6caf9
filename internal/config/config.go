package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Order    OrderConfig
	Notify   NotifyConfig
	Payment  PaymentConfig
	Outbox   OutboxConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type OrderConfig struct {
	TaxRate     float64
	SagaLogPath string
}

type NotifyConfig struct {
	// Mode selects the transport: "sandbox" logs messages, "production"
	// delivers them over SMTP.
	Mode         string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	From         string
}

type PaymentConfig struct {
	GatewayURL string
	Timeout    time.Duration
}

type OutboxConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "telar")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "telar")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ORDER_TAX_RATE", 0.18)
	viper.SetDefault("ORDER_SAGA_LOG_PATH", "saga.db")
	viper.SetDefault("NOTIFY_MODE", "sandbox")
	viper.SetDefault("NOTIFY_SMTP_HOST", "localhost")
	viper.SetDefault("NOTIFY_SMTP_PORT", 587)
	viper.SetDefault("NOTIFY_SMTP_USER", "")
	viper.SetDefault("NOTIFY_SMTP_PASSWORD", "")
	viper.SetDefault("NOTIFY_FROM", "pedidos@telar.local")
	viper.SetDefault("PAYMENT_GATEWAY_URL", "http://localhost:9090/charges")
	viper.SetDefault("PAYMENT_TIMEOUT", "10s")
	viper.SetDefault("OUTBOX_POLL_INTERVAL", "5s")
	viper.SetDefault("OUTBOX_MAX_ATTEMPTS", 5)

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	paymentTimeout, err := time.ParseDuration(viper.GetString("PAYMENT_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	pollInterval, err := time.ParseDuration(viper.GetString("OUTBOX_POLL_INTERVAL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Order: OrderConfig{
			TaxRate:     viper.GetFloat64("ORDER_TAX_RATE"),
			SagaLogPath: viper.GetString("ORDER_SAGA_LOG_PATH"),
		},
		Notify: NotifyConfig{
			Mode:         viper.GetString("NOTIFY_MODE"),
			SMTPHost:     viper.GetString("NOTIFY_SMTP_HOST"),
			SMTPPort:     viper.GetInt("NOTIFY_SMTP_PORT"),
			SMTPUser:     viper.GetString("NOTIFY_SMTP_USER"),
			SMTPPassword: viper.GetString("NOTIFY_SMTP_PASSWORD"),
			From:         viper.GetString("NOTIFY_FROM"),
		},
		Payment: PaymentConfig{
			GatewayURL: viper.GetString("PAYMENT_GATEWAY_URL"),
			Timeout:    paymentTimeout,
		},
		Outbox: OutboxConfig{
			PollInterval: pollInterval,
			MaxAttempts:  viper.GetInt("OUTBOX_MAX_ATTEMPTS"),
		},
	}

	return cfg, nil
}
