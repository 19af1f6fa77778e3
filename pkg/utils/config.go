package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	AMQP      AMQPConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Driver   string // "postgres" or "memory"
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type AMQPConfig struct {
	URL   string
	Queue string
}

type SchedulerConfig struct {
	LockWaitSeconds   int
	ExpiryMarginSecs  int
	TicketSweepHour   int
	TicketSweepMinute int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("AMQP_QUEUE", "notification")
	viper.SetDefault("LOCK_WAIT_SECONDS", 20)
	viper.SetDefault("EXPIRY_MARGIN_SECONDS", 10)
	viper.SetDefault("TICKET_SWEEP_HOUR", 0)
	viper.SetDefault("TICKET_SWEEP_MINUTE", 0)

	if err := viper.ReadInConfig(); err != nil {
		// Missing .env is fine when everything comes from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		AMQP: AMQPConfig{
			URL:   viper.GetString("AMQP_URL"),
			Queue: viper.GetString("AMQP_QUEUE"),
		},
		Scheduler: SchedulerConfig{
			LockWaitSeconds:   viper.GetInt("LOCK_WAIT_SECONDS"),
			ExpiryMarginSecs:  viper.GetInt("EXPIRY_MARGIN_SECONDS"),
			TicketSweepHour:   viper.GetInt("TICKET_SWEEP_HOUR"),
			TicketSweepMinute: viper.GetInt("TICKET_SWEEP_MINUTE"),
		},
	}

	return config, nil
}
