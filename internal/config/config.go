package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Pyroscope  PyroscopeConfig  `mapstructure:"pyroscope"`
	Events     EventsConfig     `mapstructure:"events"`
	WhatsApp   WhatsAppConfig   `mapstructure:"whatsapp"`
	Reminders  RemindersConfig  `mapstructure:"reminders"`
	Billing    BillingConfig    `mapstructure:"billing"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string        `mapstructure:"host"`
	Port                   int           `mapstructure:"port"`
	User                   string        `mapstructure:"user"`
	Password               string        `mapstructure:"password"`
	DBName                 string        `mapstructure:"dbname"`
	SSLMode                string        `mapstructure:"sslmode"`
	MaxOpenConns           int           `mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns           int           `mapstructure:"max_idle_conns" default:"5"`
	ConnMaxLifetimeMinutes int           `mapstructure:"conn_max_lifetime_minutes" default:"60"`
	ConnectRetryMaxElapsed time.Duration `mapstructure:"connect_retry_max_elapsed" default:"30s"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" default:"10m"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	ServerAddress   string   `mapstructure:"server_address"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_pass"`
	ProfileTypes    []string `mapstructure:"profile_types"`
}

// EventsConfig configures the membership event bus
type EventsConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	Topic           string           `mapstructure:"topic" default:"membership_events"`
	PubSub          types.PubSubType `mapstructure:"pubsub" default:"memory"`
	MaxRetries      int              `mapstructure:"max_retries" default:"3"`
	InitialInterval time.Duration    `mapstructure:"initial_interval" default:"1s"`
	MaxInterval     time.Duration    `mapstructure:"max_interval" default:"10s"`
	Multiplier      float64          `mapstructure:"multiplier" default:"2.0"`
	MaxElapsedTime  time.Duration    `mapstructure:"max_elapsed_time" default:"2m"`
}

// WhatsAppConfig configures the WhatsApp Cloud API sender
type WhatsAppConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	BaseURL         string        `mapstructure:"base_url" default:"https://graph.facebook.com/v22.0"`
	Token           string        `mapstructure:"token"`
	PhoneNumberID   string        `mapstructure:"phone_number_id"`
	DefaultTemplate string        `mapstructure:"default_template" default:"hello_world"`
	DefaultLanguage string        `mapstructure:"default_language" default:"en_US"`
	ReceiptTemplate string        `mapstructure:"receipt_template"`
	Timeout         time.Duration `mapstructure:"timeout" default:"15s"`
	RetryMax        int           `mapstructure:"retry_max" default:"3"`
}

// RemindersConfig configures the monthly reminder batch
type RemindersConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	NotificationsDay int     `mapstructure:"notifications_day" default:"7" validate:"omitempty,min=1,max=31"`
	AutoHour         string  `mapstructure:"auto_hour" default:"09:00"`
	RatePerSecond    float64 `mapstructure:"rate_per_second" default:"3"`
	MaxConcurrency   int     `mapstructure:"max_concurrency" default:"4"`
	Schedule         string  `mapstructure:"schedule" default:"* * * * *"`
	Timezone         string  `mapstructure:"timezone" default:"America/Argentina/Cordoba"`
}

// BillingConfig holds the policy applied to tenants that have not stored their own
type BillingConfig struct {
	DueDay               int     `mapstructure:"due_day" default:"10"`
	WindowEndDay         int     `mapstructure:"window_end_day" default:"10"`
	YellowDaysAfterDue   int     `mapstructure:"yellow_days_after_due" default:"5"`
	GraceDaysAfterDue    int     `mapstructure:"grace_days_after_due" default:"0"`
	PriceBase            float64 `mapstructure:"price_base" default:"25000"`
	Currency             string  `mapstructure:"currency" default:"ARS"`
	NewMemberDiscountPct float64 `mapstructure:"new_member_discount_pct" default:"10"`
	FamilyDiscountPct    float64 `mapstructure:"family_discount_pct" default:"20"`
	MidMonthPolicy       string  `mapstructure:"mid_month_policy" default:"manual"`
	TrialCouponCode      string  `mapstructure:"trial_coupon_code" default:"TKDPRUEBA"`
	TrialDays            int     `mapstructure:"trial_days" default:"1"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only fills variables that are not already set
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dojocycle")

	v.SetEnvPrefix("DOJOCYCLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every default so that env-only deployments unmarshal complete sections
func setDefaults(v *viper.Viper) {
	def := GetDefaultConfig()

	v.SetDefault("deployment.mode", def.Deployment.Mode)
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetDefault("postgres.host", def.Postgres.Host)
	v.SetDefault("postgres.port", def.Postgres.Port)
	v.SetDefault("postgres.user", def.Postgres.User)
	v.SetDefault("postgres.password", def.Postgres.Password)
	v.SetDefault("postgres.dbname", def.Postgres.DBName)
	v.SetDefault("postgres.sslmode", def.Postgres.SSLMode)
	v.SetDefault("postgres.max_open_conns", def.Postgres.MaxOpenConns)
	v.SetDefault("postgres.max_idle_conns", def.Postgres.MaxIdleConns)
	v.SetDefault("postgres.conn_max_lifetime_minutes", def.Postgres.ConnMaxLifetimeMinutes)
	v.SetDefault("postgres.connect_retry_max_elapsed", def.Postgres.ConnectRetryMaxElapsed)

	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.ttl", def.Cache.TTL)

	v.SetDefault("sentry.enabled", def.Sentry.Enabled)
	v.SetDefault("sentry.environment", def.Sentry.Environment)
	v.SetDefault("sentry.sample_rate", def.Sentry.SampleRate)

	v.SetDefault("pyroscope.enabled", def.Pyroscope.Enabled)
	v.SetDefault("pyroscope.application_name", def.Pyroscope.ApplicationName)

	v.SetDefault("events.enabled", def.Events.Enabled)
	v.SetDefault("events.topic", def.Events.Topic)
	v.SetDefault("events.pubsub", def.Events.PubSub)
	v.SetDefault("events.max_retries", def.Events.MaxRetries)
	v.SetDefault("events.initial_interval", def.Events.InitialInterval)
	v.SetDefault("events.max_interval", def.Events.MaxInterval)
	v.SetDefault("events.multiplier", def.Events.Multiplier)
	v.SetDefault("events.max_elapsed_time", def.Events.MaxElapsedTime)

	v.SetDefault("whatsapp.base_url", def.WhatsApp.BaseURL)
	v.SetDefault("whatsapp.default_template", def.WhatsApp.DefaultTemplate)
	v.SetDefault("whatsapp.default_language", def.WhatsApp.DefaultLanguage)
	v.SetDefault("whatsapp.timeout", def.WhatsApp.Timeout)
	v.SetDefault("whatsapp.retry_max", def.WhatsApp.RetryMax)

	v.SetDefault("reminders.notifications_day", def.Reminders.NotificationsDay)
	v.SetDefault("reminders.auto_hour", def.Reminders.AutoHour)
	v.SetDefault("reminders.rate_per_second", def.Reminders.RatePerSecond)
	v.SetDefault("reminders.max_concurrency", def.Reminders.MaxConcurrency)
	v.SetDefault("reminders.schedule", def.Reminders.Schedule)
	v.SetDefault("reminders.timezone", def.Reminders.Timezone)

	v.SetDefault("billing.due_day", def.Billing.DueDay)
	v.SetDefault("billing.window_end_day", def.Billing.WindowEndDay)
	v.SetDefault("billing.yellow_days_after_due", def.Billing.YellowDaysAfterDue)
	v.SetDefault("billing.grace_days_after_due", def.Billing.GraceDaysAfterDue)
	v.SetDefault("billing.price_base", def.Billing.PriceBase)
	v.SetDefault("billing.currency", def.Billing.Currency)
	v.SetDefault("billing.new_member_discount_pct", def.Billing.NewMemberDiscountPct)
	v.SetDefault("billing.family_discount_pct", def.Billing.FamilyDiscountPct)
	v.SetDefault("billing.mid_month_policy", def.Billing.MidMonthPolicy)
	v.SetDefault("billing.trial_coupon_code", def.Billing.TrialCouponCode)
	v.SetDefault("billing.trial_days", def.Billing.TrialDays)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts, tests or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres: PostgresConfig{
			Host:                   "localhost",
			Port:                   5432,
			User:                   "dojocycle",
			Password:               "dojocycle",
			DBName:                 "dojocycle",
			SSLMode:                "disable",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 60,
			ConnectRetryMaxElapsed: 30 * time.Second,
		},
		Cache:     CacheConfig{Enabled: true, TTL: 10 * time.Minute},
		Sentry:    SentryConfig{Environment: "development", SampleRate: 1.0},
		Pyroscope: PyroscopeConfig{ApplicationName: "dojocycle"},
		Events: EventsConfig{
			Enabled:         true,
			Topic:           "membership_events",
			PubSub:          types.MemoryPubSub,
			MaxRetries:      3,
			InitialInterval: time.Second,
			MaxInterval:     10 * time.Second,
			Multiplier:      2.0,
			MaxElapsedTime:  2 * time.Minute,
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:         "https://graph.facebook.com/v22.0",
			DefaultTemplate: "hello_world",
			DefaultLanguage: "en_US",
			Timeout:         15 * time.Second,
			RetryMax:        3,
		},
		Reminders: RemindersConfig{
			NotificationsDay: 7,
			AutoHour:         "09:00",
			RatePerSecond:    3,
			MaxConcurrency:   4,
			Schedule:         "* * * * *",
			Timezone:         "America/Argentina/Cordoba",
		},
		Billing: BillingConfig{
			DueDay:               10,
			WindowEndDay:         10,
			YellowDaysAfterDue:   5,
			GraceDaysAfterDue:    0,
			PriceBase:            25000,
			Currency:             "ARS",
			NewMemberDiscountPct: 10,
			FamilyDiscountPct:    20,
			MidMonthPolicy:       "manual",
			TrialCouponCode:      "TKDPRUEBA",
			TrialDays:            1,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
