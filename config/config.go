package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Auth.
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	JWTTTL             time.Duration `mapstructure:"JWT_TTL"`
	BillingAdminEmails string        `mapstructure:"BILLING_ADMIN_EMAILS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payments.
	PaymentProvider     string        `mapstructure:"PAYMENT_PROVIDER"`
	PaystackSecretKey   string        `mapstructure:"PAYSTACK_SECRET_KEY"`
	PaystackBaseURL     string        `mapstructure:"PAYSTACK_BASE_URL"`
	StripeSecretKey     string        `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string        `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeCurrency      string        `mapstructure:"STRIPE_CURRENCY"`
	PaymentHTTPTimeout  time.Duration `mapstructure:"PAYMENT_HTTP_TIMEOUT"`

	// Mail.
	SMTPHost     string        `mapstructure:"SMTP_HOST"`
	SMTPPort     int           `mapstructure:"SMTP_PORT"`
	SMTPUsername string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string        `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string        `mapstructure:"MAIL_FROM"`
	MailTimeout  time.Duration `mapstructure:"MAIL_TIMEOUT"`

	// Firebase push is enabled only when a credentials file is configured.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Billing rules.
	InvoiceDueDays     int `mapstructure:"INVOICE_DUE_DAYS"`
	EnrollmentTrackCap int `mapstructure:"ENROLLMENT_TRACK_CAP"`
}

// PaymentConfig is the subset handed to the payment gateway constructors.
type PaymentConfig struct {
	Provider            string
	PaystackSecretKey   string
	PaystackBaseURL     string
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string
	HTTPTimeout         time.Duration
}

// MailConfig is the subset handed to the SMTP sender.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// BillingConfig carries the invoice workflow rules.
type BillingConfig struct {
	DueDays  int
	TrackCap int
}

var AppConfig Config

// LoadConfig reads .env (if present), config.yaml and the environment into AppConfig.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return &AppConfig
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "gclient")

	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL", 24*time.Hour)
	viper.SetDefault("BILLING_ADMIN_EMAILS", "")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)

	viper.SetDefault("PAYMENT_PROVIDER", "paystack")
	viper.SetDefault("PAYSTACK_SECRET_KEY", "")
	viper.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("STRIPE_CURRENCY", "ghs")
	viper.SetDefault("PAYMENT_HTTP_TIMEOUT", 15*time.Second)

	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("MAIL_FROM", "")
	viper.SetDefault("MAIL_TIMEOUT", 10*time.Second)

	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

	viper.SetDefault("INVOICE_DUE_DAYS", 7)
	viper.SetDefault("ENROLLMENT_TRACK_CAP", 2)
}

// Payment returns the gateway configuration.
func (c *Config) Payment() PaymentConfig {
	return PaymentConfig{
		Provider:            strings.ToLower(strings.TrimSpace(c.PaymentProvider)),
		PaystackSecretKey:   c.PaystackSecretKey,
		PaystackBaseURL:     strings.TrimRight(c.PaystackBaseURL, "/"),
		StripeSecretKey:     c.StripeSecretKey,
		StripeWebhookSecret: c.StripeWebhookSecret,
		StripeCurrency:      c.StripeCurrency,
		HTTPTimeout:         c.PaymentHTTPTimeout,
	}
}

// Mail returns the SMTP configuration. MAIL_FROM falls back to the SMTP username.
func (c *Config) Mail() MailConfig {
	from := c.MailFrom
	if from == "" {
		from = c.SMTPUsername
	}
	return MailConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     from,
		Timeout:  c.MailTimeout,
	}
}

// Billing returns the invoice workflow rules.
func (c *Config) Billing() BillingConfig {
	return BillingConfig{
		DueDays:  c.InvoiceDueDays,
		TrackCap: c.EnrollmentTrackCap,
	}
}

// BillingAdmins returns the lower-cased allow-list of admins who may edit invoices.
func (c *Config) BillingAdmins() []string {
	var out []string
	for _, e := range strings.Split(c.BillingAdminEmails, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
