package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicURL     string
	SMTPHost        string
	SMTPPort        int
	SMTPEmail       string
	SMTPPassword    string
	JaegerAddress   string
	LogFilePath     string
	AllowedOrigins  []string
	CasbinModelPath string
	CasbinPolicy    string
}

func NewConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "3000"),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017/"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "airbnb"),
		S3Bucket:        getEnv("S3_BUCKET", "airbnb"),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		SMTPEmail:       os.Getenv("SMTP_AUTH_MAIL"),
		SMTPPassword:    os.Getenv("SMTP_AUTH_PASSWORD"),
		JaegerAddress:   os.Getenv("JAEGER_ADDRESS"),
		LogFilePath:     os.Getenv("LOG_FILE_PATH"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
		CasbinModelPath: getEnv("CASBIN_MODEL", "./rbac_model.conf"),
		CasbinPolicy:    getEnv("CASBIN_POLICY", "./policy.csv"),
	}
}

// Validate reports the first setting the server cannot start without.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI cannot be empty")
	}
	if c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET cannot be empty")
	}
	return nil
}

// MailEnabled is false when no SMTP sender is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPEmail != ""
}

// ImagePublicURL is the base of the URLs handed out for uploaded pictures.
func (c *Config) ImagePublicURL() string {
	if c.S3PublicURL != "" {
		return strings.TrimRight(c.S3PublicURL, "/")
	}
	if c.S3Endpoint != "" {
		return strings.TrimRight(c.S3Endpoint, "/") + "/" + c.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.S3Bucket, c.S3Region)
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)
	if exists {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
