package config

import (
	"os"
	"strings"
)

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	PostgresConnStr         string
	FirebaseCredentialsPath string
	AWSRegion               string
	MailFrom                string
	MailFromName            string
	SummaryRecipientsProd   string
	SummaryRecipientsDev    string
	JWTSecret               string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGO_URI", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		AWSRegion:               getEnv("AWS_REGION", "us-west-2"),
		MailFrom:                getEnv("MAIL_FROM", "info@motorhub.com"),
		MailFromName:            getEnv("MAIL_FROM_NAME", "Motorhub"),
		SummaryRecipientsProd:   getEnv("SUMMARY_RECIPIENTS_PROD", "ops@motorhub.com"),
		SummaryRecipientsDev:    getEnv("SUMMARY_RECIPIENTS_DEV", "dev@motorhub.com"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
	}
}

// IsProduction reports whether this process runs with the production tag.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// BaseURL is the site root used for every constructed link.
func (c *Config) BaseURL() string {
	if c.IsProduction() {
		return "https://www.motorhub.com"
	}
	return "https://staging.motorhub.com"
}

// SummaryRecipients is the operational summary mail list for this env.
func (c *Config) SummaryRecipients() []string {
	list := c.SummaryRecipientsDev
	if c.IsProduction() {
		list = c.SummaryRecipientsProd
	}

	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
