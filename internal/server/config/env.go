package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays values from environment variables. Token secrets and
// expiries are the variables a deployment is required to set.
//
// Recognized variables:
//
//	HTTP_ADDRESS, DATABASE_DSN,
//	ACCESS_TOKEN_SECRET, ACCESS_TOKEN_EXPIRY,
//	REFRESH_TOKEN_SECRET, REFRESH_TOKEN_EXPIRY,
//	COOKIE_SECURE, COOKIE_SAME_SITE, CORS_ALLOWED_ORIGINS,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//
// Expiries are Go duration strings ("24h", "240h"). Invalid values are a
// startup failure.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("HTTP_ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_SECRET"); ok {
		config.AccessTokenSecret = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRY"); ok {
		config.AccessTokenExpiry = mustParseDuration(v)
	}
	if v, ok := os.LookupEnv("REFRESH_TOKEN_SECRET"); ok {
		config.RefreshTokenSecret = v
	}
	if v, ok := os.LookupEnv("REFRESH_TOKEN_EXPIRY"); ok {
		config.RefreshTokenExpiry = mustParseDuration(v)
	}
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.CookieSecure = secure
	}
	if v, ok := os.LookupEnv("COOKIE_SAME_SITE"); ok {
		config.CookieSameSite = v
	}
	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitOrigins(v)
	}
	if v, ok := os.LookupEnv("S3_ROOT_USER"); ok {
		config.S3RootUser = v
	}
	if v, ok := os.LookupEnv("S3_ROOT_PASSWORD"); ok {
		config.S3RootPassword = v
	}
	if v, ok := os.LookupEnv("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}

func mustParseDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
