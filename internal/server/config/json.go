package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/bkozyrev/vidstream/internal/flagx"
	"github.com/bkozyrev/vidstream/internal/timex"
)

// JsonConfig is the JSON-facing shape of Config. Duration fields use
// timex.Duration so both "24h" strings and integer nanoseconds parse.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDSN        string         `json:"database_dsn"`
	AccessTokenSecret  string         `json:"access_token_secret"`
	AccessTokenExpiry  timex.Duration `json:"access_token_expiry"`
	RefreshTokenSecret string         `json:"refresh_token_secret"`
	RefreshTokenExpiry timex.Duration `json:"refresh_token_expiry"`
	CookieSecure       *bool          `json:"cookie_secure"`
	CookieSameSite     string         `json:"cookie_same_site"`
	CORSAllowedOrigins string         `json:"cors_allowed_origins"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file given via -c/-config, if any.
// Zero values in the file leave the current config untouched. A file that
// cannot be read or parsed is a startup failure.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := &JsonConfig{}
	if err := json.Unmarshal(data, jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = jc.EndpointAddrHTTP
	}
	if jc.DatabaseDSN != "" {
		config.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.AccessTokenSecret != "" {
		config.AccessTokenSecret = jc.AccessTokenSecret
	}
	if jc.AccessTokenExpiry.Duration != 0 {
		config.AccessTokenExpiry = jc.AccessTokenExpiry.Duration
	}
	if jc.RefreshTokenSecret != "" {
		config.RefreshTokenSecret = jc.RefreshTokenSecret
	}
	if jc.RefreshTokenExpiry.Duration != 0 {
		config.RefreshTokenExpiry = jc.RefreshTokenExpiry.Duration
	}
	if jc.CookieSecure != nil {
		config.CookieSecure = *jc.CookieSecure
	}
	if jc.CookieSameSite != "" {
		config.CookieSameSite = jc.CookieSameSite
	}
	if jc.CORSAllowedOrigins != "" {
		config.CORSAllowedOrigins = splitOrigins(jc.CORSAllowedOrigins)
	}
	if jc.S3RootUser != "" {
		config.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		config.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		config.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		config.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = jc.S3BaseEndpoint
	}
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
