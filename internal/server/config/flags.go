package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/bkozyrev/vidstream/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-as string  access token secret
//	-rs string  refresh token secret
//	-at int     access token validity, hours
//	-rt int     refresh token validity, hours
//	-o string   comma-separated CORS origins
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// The arguments are first filtered with flagx.FilterArgs so that flags owned
// by other components (like -c/-config) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-as", "-rs", "-at", "-rt", "-o", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "as", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "rs", config.RefreshTokenSecret, "refresh token secret")

	accessExpiry := fs.Int("at", int(config.AccessTokenExpiry.Hours()), "access_token_expiry (in hours)")
	refreshExpiry := fs.Int("rt", int(config.RefreshTokenExpiry.Hours()), "refresh_token_expiry (in hours)")

	origins := fs.String("o", strings.Join(config.CORSAllowedOrigins, ","), "CORS allowed origins (comma-separated)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenExpiry = time.Duration(*accessExpiry) * time.Hour
	config.RefreshTokenExpiry = time.Duration(*refreshExpiry) * time.Hour
	config.CORSAllowedOrigins = splitOrigins(*origins)
}
