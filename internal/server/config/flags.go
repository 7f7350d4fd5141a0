package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-r string   gRPC health bind address (e.g., ":50051")
//	-d string   database DSN (postgres://, mongodb://, memory://)
//	-n string   Mongo database name
//	-s string   JWT HMAC secret key
//	-t int      session validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x string   comma-separated trusted proxy IPs or CIDRs
//
// Notes:
//   - args is filtered with flagx.FilterArgs first, so -c/-config and
//     flags meant for other loaders do not cause parse errors.
//   - Duration flags are accepted as integers in minutes.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-r", "-d", "-n", "-s", "-t", "-u", "-p", "-b", "-g", "-e", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.GRPCAddr, "r", config.GRPCAddr, "address and port of the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "mongo database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidity.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	trustedProxies := fs.String("x", strings.Join(config.TrustedProxies, ","), "trusted proxy IPs or CIDRs, comma-separated")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *trustedProxies == "" {
		config.TrustedProxies = nil
	} else {
		config.TrustedProxies = strings.Split(*trustedProxies, ",")
	}

	config.SessionValidity = time.Duration(*sessionValidity) * time.Minute
	return nil
}
