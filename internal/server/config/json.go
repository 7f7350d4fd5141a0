package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/passvault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// Zero values leave the current setting alone.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	GRPCAddr        *string        `json:"grpc_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	MongoDatabase   string         `json:"mongo_database"`
	SecretKey       string         `json:"secret_key"`
	SessionValidity timex.Duration `json:"session_validity"`
	SecureCookie    *bool          `json:"secure_cookie"`
	LoginRate       float64        `json:"login_rate"`
	LoginBurst      int            `json:"login_burst"`
	TrustedProxies  []string       `json:"trusted_proxies"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	BackupURLExpiry timex.Duration `json:"backup_url_expiry"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// loadJSON overlays the JSON file at path onto config.
func loadJSON(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	// An explicit empty string disables the gRPC listener.
	if c.GRPCAddr != nil {
		config.GRPCAddr = *c.GRPCAddr
	}
	if c.SecureCookie != nil {
		config.SecureCookie = *c.SecureCookie
	}
	if c.SessionValidity.Duration != 0 {
		config.SessionValidity = c.SessionValidity.Duration
	}
	if c.BackupURLExpiry.Duration != 0 {
		config.BackupURLExpiry = c.BackupURLExpiry.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.LoginRate != 0 {
		config.LoginRate = c.LoginRate
	}
	if c.LoginBurst != 0 {
		config.LoginBurst = c.LoginBurst
	}
	if c.TrustedProxies != nil {
		config.TrustedProxies = c.TrustedProxies
	}
	return nil
}
