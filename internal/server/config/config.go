// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the document store server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the DocumentStore gRPC endpoint.
//   - EndpointAddrWS: bind address for the websocket watch gateway; empty disables it.
//   - DatabaseDSN: "memory", a PostgreSQL DSN (pgx) or a SQLite file name.
//   - DocumentID: row id of the served document.
//   - SecretKey: HMAC secret that access tokens must be signed with (HS256).
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - BackupInterval: how often to upload snapshots; zero disables backups.
type Config struct {
	EndpointAddrGRPC string
	EndpointAddrWS   string
	DatabaseDSN      string
	DocumentID       string
	SecretKey        string
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	BackupInterval   time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrWS = ":8081"
	c.DatabaseDSN = "memory"
	c.DocumentID = "vignaraja"
	c.SecretKey = "secretKey"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "vignaraja-backups"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.BackupInterval = 0
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
