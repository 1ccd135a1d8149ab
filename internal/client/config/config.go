package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/cryptox"
)

// Config holds runtime settings for the Vignaraja CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the document store gRPC endpoint.
//   - SecretKey: shared HMAC secret used to sign store access tokens.
//   - Root: path prefix of the community document inside the store.
//   - AdminUser, AdminHash, AdminPassword: admin credential. AdminHash
//     ("argon2id$<salt>$<key>") wins over AdminPassword when both are set.
//   - EventDate: date the countdown runs towards.
//   - OperationTimeout: upper bound for a single store call.
//   - TokenValidity: lifetime of a signed access token.
type Config struct {
	ServerEndpointAddr string
	SecretKey          string
	Root               string
	AdminUser          string
	AdminHash          string
	AdminPassword      string
	EventDate          time.Time
	OperationTimeout   time.Duration
	TokenValidity      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.SecretKey = "secretKey"
	c.Root = "appData"
	c.AdminUser = "vignaraja"
	c.AdminHash = ""
	// NOTE: override with -admin-hash in any shared deployment.
	c.AdminPassword = "Pracx99"
	c.EventDate = time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local)
	c.OperationTimeout = 10 * time.Second
	c.TokenValidity = 15 * time.Minute
}

// AdminVerifier builds the credential check used for admin login.
func (c *Config) AdminVerifier() (cryptox.CredentialVerifier, error) {
	if c.AdminHash != "" {
		cred, err := cryptox.ParseCredential(c.AdminUser, c.AdminHash)
		if err != nil {
			return nil, fmt.Errorf("admin hash: %w", err)
		}
		return cred, nil
	}
	cred, err := cryptox.NewCredential(c.AdminUser, []byte(c.AdminPassword))
	if err != nil {
		return nil, fmt.Errorf("admin password: %w", err)
	}
	return cred, nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
