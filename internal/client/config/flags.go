package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string                address and port of the store server
//	-s string                access token secret
//	-r string                document root path
//	-t int                   access token validity (minutes)
//	-k int                   operation timeout (seconds)
//	-admin-user string       admin user name
//	-admin-hash string       admin credential, "argon2id$<salt>$<key>"
//	-admin-password string   admin password, hashed at startup
//	-event string            event date, RFC3339
//
// An unparsable value panics.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-s", "-r", "-t", "-k",
		"-admin-user", "-admin-hash", "-admin-password", "-event",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "access token secret")
	fs.StringVar(&cfg.Root, "r", cfg.Root, "document root path")
	fs.StringVar(&cfg.AdminUser, "admin-user", cfg.AdminUser, "admin user name")
	fs.StringVar(&cfg.AdminHash, "admin-hash", cfg.AdminHash, "admin credential hash")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "admin password")
	event := fs.String("event", cfg.EventDate.Format(time.RFC3339), "event date (RFC3339)")
	tokenValidity := fs.Int("t", int(cfg.TokenValidity.Minutes()), "access token validity (in minutes)")
	opTimeout := fs.Int("k", int(cfg.OperationTimeout.Seconds()), "operation timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	eventDate, err := time.Parse(time.RFC3339, *event)
	if err != nil {
		panic(err)
	}

	cfg.EventDate = eventDate
	cfg.TokenValidity = time.Duration(*tokenValidity) * time.Minute
	cfg.OperationTimeout = time.Duration(*opTimeout) * time.Second
}
