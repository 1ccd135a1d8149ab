package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/flagx"
	"github.com/dmitrijs2005/vignaraja/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept "10s" or integer nanoseconds; the event date is RFC3339.
type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	SecretKey          string          `json:"secret_key"`
	Root               string          `json:"root"`
	AdminUser          string          `json:"admin_user"`
	AdminHash          string          `json:"admin_hash"`
	AdminPassword      string          `json:"admin_password"`
	EventDate          *time.Time      `json:"event_date"`
	OperationTimeout   *timex.Duration `json:"operation_timeout"`
	TokenValidity      *timex.Duration `json:"token_validity"`
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Keys missing from the file keep their current value. Read or
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setIf(&cfg.SecretKey, jc.SecretKey)
	setIf(&cfg.Root, jc.Root)
	setIf(&cfg.AdminUser, jc.AdminUser)
	setIf(&cfg.AdminHash, jc.AdminHash)
	setIf(&cfg.AdminPassword, jc.AdminPassword)
	if jc.EventDate != nil {
		cfg.EventDate = *jc.EventDate
	}
	if jc.OperationTimeout != nil {
		cfg.OperationTimeout = jc.OperationTimeout.Duration
	}
	if jc.TokenValidity != nil {
		cfg.TokenValidity = jc.TokenValidity.Duration
	}
}
