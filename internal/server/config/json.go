package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vignaraja/internal/flagx"
	"github.com/dmitrijs2005/vignaraja/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// both "30s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc"`
	EndpointAddrWS   *string         `json:"endpoint_addr_ws"`
	DatabaseDSN      string          `json:"database_dsn"`
	DocumentID       string          `json:"document_id"`
	SecretKey        string          `json:"secret_key"`
	S3RootUser       string          `json:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
	BackupInterval   *timex.Duration `json:"backup_interval"`
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays values from the file named by -c/-config onto config.
// Keys missing from the file keep their current value. An unreadable or
// invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	if c.EndpointAddrWS != nil {
		config.EndpointAddrWS = *c.EndpointAddrWS
	}
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.DocumentID, c.DocumentID)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.S3RootUser, c.S3RootUser)
	setIf(&config.S3RootPassword, c.S3RootPassword)
	setIf(&config.S3Bucket, c.S3Bucket)
	setIf(&config.S3Region, c.S3Region)
	setIf(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.BackupInterval != nil {
		config.BackupInterval = c.BackupInterval.Duration
	}
}
