package config

import (
	"os"
	"strconv"
	"time"

	"github.com/gear6io/pqview/pkg/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "PQVIEW_"

// ApplyEnv overrides cfg with PQVIEW_* environment variables. Object store
// credentials and region also fall back to the standard AWS_* variables
// when neither the file nor a PQVIEW_* variable set them.
func ApplyEnv(cfg *Config) error {
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.FilePath, "LOG_FILE_PATH")

	setString(&cfg.Server.Address, "SERVER_ADDRESS")
	setString(&cfg.Server.CORSOrigins, "SERVER_CORS_ORIGINS")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	regionSet := cfg.Storage.Region != "" && cfg.Storage.Region != DEFAULT_REGION
	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.BucketName, "STORAGE_BUCKET_NAME")
	setString(&cfg.Storage.Prefix, "STORAGE_PREFIX")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.SessionToken, "STORAGE_SESSION_TOKEN")
	setString(&cfg.Storage.Root, "STORAGE_ROOT")

	setString(&cfg.Staging.Dir, "STAGING_DIR")
	setString(&cfg.Reader.Strategy, "READER_STRATEGY")

	if cfg.Storage.AccessKey == "" {
		cfg.Storage.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		if cfg.Storage.SecretKey == "" {
			cfg.Storage.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		}
		if cfg.Storage.SessionToken == "" {
			cfg.Storage.SessionToken = os.Getenv("AWS_SESSION_TOKEN")
		}
	}
	if v := os.Getenv("AWS_REGION"); v != "" && !regionSet && os.Getenv(EnvPrefix+"STORAGE_REGION") == "" {
		cfg.Storage.Region = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SERVER_PORT", &cfg.Server.Port},
		{"READER_BATCH_SIZE", &cfg.Reader.BatchSize},
		{"READER_DEFAULT_PAGE_SIZE", &cfg.Reader.DefaultPageSize},
		{"EXPORT_SAMPLE_ROWS", &cfg.Export.SampleRows},
		{"EXPORT_MAX_SHEET_ROWS", &cfg.Export.MaxSheetRows},
	}
	for _, e := range ints {
		if err := setInt(e.dst, e.key); err != nil {
			return err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"LOG_CONSOLE", &cfg.Log.Console},
		{"STORAGE_USE_SSL", &cfg.Storage.UseSSL},
		{"STORAGE_USE_PATH_STYLE", &cfg.Storage.UsePathStyle},
	}
	for _, e := range bools {
		if err := setBool(e.dst, e.key); err != nil {
			return err
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout},
	}
	for _, e := range durations {
		if err := setDuration(e.dst, e.key); err != nil {
			return err
		}
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return invalidEnv(key, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return invalidEnv(key, v, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return invalidEnv(key, v, err)
	}
	*dst = d
	return nil
}

func invalidEnv(key, value string, cause error) error {
	return errors.New(ErrInvalidEnvValue, "invalid environment override", cause).
		AddContext("variable", EnvPrefix+key).
		AddContext("value", value)
}
