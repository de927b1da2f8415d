package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/storage"
)

// Config represents the server configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Staging StagingConfig `yaml:"staging"`
	Reader  ReaderConfig  `yaml:"reader"`
	Export  ExportConfig  `yaml:"export"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`      // "json" or "console"
	FilePath   string `yaml:"file_path"`   // Path to log file
	Console    bool   `yaml:"console"`     // Whether to log to console
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB
	MaxBackups int    `yaml:"max_backups"` // Max number of backup files
	MaxAge     int    `yaml:"max_age"`     // Max age in days
	Cleanup    bool   `yaml:"cleanup"`     // Whether to cleanup log file on startup
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Address      string        `yaml:"address"`
	Port         int           `yaml:"port"`
	CORSOrigins  string        `yaml:"cors_origins"` // comma separated, "*" for any
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"` // 0 disables; exports can stream for a long time
}

// StorageConfig selects and configures the object store holding the files
type StorageConfig struct {
	Type         string `yaml:"type"` // minio, s3, filesystem or memory
	Endpoint     string `yaml:"endpoint"`
	Region       string `yaml:"region"`
	BucketName   string `yaml:"bucket_name"`
	Prefix       string `yaml:"prefix"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	SessionToken string `yaml:"session_token"`
	UseSSL       bool   `yaml:"use_ssl"`
	UsePathStyle bool   `yaml:"use_path_style"`
	Root         string `yaml:"root"` // directory served by the filesystem store
}

// StagingConfig controls where remote objects are copied before reading
type StagingConfig struct {
	Dir string `yaml:"dir"` // empty means the OS temp directory
}

// ReaderConfig tunes row retrieval
type ReaderConfig struct {
	Strategy        string `yaml:"strategy"` // auto or linear
	BatchSize       int    `yaml:"batch_size"`
	DefaultPageSize int    `yaml:"default_page_size"`
}

// ExportConfig tunes full-file exports
type ExportConfig struct {
	FlushRows    int    `yaml:"flush_rows"`
	SampleRows   int    `yaml:"sample_rows"`
	SheetName    string `yaml:"sheet_name"`
	MaxSheetRows int    `yaml:"max_sheet_rows"`
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			FilePath:   "logs/pqview.log",
			Console:    true,
			MaxSize:    100, // 100MB
			MaxBackups: 3,
			MaxAge:     7, // 7 days
			Cleanup:    false,
		},
		Server: ServerConfig{
			Address:     DEFAULT_SERVER_ADDRESS,
			Port:        HTTP_SERVER_PORT,
			CORSOrigins: "*",
			ReadTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type:   storage.MINIO.String(),
			Region: DEFAULT_REGION,
			UseSSL: true,
			Root:   "./data",
		},
		Reader: ReaderConfig{
			Strategy:        READER_STRATEGY_AUTO,
			BatchSize:       DEFAULT_BATCH_SIZE,
			DefaultPageSize: DEFAULT_PAGE_SIZE,
		},
		Export: ExportConfig{
			FlushRows:    DEFAULT_FLUSH_ROWS,
			SampleRows:   DEFAULT_SAMPLE_ROWS,
			SheetName:    DEFAULT_SHEET_NAME,
			MaxSheetRows: MAX_SHEET_ROWS,
		},
	}
}

// LoadConfig loads configuration from a file on top of the defaults, then
// applies PQVIEW_* environment overrides
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err).AddContext("file", filename)
	}

	config := LoadDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err).AddContext("file", filename)
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return errors.New(ErrServerValidationFailed, "server validation failed", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return errors.New(ErrStorageValidationFailed, "storage validation failed", err)
	}

	if err := c.Reader.Validate(); err != nil {
		return errors.New(ErrReaderValidationFailed, "reader validation failed", err)
	}

	if err := c.Export.Validate(); err != nil {
		return errors.New(ErrExportValidationFailed, "export validation failed", err)
	}

	return nil
}

// Validate validates the listener configuration
func (s *ServerConfig) Validate() error {
	if !IsValidPort(s.Port) {
		return errors.Newf(ErrInvalidPort, "port %d is out of range", s.Port)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return errors.New(ErrInvalidTimeout, "timeouts must not be negative", nil)
	}
	return nil
}

// Validate validates the storage configuration
func (s *StorageConfig) Validate() error {
	storeType, err := storage.ParseStoreType(s.Type)
	if err != nil {
		return err
	}

	switch storeType {
	case storage.MINIO, storage.S3:
		if s.BucketName == "" {
			return errors.New(ErrBucketNameRequired, "bucket_name is required for object storage", nil).AddContext("type", s.Type)
		}
	case storage.FILESYSTEM:
		if s.Root == "" {
			return errors.New(ErrStorageRootRequired, "root is required for filesystem storage", nil)
		}
	}

	return nil
}

// Validate validates the reader configuration
func (r *ReaderConfig) Validate() error {
	switch r.Strategy {
	case READER_STRATEGY_AUTO, READER_STRATEGY_LINEAR:
	default:
		return errors.New(ErrInvalidStrategy, "reader strategy must be auto or linear", nil).AddContext("strategy", r.Strategy)
	}
	if r.BatchSize <= 0 {
		return errors.Newf(ErrInvalidBatchSize, "batch_size must be positive, got %d", r.BatchSize)
	}
	if r.DefaultPageSize <= 0 {
		return errors.Newf(ErrInvalidPageSize, "default_page_size must be positive, got %d", r.DefaultPageSize)
	}
	return nil
}

// Validate validates the export configuration
func (e *ExportConfig) Validate() error {
	if e.SampleRows < 0 || e.FlushRows < 0 {
		return errors.New(ErrInvalidExportLimits, "export row counts must not be negative", nil)
	}
	if e.MaxSheetRows < 2 || e.MaxSheetRows > MAX_SHEET_ROWS {
		return errors.Newf(ErrInvalidExportLimits, "max_sheet_rows must be between 2 and %d", MAX_SHEET_ROWS)
	}
	if e.SheetName == "" {
		return errors.New(ErrInvalidExportLimits, "sheet_name is required", nil)
	}
	return nil
}

// GetHTTPAddress returns the host:port the HTTP server binds to
func (c *Config) GetHTTPAddress() string {
	return JoinHostPort(c.Server.Address, c.Server.Port)
}

// GetStorageType returns the normalized storage type
func (c *Config) GetStorageType() storage.StoreType {
	t, err := storage.ParseStoreType(c.Storage.Type)
	if err != nil {
		return ""
	}
	return t
}
