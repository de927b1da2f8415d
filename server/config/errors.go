package config

import "github.com/gear6io/pqview/pkg/errors"

// Config-specific error codes
var (
	ErrConfigFileReadFailed    = errors.MustNewCode("config.file_read_failed")
	ErrConfigFileParseFailed   = errors.MustNewCode("config.file_parse_failed")
	ErrConfigValidationFailed  = errors.MustNewCode("config.validation_failed")
	ErrConfigFileMarshalFailed = errors.MustNewCode("config.file_marshal_failed")
	ErrConfigFileWriteFailed   = errors.MustNewCode("config.file_write_failed")
	ErrServerValidationFailed  = errors.MustNewCode("config.listener_validation_failed")
	ErrStorageValidationFailed = errors.MustNewCode("config.storage_validation_failed")
	ErrReaderValidationFailed  = errors.MustNewCode("config.reader_validation_failed")
	ErrExportValidationFailed  = errors.MustNewCode("config.export_validation_failed")
	ErrInvalidPort             = errors.MustNewCode("config.invalid_port")
	ErrInvalidTimeout          = errors.MustNewCode("config.invalid_timeout")
	ErrBucketNameRequired      = errors.MustNewCode("config.bucket_name_required")
	ErrStorageRootRequired     = errors.MustNewCode("config.storage_root_required")
	ErrInvalidStrategy         = errors.MustNewCode("config.invalid_strategy")
	ErrInvalidBatchSize        = errors.MustNewCode("config.invalid_batch_size")
	ErrInvalidPageSize         = errors.MustNewCode("config.invalid_page_size")
	ErrInvalidExportLimits     = errors.MustNewCode("config.invalid_export_limits")
	ErrInvalidEnvValue         = errors.MustNewCode("config.invalid_env_value")

	// Logging-specific error codes
	ErrLogDirectoryCreationFailed = errors.MustNewCode("config.log_directory_creation_failed")
	ErrLogFileOpenFailed          = errors.MustNewCode("config.log_file_open_failed")
	ErrLogFilePathRequired        = errors.MustNewCode("config.log_file_path_required")
	ErrLogRotationCheckFailed     = errors.MustNewCode("config.log_rotation_check_failed")
	ErrLogFileStatFailed          = errors.MustNewCode("config.log_file_stat_failed")
	ErrLogRotationFailed          = errors.MustNewCode("config.log_rotation_failed")
	ErrLogBackupReadFailed        = errors.MustNewCode("config.log_backup_read_failed")
	ErrLogBackupRemoveFailed      = errors.MustNewCode("config.log_backup_remove_failed")
	ErrLogFileWriterSetupFailed   = errors.MustNewCode("config.log_file_writer_setup_failed")
)
