package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Validate checks business rules on the loaded configuration and collects
// every violation. Load calls it automatically.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			errs = append(errs, errors.New("database.dsn is required for the postgres backend"))
		}
		if c.Database.MaxConns <= 0 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			errs = append(errs, fmt.Errorf("database: need 0 <= min_conns <= max_conns and max_conns > 0 (got %d, %d)",
				c.Database.MinConns, c.Database.MaxConns))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be %q or %q (got %q)", BackendMemory, BackendPostgres, c.Store.Backend))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port))
	}
	if c.Server.WriteRatePerMinute < 0 {
		errs = append(errs, fmt.Errorf("server.write_rate_per_minute must be >= 0 (got %d)", c.Server.WriteRatePerMinute))
	}

	if c.Storage.UploadsDir == "" {
		errs = append(errs, errors.New("storage.uploads_dir is required"))
	}
	if c.Storage.ProfilesDir == "" {
		errs = append(errs, errors.New("storage.profiles_dir is required"))
	}
	for _, limit := range []struct {
		name  string
		value int64
	}{
		{"max_profile_bytes", c.Storage.MaxProfileBytes},
		{"max_upload_bytes", c.Storage.MaxUploadBytes},
		{"max_import_bytes", c.Storage.MaxImportBytes},
	} {
		if limit.value <= 0 {
			errs = append(errs, fmt.Errorf("storage.%s must be > 0 (got %d)", limit.name, limit.value))
		}
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format))
	}
	if c.Log.File != "" && (c.Log.MaxSizeMB <= 0 || c.Log.MaxBackups < 0) {
		errs = append(errs, errors.New("log: max_size_mb must be > 0 and max_backups >= 0 when file is set"))
	}

	return errors.Join(errs...)
}
