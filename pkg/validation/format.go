// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/housing-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateStorageBackend checks if the storage backend is one of the supported backends.
func ValidateStorageBackend(backend string) error {
	switch backend {
	case constants.StorageBackendMemory, constants.StorageBackendFile,
		constants.StorageBackendRedis, constants.StorageBackendPostgres:
		return nil
	}
	return fmt.Errorf("expected storage backend of %s, %s, %s or %s, got %q",
		constants.StorageBackendMemory, constants.StorageBackendFile,
		constants.StorageBackendRedis, constants.StorageBackendPostgres, backend)
}
