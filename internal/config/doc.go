// Package config provides configuration management for keymix.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Validation
//   - Conversion to PathConfig and sort options for other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Recursive scan, 8 concurrent key lookups
//	// Key cache under the user cache directory
//	// Extended M3U playlist next to the tracks
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/keymix.yaml")
//	if err != nil {
//	    return err
//	}
//	// Uses defaults if file doesn't exist
//
// Weights can be tuned per movement:
//
//	weights:
//	  perfect_match: 50
//	  energy_raise: 0
package config
