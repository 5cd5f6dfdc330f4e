// env_config.go: Environment variable support for Talaria configuration
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package talaria

import (
	"os"
	"strconv"
	"time"

	"github.com/agilira/go-errors"
)

// Environment variables recognized by LoadConfigFromEnv. These provide
// container-friendly configuration without code changes:
//
//	TALARIA_PREFIX_CHARS          flag prefix set as a string, e.g. "/-"
//	TALARIA_AUTO_HELP             "true"/"false", default true
//	TALARIA_AUDIT_ENABLED         "true"/"false", default false
//	TALARIA_AUDIT_OUTPUT_FILE     audit output path (.db, .jsonl)
//	TALARIA_AUDIT_MIN_LEVEL       info|warn|critical|security
//	TALARIA_AUDIT_BUFFER_SIZE     positive integer
//	TALARIA_AUDIT_FLUSH_INTERVAL  Go duration, e.g. "5s"
const (
	envPrefixChars        = "TALARIA_PREFIX_CHARS"
	envAutoHelp           = "TALARIA_AUTO_HELP"
	envAuditEnabled       = "TALARIA_AUDIT_ENABLED"
	envAuditOutputFile    = "TALARIA_AUDIT_OUTPUT_FILE"
	envAuditMinLevel      = "TALARIA_AUDIT_MIN_LEVEL"
	envAuditBufferSize    = "TALARIA_AUDIT_BUFFER_SIZE"
	envAuditFlushInterval = "TALARIA_AUDIT_FLUSH_INTERVAL"
)

// LoadConfigFromEnv loads registry configuration from TALARIA_* environment
// variables, applying defaults for anything unset.
func LoadConfigFromEnv() (*Config, error) {
	config := &Config{}

	if err := loadCoreEnv(config); err != nil {
		return nil, err
	}
	if err := loadAuditEnv(config); err != nil {
		return nil, err
	}

	return config.WithDefaults(), nil
}

// LoadConfigMultiSource resolves configuration with precedence:
// environment variables over manifest settings over defaults. The manifest
// path may be empty, in which case only env and defaults apply.
func LoadConfigMultiSource(manifestPath string) (*Config, error) {
	config := &Config{}

	if manifestPath != "" {
		format := DetectFormat(manifestPath)
		if format == FormatUnknown {
			return nil, errors.New(ErrCodeUnknownFormat,
				"unsupported manifest format: "+manifestPath)
		}
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeIOError, "failed to read manifest file")
		}
		manifest, err := decodeManifest(data, format)
		if err != nil {
			return nil, err
		}
		if manifest.PrefixChars != "" {
			config.PrefixChars = []rune(manifest.PrefixChars)
		}
		if manifest.AutoHelp != nil && !*manifest.AutoHelp {
			config.DisableAutoHelp = true
		}
	}

	envConfig, err := LoadConfigFromEnv()
	if err != nil {
		return config.WithDefaults(), err
	}

	// Environment overrides manifest-level settings
	if os.Getenv(envPrefixChars) != "" {
		config.PrefixChars = envConfig.PrefixChars
	}
	if os.Getenv(envAutoHelp) != "" {
		config.DisableAutoHelp = envConfig.DisableAutoHelp
	}
	if envConfig.Audit != nil {
		config.Audit = envConfig.Audit
	}

	return config.WithDefaults(), nil
}

// loadCoreEnv loads prefix and auto-help settings.
func loadCoreEnv(config *Config) error {
	if prefixes := os.Getenv(envPrefixChars); prefixes != "" {
		config.PrefixChars = []rune(prefixes)
	}

	if autoHelp := os.Getenv(envAutoHelp); autoHelp != "" {
		enabled, err := strconv.ParseBool(autoHelp)
		if err != nil {
			return errors.New(ErrCodeInvalidConfig, "invalid TALARIA_AUTO_HELP value")
		}
		config.DisableAutoHelp = !enabled
	}
	return nil
}

// loadAuditEnv loads the audit section. Audit stays nil unless
// TALARIA_AUDIT_ENABLED is set truthy.
func loadAuditEnv(config *Config) error {
	enabledStr := os.Getenv(envAuditEnabled)
	if enabledStr == "" {
		return nil
	}
	enabled, err := strconv.ParseBool(enabledStr)
	if err != nil {
		return errors.New(ErrCodeInvalidConfig, "invalid TALARIA_AUDIT_ENABLED value")
	}
	if !enabled {
		return nil
	}

	audit := DefaultAuditConfig()

	if outputFile := os.Getenv(envAuditOutputFile); outputFile != "" {
		audit.OutputFile = outputFile
	}

	if minLevel := os.Getenv(envAuditMinLevel); minLevel != "" {
		level, ok := ParseAuditLevel(minLevel)
		if !ok {
			return errors.New(ErrCodeInvalidConfig, "invalid TALARIA_AUDIT_MIN_LEVEL value")
		}
		audit.MinLevel = level
	}

	if bufferSize := os.Getenv(envAuditBufferSize); bufferSize != "" {
		size, err := strconv.Atoi(bufferSize)
		if err != nil || size <= 0 {
			return errors.New(ErrCodeInvalidConfig, "invalid TALARIA_AUDIT_BUFFER_SIZE value")
		}
		audit.BufferSize = size
	}

	if flushInterval := os.Getenv(envAuditFlushInterval); flushInterval != "" {
		interval, err := time.ParseDuration(flushInterval)
		if err != nil || interval <= 0 {
			return errors.New(ErrCodeInvalidConfig, "invalid TALARIA_AUDIT_FLUSH_INTERVAL format")
		}
		audit.FlushInterval = interval
	}

	config.Audit = &audit
	return nil
}
