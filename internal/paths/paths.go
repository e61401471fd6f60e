// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// GetConfigDir returns the disinfo-scan configuration directory.
// DISINFO_CONFIG_DIR overrides the platform default.
func GetConfigDir() string {
	if dir := os.Getenv("DISINFO_CONFIG_DIR"); dir != "" {
		return dir
	}

	// os.UserConfigDir resolves APPDATA on Windows and XDG_CONFIG_HOME elsewhere
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "disinfo-scan")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".disinfo-scan")
	}
	return ".disinfo-scan"
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// NormalizePath cleans a path for the current platform
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// ValidateInputPath checks a user-supplied document path before it is opened
func ValidateInputPath(path string) error {
	if path == "" {
		return &PathValidationError{Path: path, Reason: "path is empty"}
	}
	if strings.ContainsRune(path, 0) {
		return &PathValidationError{Path: path, Reason: "contains null byte"}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &PathValidationError{Path: path, Reason: err.Error()}
	}
	if info.IsDir() {
		return &PathValidationError{Path: path, Reason: "is a directory"}
	}
	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
