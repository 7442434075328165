package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/agnr/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Initialize writes a default agnr.yml at path.
// If force is true, an existing file is replaced.
func Initialize(path string, force bool) error {
	if !force {
		if err := CheckExisting(path); err != nil {
			return err
		}
	}

	file, err := configFile(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", file.Path, err)
	}

	// The template must always load cleanly
	if _, err := config.Load(path); err != nil {
		return fmt.Errorf("created %s is invalid: %w", path, err)
	}
	return nil
}

// configFile reads the embedded configuration template.
func configFile(path string) (FileInfo, error) {
	content, err := templatesFS.ReadFile("templates/agnr.yml.tmpl")
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to read agnr.yml template: %w", err)
	}
	return FileInfo{Path: path, Content: content, Permissions: 0644}, nil
}

// CheckExisting returns an error if path already exists.
func CheckExisting(path string) error {
	if _, err := os.Stat(path); err == nil {
		return &ExistsError{Path: path}
	}
	return nil
}

// ExistsError reports a configuration file that init refused to overwrite.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s already exists", e.Path)
}
