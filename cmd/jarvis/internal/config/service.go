package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrServiceNotFound is returned by LoadService when the service file does
// not exist.
var ErrServiceNotFound = errors.New("service config not found")

// ValidateServiceName rejects names that are not safe file names.
func ValidateServiceName(service string) error {
	if service == "" {
		return errors.New("service name cannot be empty")
	}
	if strings.ContainsAny(service, "/\\") || strings.HasPrefix(service, ".") {
		return fmt.Errorf("invalid service name %q", service)
	}
	return nil
}

// ServicePath returns "<contextDir>/<service>.yaml".
func ServicePath(contextDir, service string) string {
	return filepath.Join(contextDir, service+".yaml")
}

// LoadService loads a service configuration from the given context
// directory.
func LoadService[T any](contextDir, service string) (*T, error) {
	path := ServicePath(contextDir, service)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (expected: %s)", ErrServiceNotFound, service, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &v, nil
}

// LoadOptional is LoadService returning (nil, nil) for a missing file.
func LoadOptional[T any](contextDir, service string) (*T, error) {
	v, err := LoadService[T](contextDir, service)
	if errors.Is(err, ErrServiceNotFound) {
		return nil, nil
	}
	return v, err
}

// SaveService writes a service configuration.
func SaveService[T any](contextDir, service string, v *T) error {
	if err := os.MkdirAll(contextDir, 0755); err != nil {
		return fmt.Errorf("create context dir: %w", err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s config: %w", service, err)
	}
	// Service files may hold API keys.
	if err := os.WriteFile(ServicePath(contextDir, service), data, 0600); err != nil {
		return fmt.Errorf("write %s config: %w", service, err)
	}
	return nil
}

// SetValue sets one key of a service file, creating the file if needed.
func SetValue(contextDir, service, key, value string) error {
	m, err := LoadService[map[string]any](contextDir, service)
	if errors.Is(err, ErrServiceNotFound) {
		m = &map[string]any{}
	} else if err != nil {
		return err
	}
	if *m == nil {
		*m = map[string]any{}
	}
	(*m)[key] = value
	return SaveService(contextDir, service, m)
}

// ListServices returns the service names configured in a context.
func ListServices(contextDir string) ([]string, error) {
	entries, err := os.ReadDir(contextDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list services: %w", err)
	}
	var services []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
			services = append(services, strings.TrimSuffix(name, ext))
		}
	}
	return services, nil
}
