package config

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	dbName   = "striplines.db"
	fileName = ".striplines.toml"
)

// Config holds global application configuration
type Config struct {
	DBPath  string
	Verbose bool

	// Prefix, when set, is stripped instead of inferring one per block.
	Prefix *string
	// Extensions are the file suffixes considered by check.
	Extensions []string
}

// fileConfig mirrors the on-disk TOML layout
type fileConfig struct {
	Prefix     *string  `toml:"prefix"`
	Extensions []string `toml:"extensions"`
}

// New creates a new configuration with defaults
func New() *Config {
	return &Config{
		Extensions: []string{".txt", ".tmpl", ".md"},
	}
}

// Load looks for a config file up the directory tree and applies it.
// A missing file leaves the defaults untouched.
func (c *Config) Load() error {
	path, err := findUp(fileName)
	if err != nil {
		log.Printf("No %s found, using defaults", fileName)
		return nil
	}
	return c.LoadFile(path)
}

// LoadFile applies the TOML config at path on top of the current values
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Prefix != nil {
		c.Prefix = fc.Prefix
	}
	if len(fc.Extensions) > 0 {
		c.Extensions = fc.Extensions
	}

	log.Printf("Loaded config from: %s", path)
	return nil
}

// FindExistingDBPath searches for an existing database file up the directory tree
func (c *Config) FindExistingDBPath() error {
	dbPath, err := findUp(dbName)
	if err != nil {
		return fmt.Errorf("no existing database found in directory tree: %w", err)
	}

	c.DBPath = dbPath
	log.Printf("Found database at: %s", dbPath)
	return nil
}

// CreateDBPath creates a new database path in the current directory
func (c *Config) CreateDBPath() error {
	absPath, err := filepath.Abs(dbName)
	if err != nil {
		return fmt.Errorf("failed to create database path: %w", err)
	}
	c.DBPath = absPath
	return nil
}

// FindOrCreateDBPath finds an existing database or creates a new one
func (c *Config) FindOrCreateDBPath() error {
	// First try to find existing database
	if err := c.FindExistingDBPath(); err == nil {
		return nil
	}

	// If not found, create a new path
	return c.CreateDBPath()
}

// findUp returns the first file called name found walking from the working
// directory to the root.
func findUp(name string) (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	for {
		path := filepath.Join(currentDir, name)
		log.Printf("Searching for %s at: %s", name, path)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parentDir := filepath.Dir(currentDir)

		// Reached the root
		if parentDir == currentDir {
			break
		}

		currentDir = parentDir
	}

	return "", fs.ErrNotExist
}
