package app

import (
	"errors"
	"fmt"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Tree shapes written for each document.
const (
	TreeElements = "elements"
	TreeNodes    = "nodes"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Root         string // package root
	ManifestPath string // ftd.hcl; defaults are used when it does not exist
	Documents    []string
	OutputDir    string // empty writes every document to the output writer
	Format       string
	Tree         string
	CacheDir     string // empty keeps the document cache in memory

	Query      string   // raw query string of the request
	PathParams []string // key=value
	BodyPath   string   // file holding the JSON request body

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		return nil, errors.New("Root is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	if cfg.Format != FormatJSON && cfg.Format != FormatYAML {
		return nil, fmt.Errorf("invalid format %q: must be '%s' or '%s'", cfg.Format, FormatJSON, FormatYAML)
	}
	if cfg.Tree == "" {
		cfg.Tree = TreeElements
	}
	if cfg.Tree != TreeElements && cfg.Tree != TreeNodes {
		return nil, fmt.Errorf("invalid tree %q: must be '%s' or '%s'", cfg.Tree, TreeElements, TreeNodes)
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("invalid worker count %d: must be at least 1", cfg.WorkerCount)
	}
	return &cfg, nil
}
