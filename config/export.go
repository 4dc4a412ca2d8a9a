package config

import "fmt"

// ExportConfig controls where and how solved results are written.
type ExportConfig struct {
	// Dir is the output directory for result files.
	Dir string `json:"dir"`
	// Format selects the table format: "csv" or "none".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *ExportConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "results"
	}
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate checks mandatory fields.
func (c ExportConfig) Validate() error {
	if c.Format != "csv" && c.Format != "none" {
		return fmt.Errorf("unknown export format %s", c.Format)
	}
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	return nil
}
