package config

import (
	"fmt"
	"path"

	"pymetrics/internal/model"
)

// Validate 检查配置值是否可用，返回遇到的第一个问题。
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0, got %d", c.Workers)
	}

	if len(c.Metrics) == 0 {
		return fmt.Errorf("metrics selection is empty")
	}
	for _, id := range c.Metrics {
		if !model.KnownMetricID(id) {
			return fmt.Errorf("unknown metric id %q, available: loc, cloc, nom, tloc", id)
		}
	}

	// glob 模式在这里提前编译校验，避免遍历中途才发现坏模式。
	for _, pattern := range c.ExcludeFilenames {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude_filenames pattern %q: %w", pattern, err)
		}
	}

	return nil
}
