// Package config 定义 pymetrics 的分析配置。
// 配置使用严格 YAML 解码，未设置字段有显式默认值，
// 命令行 flag 的覆盖发生在 cmd 层。
package config

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"pymetrics/internal/model"
)

// Config 描述一次分析的可配置参数。
type Config struct {
	// Title 与 Description 为空时，由目标路径推导。
	Title       string `yaml:"title"`
	Description string `yaml:"description"`

	// Metrics 是要计算的指标 ID 列表，空表示全部内置指标。
	Metrics []string `yaml:"metrics"`

	// ExcludeDirectories 按目录名精确匹配。
	ExcludeDirectories []string `yaml:"exclude_directories"`

	// ExcludeFilenames 是 glob 模式列表，
	// 同时匹配文件名和相对路径（斜杠分隔）。
	ExcludeFilenames []string `yaml:"exclude_filenames"`

	// Workers 是并发分析的 worker 数量。
	Workers int `yaml:"workers"`
}

// Default 返回带全部默认值的配置。
// 排除清单与宿主插件的历史默认保持一致。
func Default() Config {
	return Config{
		Metrics: []string{
			model.MetricLOC,
			model.MetricCLOC,
			model.MetricNOM,
			model.MetricTLOC,
		},
		ExcludeDirectories: []string{
			"__pycache__", ".git", ".idea", "node_modules", ".pytest_cache",
			"venv", ".venv", "env", "build", "dist", "docs",
		},
		ExcludeFilenames: []string{
			"*.test.py", "*.spec.py", "setup.py", "*.tmp",
		},
		Workers: runtime.NumCPU(),
	}
}

// Load 从 YAML 文件读取配置。
// 文件中未出现的字段保留默认值，未知字段直接报错。
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	cfg.setDefaults()
	return cfg, nil
}

// setDefaults 对解码后仍为零值的字段补默认值。
func (c *Config) setDefaults() {
	if len(c.Metrics) == 0 {
		c.Metrics = Default().Metrics
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}
