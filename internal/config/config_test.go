package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pymetrics/internal/model"
)

// writeConfigFile 是测试辅助函数，用于在临时目录落地配置文件。
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pymetrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestConfigDefaults 验证默认配置完整且可通过校验。
func TestConfigDefaults(t *testing.T) {
	cfg := Default()

	assert.Positive(t, cfg.Workers)
	assert.Equal(t, []string{model.MetricLOC, model.MetricCLOC, model.MetricNOM, model.MetricTLOC}, cfg.Metrics)
	assert.Contains(t, cfg.ExcludeDirectories, "__pycache__")
	assert.Contains(t, cfg.ExcludeFilenames, "setup.py")
	assert.NoError(t, cfg.Validate())
}

// TestConfigLoadOverrides 验证文件字段覆盖默认值、缺省字段保留默认值。
func TestConfigLoadOverrides(t *testing.T) {
	path := writeConfigFile(t, `
title: demo
metrics:
  - loc
exclude_directories: []
workers: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Title)
	assert.Equal(t, []string{"loc"}, cfg.Metrics)
	assert.Empty(t, cfg.ExcludeDirectories, "显式空列表应清空默认排除目录")
	assert.Equal(t, Default().ExcludeFilenames, cfg.ExcludeFilenames, "缺省字段保留默认值")
	assert.Equal(t, 2, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}

// TestConfigLoadUnknownField 验证严格解码拒绝未知字段。
func TestConfigLoadUnknownField(t *testing.T) {
	path := writeConfigFile(t, "bogus: 1\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "decode config")
}

// TestConfigLoadMissingFile 验证不存在的配置文件报错。
func TestConfigLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

// TestConfigValidate 验证各字段的校验规则。
func TestConfigValidate(t *testing.T) {
	cfg := Default()
	cfg.Workers = -1
	assert.ErrorContains(t, cfg.Validate(), "workers")

	cfg = Default()
	cfg.Metrics = []string{"loc", "complexity"}
	assert.ErrorContains(t, cfg.Validate(), "unknown metric id")

	cfg = Default()
	cfg.ExcludeFilenames = []string{"["}
	assert.ErrorContains(t, cfg.Validate(), "invalid exclude_filenames pattern")
}
