package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pymetrics/internal/analyser"
	"pymetrics/internal/config"
	"pymetrics/internal/model"
)

// writeFixtureFile 是测试辅助函数，用于在临时目录快速落地测试文件。
func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newTestWalker 用默认配置（可被 mutate 调整）构造遍历服务。
func newTestWalker(t *testing.T, mutate func(cfg *config.Config)) *Walker {
	t.Helper()

	cfg := config.Default()
	cfg.Workers = 2
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())
	return New(analyser.NewRegistry(), cfg)
}

// TestWalkSingleFile 验证直接传单文件路径的完整输出。
func TestWalkSingleFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "single.py")

	writeFixtureFile(t, filePath, strings.Join([]string{
		"# top comment",
		"def main():",
		"    pass",
	}, "\n"))

	result, err := newTestWalker(t, nil).Walk(filePath)
	require.NoError(t, err)

	assert.Equal(t, "1.0", result.Version)
	assert.Equal(t, "single.py", result.Title)
	assert.Equal(t, "Analysis of single.py", result.Description)
	assert.Len(t, result.Metrics, 4)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Files, 1)
	fileMetrics := result.Files[0]
	assert.Equal(t, "single.py", fileMetrics.Path)
	assert.Equal(t, "python", fileMetrics.Language)
	assert.Equal(t, int64(3), fileMetrics.Metrics.Total)
	assert.Equal(t, int64(2), fileMetrics.Metrics.Code)
	assert.Equal(t, int64(1), fileMetrics.Metrics.Comment)
	assert.Equal(t, int64(1), fileMetrics.Metrics.Methods)

	require.NotNil(t, result.Hierarchy)
	assert.Equal(t, model.NodeTypeFile, result.Hierarchy.Type)
	assert.Equal(t, "single.py", result.Hierarchy.Name)
	assert.Equal(t, int64(3), result.Hierarchy.Metrics[model.MetricTLOC])

	_, parseErr := time.Parse(time.RFC3339, result.Hierarchy.LastModified)
	assert.NoError(t, parseErr, "lastModified should be RFC 3339")
}

// TestWalkDirectoryWithExclusions 验证排除目录、排除模式和隐藏条目的跳过。
func TestWalkDirectoryWithExclusions(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "src", "main.py"), "def main(): pass")
	writeFixtureFile(t, filepath.Join(tempDir, "src", "test_file.py"), "def test(): pass")
	writeFixtureFile(t, filepath.Join(tempDir, "__pycache__", "cache.py"), "cached = True")
	writeFixtureFile(t, filepath.Join(tempDir, ".hidden", "secret.py"), "secret = 1")
	writeFixtureFile(t, filepath.Join(tempDir, "README.md"), "# not python")

	service := newTestWalker(t, func(cfg *config.Config) {
		cfg.ExcludeFilenames = []string{"test_*.py"}
	})
	result, err := service.Walk(tempDir)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "src/main.py", result.Files[0].Path)
	assert.Equal(t, int64(1), result.Total.Files)

	require.NotNil(t, result.Hierarchy)
	require.Len(t, result.Hierarchy.Children, 1)
	srcNode := result.Hierarchy.Children[0]
	assert.Equal(t, model.NodeTypeFolder, srcNode.Type)
	assert.Equal(t, "src", srcNode.Name)
	require.Len(t, srcNode.Children, 1)
	assert.Equal(t, "main.py", srcNode.Children[0].Name)
}

// TestWalkEmptyDirectory 验证空目录得到空结果而不是错误。
func TestWalkEmptyDirectory(t *testing.T) {
	tempDir := t.TempDir()

	result, err := newTestWalker(t, nil).Walk(tempDir)
	require.NoError(t, err)

	assert.Empty(t, result.Files)
	assert.Empty(t, result.Errors)
	assert.Equal(t, int64(0), result.Total.Files)

	require.NotNil(t, result.Hierarchy)
	assert.Equal(t, model.NodeTypeFolder, result.Hierarchy.Type)
	assert.Empty(t, result.Hierarchy.Children)
}

// TestWalkNestedHierarchy 验证层级树的结构与排序。
func TestWalkNestedHierarchy(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "a", "b", "c.py"), "x = 1")
	writeFixtureFile(t, filepath.Join(tempDir, "a", "d.py"), "y = 2")
	writeFixtureFile(t, filepath.Join(tempDir, "top.py"), "z = 3")

	result, err := newTestWalker(t, nil).Walk(tempDir)
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, "a/b/c.py", result.Files[0].Path)
	assert.Equal(t, "a/d.py", result.Files[1].Path)
	assert.Equal(t, "top.py", result.Files[2].Path)

	root := result.Hierarchy
	require.NotNil(t, root)
	require.Len(t, root.Children, 2)

	folderA := root.Children[0]
	assert.Equal(t, "a", folderA.Name)
	require.Len(t, folderA.Children, 2)
	assert.Equal(t, "b", folderA.Children[0].Name)
	assert.Equal(t, model.NodeTypeFolder, folderA.Children[0].Type)
	assert.Equal(t, "d.py", folderA.Children[1].Name)

	assert.Equal(t, "top.py", root.Children[1].Name)
	assert.Equal(t, model.NodeTypeFile, root.Children[1].Type)
}

// TestWalkMetricSelection 验证指标选择只过滤指标目录，
// 文件节点仍携带完整的指标映射（宿主按目录裁剪展示）。
func TestWalkMetricSelection(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "app.py"), "def f():\n    return 1\n")

	service := newTestWalker(t, func(cfg *config.Config) {
		cfg.Metrics = []string{model.MetricLOC, model.MetricNOM}
	})
	result, err := service.Walk(tempDir)
	require.NoError(t, err)

	require.Len(t, result.Metrics, 2)
	assert.Equal(t, model.MetricLOC, result.Metrics[0].ID)
	assert.Equal(t, model.MetricNOM, result.Metrics[1].ID)

	require.Len(t, result.Hierarchy.Children, 1)
	assert.Len(t, result.Hierarchy.Children[0].Metrics, 4)
}

// TestWalkMalformedPythonStillCounted 验证语法坏掉的文件照常统计而不是报错。
func TestWalkMalformedPythonStillCounted(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "broken.py"), "def broken(:\n    ???\n")

	result, err := newTestWalker(t, nil).Walk(tempDir)
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	require.Len(t, result.Files, 1)
	assert.Equal(t, int64(2), result.Files[0].Metrics.Code)
	assert.Equal(t, int64(1), result.Files[0].Metrics.Methods)
}

// TestWalkUnsupportedSingleFile 验证单文件模式下不支持后缀会返回错误。
func TestWalkUnsupportedSingleFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "demo.txt")
	writeFixtureFile(t, filePath, "plain text")

	_, err := newTestWalker(t, nil).Walk(filePath)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported file extension")
}

// TestWalkCustomTitleAndDescription 验证配置里的标题与描述优先生效。
func TestWalkCustomTitleAndDescription(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "app.py"), "x = 1")

	service := newTestWalker(t, func(cfg *config.Config) {
		cfg.Title = "My Project"
		cfg.Description = "Custom description"
	})
	result, err := service.Walk(tempDir)
	require.NoError(t, err)

	assert.Equal(t, "My Project", result.Title)
	assert.Equal(t, "Custom description", result.Description)
}
