// Package cmd 提供 pymetrics 的命令行入口与子命令编排。
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pymetrics/internal/analyser"
)

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	// .env 不存在时静默跳过，仅用于给 PYMETRICS_CONFIG 这类变量兜底。
	_ = godotenv.Load()

	registry := analyser.NewRegistry()
	rootCmd := newRootCmd(version, registry)
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, registry *analyser.Registry) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pymetrics",
		Short: "Python 源码度量分析插件",
		Long: "pymetrics 是面向静态分析宿主框架的 Python 度量插件，\n" +
			"按文件统计 tloc/loc/cloc/nom 四项指标，支持并发遍历与宿主 JSON 导出。",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newMetricCmd())
	rootCmd.AddCommand(newAnalyseCmd(registry))

	return rootCmd
}
