package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pymetrics/internal/analyser"
	"pymetrics/internal/config"
	"pymetrics/internal/report"
	"pymetrics/internal/walker"
)

// configEnvVar 指定配置文件路径的环境变量名，可由 .env 提供。
const configEnvVar = "PYMETRICS_CONFIG"

// analyseOptions 存放 analyse 命令的可配置参数。
type analyseOptions struct {
	format             string
	output             string
	configPath         string
	title              string
	description        string
	metrics            []string
	excludeDirectories []string
	excludeFilenames   []string
	workers            int
	verbose            bool
}

// newAnalyseCmd 创建 analyse 子命令。
// 示例：
//
//	pymetrics analyse .
//	pymetrics analyse ./project --metrics loc,nom --format json --output result.json
func newAnalyseCmd(registry *analyser.Registry) *cobra.Command {
	options := analyseOptions{
		format: "table",
		output: "output.json",
	}

	analyseCmd := &cobra.Command{
		Use:   "analyse [path]",
		Short: "分析目录或文件并输出 Python 度量信息",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd, options.verbose)

			format := strings.ToLower(strings.TrimSpace(options.format))
			if format != "table" && format != "json" {
				return errors.New("unsupported format, allowed values: table, json")
			}

			cfg, err := resolveConfig(cmd, options)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			service := walker.New(registry, cfg)
			result, err := service.Walk(args[0])
			if err != nil {
				return err
			}

			switch format {
			case "table":
				return report.PrintTable(cmd.OutOrStdout(), result)
			case "json":
				if err := report.PrintJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}

				outputPath := strings.TrimSpace(options.output)
				if outputPath == "" {
					outputPath = "output.json"
				}
				if err := report.WriteJSONFile(outputPath, result); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nJSON exported to %s\n", outputPath)
				return nil
			default:
				return errors.New("unsupported format")
			}
		},
	}

	flags := analyseCmd.Flags()
	flags.StringVar(&options.format, "format", options.format, "输出格式: table 或 json")
	flags.StringVar(&options.output, "output", options.output, "json 导出文件路径，默认 output.json")
	flags.StringVar(&options.configPath, "config", "", "YAML 配置文件路径，默认读取 $"+configEnvVar)
	flags.StringVar(&options.title, "title", "", "项目标题，默认取目标路径名")
	flags.StringVar(&options.description, "description", "", "项目描述")
	flags.StringSliceVar(&options.metrics, "metrics", nil, "要计算的指标 ID 列表，可选 loc,cloc,nom,tloc")
	flags.StringSliceVar(&options.excludeDirectories, "exclude-directories", nil, "按名称排除的目录列表")
	flags.StringSliceVar(&options.excludeFilenames, "exclude-filenames", nil, "按 glob 模式排除的文件列表")
	flags.IntVar(&options.workers, "workers", 0, "并发 worker 数量，默认 CPU 核数")
	flags.BoolVarP(&options.verbose, "verbose", "v", false, "输出 debug 级别日志")

	return analyseCmd
}

// setupLogging 配置全局 slog 输出。
// 日志写到 stderr，避免污染 stdout 上的 table/json 结果。
func setupLogging(cmd *cobra.Command, verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// resolveConfig 合并配置文件与命令行 flag。
// 优先级从低到高：内置默认值 < 配置文件 < 显式传入的 flag。
func resolveConfig(cmd *cobra.Command, options analyseOptions) (config.Config, error) {
	cfg := config.Default()

	configPath := strings.TrimSpace(options.configPath)
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv(configEnvVar))
	}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		slog.Debug("config file loaded", "path", configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		cfg.Title = options.title
	}
	if flags.Changed("description") {
		cfg.Description = options.description
	}
	if flags.Changed("metrics") {
		cfg.Metrics = options.metrics
	}
	if flags.Changed("exclude-directories") {
		cfg.ExcludeDirectories = options.excludeDirectories
	}
	if flags.Changed("exclude-filenames") {
		cfg.ExcludeFilenames = options.excludeFilenames
	}
	if flags.Changed("workers") {
		cfg.Workers = options.workers
	}

	return cfg, nil
}
