// Package walker 提供并发的项目遍历调度能力。
// 该层负责目录遍历、排除规则、任务分发、并发执行和结果组装，
// 不负责单文件的行分类细节。
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"pymetrics/internal/analyser"
	"pymetrics/internal/config"
	"pymetrics/internal/model"
)

// schemaVersion 是宿主数据接口的版本号。
const schemaVersion = "1.0"

// Walker 是项目遍历服务对象。
type Walker struct {
	registry *analyser.Registry
	cfg      config.Config
}

// walkTask 表示一个待分析文件任务。
type walkTask struct {
	absolutePath string
	displayPath  string
	analyser     analyser.Analyser
}

// fileResult 表示单文件的成功产物。
type fileResult struct {
	metrics      model.FileMetrics
	lastModified string
}

// workerResult 表示 worker 的执行产物。
type workerResult struct {
	file    *fileResult
	failure *model.AnalyseError
}

// New 创建遍历服务。
// 配置应当已通过 Validate，worker 数在这里只做兜底。
func New(registry *analyser.Registry, cfg config.Config) *Walker {
	if cfg.Workers <= 0 {
		cfg.Workers = config.Default().Workers
	}
	return &Walker{
		registry: registry,
		cfg:      cfg,
	}
}

// Walk 遍历目录或单文件并返回完整分析结果。
// 单文件失败只产生一条错误记录，不会中断其余文件的分析。
func (w *Walker) Walk(targetPath string) (model.ProjectData, error) {
	var result model.ProjectData

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, errors.New("analyse path is empty")
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		return result, fmt.Errorf("stat path: %w", err)
	}

	slog.Info("starting analysis", "path", absoluteTarget, "workers", w.cfg.Workers)

	tasks := make(chan walkTask, w.cfg.Workers*4)
	results := make(chan workerResult, w.cfg.Workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			w.runWorker(tasks, results)
		}()
	}

	go func() {
		defer close(tasks)
		if info.IsDir() {
			walkErrChan <- w.enqueueDirectoryTasks(absoluteTarget, tasks)
			return
		}
		walkErrChan <- w.enqueueSingleFileTask(absoluteTarget, tasks)
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	files := make([]fileResult, 0)
	result.Files = make([]model.FileMetrics, 0)
	result.Errors = make([]model.AnalyseError, 0)

	for item := range results {
		if item.file != nil {
			files = append(files, *item.file)
		}
		if item.failure != nil {
			result.Errors = append(result.Errors, *item.failure)
		}
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return result, walkErr
	}

	w.assemble(&result, absoluteTarget, info.IsDir(), files)

	slog.Info("analysis completed",
		"title", result.Title,
		"files", result.Total.Files,
		"errors", len(result.Errors),
	)
	return result, nil
}

// shouldExcludeDirectory 按目录名精确匹配排除清单。
func (w *Walker) shouldExcludeDirectory(name string) bool {
	for _, excluded := range w.cfg.ExcludeDirectories {
		if name == excluded {
			return true
		}
	}
	return false
}

// shouldExcludeFile 用 glob 模式同时匹配文件名和相对路径。
// 模式在配置校验阶段已编译检查过，这里忽略匹配错误。
func (w *Walker) shouldExcludeFile(baseName string, relativePath string) bool {
	for _, pattern := range w.cfg.ExcludeFilenames {
		if ok, _ := path.Match(pattern, baseName); ok {
			slog.Debug("excluding file by pattern", "file", relativePath, "pattern", pattern)
			return true
		}
		if ok, _ := path.Match(pattern, relativePath); ok {
			slog.Debug("excluding file by pattern", "file", relativePath, "pattern", pattern)
			return true
		}
	}
	return false
}

// enqueueDirectoryTasks 遍历目录并把可识别语言文件推入任务队列。
// 隐藏条目和排除清单命中的条目整棵跳过。
func (w *Walker) enqueueDirectoryTasks(root string, tasks chan<- walkTask) error {
	return filepath.WalkDir(root, func(currentPath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		name := entry.Name()

		if entry.IsDir() {
			if currentPath == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || w.shouldExcludeDirectory(name) {
				slog.Debug("skipping directory", "path", currentPath)
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		item, ok := w.registry.AnalyserForFile(currentPath)
		if !ok {
			return nil
		}

		relativePath, relErr := filepath.Rel(root, currentPath)
		if relErr != nil {
			relativePath = currentPath
		}
		relativePath = filepath.ToSlash(relativePath)

		if w.shouldExcludeFile(name, relativePath) {
			return nil
		}

		tasks <- walkTask{
			absolutePath: currentPath,
			displayPath:  relativePath,
			analyser:     item,
		}
		return nil
	})
}

// enqueueSingleFileTask 在用户给定单文件路径时创建任务。
// 显式指定的文件不走排除清单。
func (w *Walker) enqueueSingleFileTask(filePath string, tasks chan<- walkTask) error {
	item, ok := w.registry.AnalyserForFile(filePath)
	if !ok {
		return fmt.Errorf("unsupported file extension: %s", filepath.Ext(filePath))
	}

	tasks <- walkTask{
		absolutePath: filePath,
		displayPath:  filepath.Base(filePath),
		analyser:     item,
	}
	return nil
}

// runWorker 执行真实的文件读取和逐行分析。
func (w *Walker) runWorker(tasks <-chan walkTask, results chan<- workerResult) {
	for task := range tasks {
		file, openErr := os.Open(task.absolutePath)
		if openErr != nil {
			results <- failureResult(task.displayPath, openErr)
			continue
		}

		metrics, analyseErr := task.analyser.Analyse(file)
		closeErr := file.Close()

		if analyseErr != nil {
			results <- failureResult(task.displayPath, analyseErr)
			continue
		}
		if closeErr != nil {
			results <- failureResult(task.displayPath, closeErr)
			continue
		}

		lastModified := ""
		if info, statErr := os.Stat(task.absolutePath); statErr == nil {
			lastModified = info.ModTime().Format(time.RFC3339)
		}

		results <- workerResult{
			file: &fileResult{
				metrics: model.FileMetrics{
					Path:     task.displayPath,
					Language: task.analyser.Language(),
					Metrics:  metrics,
				},
				lastModified: lastModified,
			},
		}
	}
}

// failureResult 把单文件错误包装成结果记录。
func failureResult(displayPath string, err error) workerResult {
	slog.Warn("file analysis failed", "file", displayPath, "error", err)
	return workerResult{
		failure: &model.AnalyseError{
			Path:  displayPath,
			Error: err.Error(),
		},
	}
}

// assemble 排序扁平结果、累计总计并组装层级树和项目元信息。
func (w *Walker) assemble(result *model.ProjectData, absoluteTarget string, isDir bool, files []fileResult) {
	sort.Slice(files, func(i int, j int) bool {
		return files[i].metrics.Path < files[j].metrics.Path
	})
	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	result.Total = model.TotalMetrics{}
	for _, item := range files {
		result.Files = append(result.Files, item.metrics)
		result.Total.AddFileMetrics(item.metrics.Metrics)
	}

	rootName := filepath.Base(absoluteTarget)

	result.Version = schemaVersion
	result.Title = w.cfg.Title
	if result.Title == "" {
		result.Title = rootName
	}
	result.Description = w.cfg.Description
	if result.Description == "" {
		result.Description = fmt.Sprintf("Analysis of %s", result.Title)
	}
	result.Metrics = model.MetricDefsByID(w.cfg.Metrics)
	result.Hierarchy = buildHierarchy(rootName, isDir, files)
}

// buildHierarchy 从排好序的相对路径构造 folder/file 层级树。
// 目录节点按需创建，因此没有命中文件的目录天然不会出现在树里。
func buildHierarchy(rootName string, isDir bool, files []fileResult) *model.Node {
	if !isDir {
		if len(files) == 0 {
			return nil
		}
		return fileNode(filepath.Base(files[0].metrics.Path), files[0])
	}

	root := &model.Node{
		Name:     rootName,
		Type:     model.NodeTypeFolder,
		Children: make([]*model.Node, 0),
	}

	for _, item := range files {
		segments := strings.Split(item.metrics.Path, "/")
		current := root
		for _, segment := range segments[:len(segments)-1] {
			current = childFolder(current, segment)
		}
		current.Children = append(current.Children, fileNode(segments[len(segments)-1], item))
	}

	return root
}

// childFolder 查找或创建名为 name 的子目录节点。
// 输入路径已排序，同名目录的文件总是连续出现，取末位即可。
func childFolder(parent *model.Node, name string) *model.Node {
	if count := len(parent.Children); count > 0 {
		last := parent.Children[count-1]
		if last.Type == model.NodeTypeFolder && last.Name == name {
			return last
		}
	}

	folder := &model.Node{
		Name:     name,
		Type:     model.NodeTypeFolder,
		Children: make([]*model.Node, 0),
	}
	parent.Children = append(parent.Children, folder)
	return folder
}

// fileNode 把单文件结果转换为层级树文件节点。
func fileNode(name string, item fileResult) *model.Node {
	return &model.Node{
		Name:         name,
		Type:         model.NodeTypeFile,
		Language:     item.metrics.Language,
		LastModified: item.lastModified,
		Metrics:      item.metrics.Metrics.Values(),
	}
}
