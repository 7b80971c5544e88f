// Package analyser 提供按语言划分的单文件度量分析器。
// 注册中心按语言标识和文件后缀做双重分发，实例由宿主（或 CLI）持有，
// 分析器自身无状态，可以被并发调用。
package analyser

import (
	"io"
	"path/filepath"
	"sort"
	"strings"

	"pymetrics/internal/model"
)

// Analyser 定义单语言分析器接口。
// 每种语言必须有独立实现文件，且每次 Analyse 调用独立维护自己的行扫描状态。
type Analyser interface {
	// Language 返回语言标识（例如 python），用于宿主路由。
	Language() string
	// Extensions 返回该语言支持的后缀列表（包含点号，如 .py）。
	Extensions() []string
	// Analyse 执行流式逐行扫描并输出单文件度量结果。
	Analyse(reader io.Reader) (model.MetricsRecord, error)
}

// Descriptor 用于对外展示语言及后缀信息。
type Descriptor struct {
	Language   string
	Extensions []string
}

// Registry 管理分析器注册、语言标识映射和后缀映射。
type Registry struct {
	analysers          []Analyser
	analyserByLanguage map[string]Analyser
	analyserByExt      map[string]Analyser
}

// NewRegistry 创建并注册所有内置分析器。
func NewRegistry() *Registry {
	analysers := []Analyser{
		&PythonAnalyser{},
	}

	registry := &Registry{
		analysers:          analysers,
		analyserByLanguage: make(map[string]Analyser),
		analyserByExt:      make(map[string]Analyser),
	}

	for _, item := range analysers {
		registry.analyserByLanguage[strings.ToLower(item.Language())] = item
		for _, ext := range item.Extensions() {
			registry.analyserByExt[strings.ToLower(ext)] = item
		}
	}

	return registry
}

// AnalyserForFile 根据文件后缀查找分析器。
func (r *Registry) AnalyserForFile(path string) (Analyser, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	item, ok := r.analyserByExt[ext]
	return item, ok
}

// AnalyserForLanguage 根据语言标识查找分析器。
// 宿主按语言标签路由文件时走这条入口。
func (r *Registry) AnalyserForLanguage(language string) (Analyser, bool) {
	item, ok := r.analyserByLanguage[strings.ToLower(language)]
	return item, ok
}

// Languages 返回已注册语言清单。
func (r *Registry) Languages() []Descriptor {
	result := make([]Descriptor, 0, len(r.analysers))
	for _, item := range r.analysers {
		extensions := append([]string(nil), item.Extensions()...)
		sort.Strings(extensions)
		result = append(result, Descriptor{
			Language:   item.Language(),
			Extensions: extensions,
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Language < result[j].Language
	})

	return result
}

// ExtensionsForLanguage 返回指定语言对应的全部后缀。
func (r *Registry) ExtensionsForLanguage(language string) []string {
	item, ok := r.AnalyserForLanguage(language)
	if !ok {
		return nil
	}
	extensions := append([]string(nil), item.Extensions()...)
	sort.Strings(extensions)
	return extensions
}
