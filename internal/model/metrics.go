// Package model 定义 pymetrics 的核心数据模型。
// 这些结构会被分析器、遍历器、输出层和命令层共同使用，
// JSON 字段名与宿主框架的数据接口保持一致。
package model

// 内置度量 ID 常量，与宿主框架约定的指标标识一一对应。
const (
	MetricLOC  = "loc"
	MetricCLOC = "cloc"
	MetricNOM  = "nom"
	MetricTLOC = "tloc"
)

// MetricsRecord 表示单文件的四项度量值。
//
// 注意：
// - Total 表示总行数（按 \n 切分，末尾换行符之后的空段不计行）
// - Code 与 Comment 互斥：一行要么是代码，要么是注释
// - 空白行两者都不计，因此恒有 Code + Comment <= Total
type MetricsRecord struct {
	Total   int64 `json:"tloc"`
	Code    int64 `json:"loc"`
	Comment int64 `json:"cloc"`
	Methods int64 `json:"nom"`
}

// Add 将另一个统计结果叠加到当前对象。
func (m *MetricsRecord) Add(other MetricsRecord) {
	m.Total += other.Total
	m.Code += other.Code
	m.Comment += other.Comment
	m.Methods += other.Methods
}

// Values 返回度量 ID 到数值的完整映射。
// 宿主按“指标名 -> 数值”的形式消费单文件结果。
func (m MetricsRecord) Values() map[string]int64 {
	return map[string]int64{
		MetricTLOC: m.Total,
		MetricLOC:  m.Code,
		MetricCLOC: m.Comment,
		MetricNOM:  m.Methods,
	}
}

// MetricDef 描述一个可计算指标的元信息。
// Aggregate 与 Propagate 指示宿主如何在目录层级上聚合该指标。
type MetricDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Aggregate   string `json:"aggregate"`
	Propagate   bool   `json:"propagate"`
}

// AllMetricDefs 返回内置指标目录。
// 顺序固定，保证输出和展示的稳定性。
func AllMetricDefs() []MetricDef {
	return []MetricDef{
		{
			ID:          MetricLOC,
			Name:        "Lines of Code",
			Description: "Number of non-empty, non-comment lines",
			Type:        "number",
			Aggregate:   "sum",
			Propagate:   true,
		},
		{
			ID:          MetricCLOC,
			Name:        "Comment Lines",
			Description: "Number of comment lines",
			Type:        "number",
			Aggregate:   "sum",
			Propagate:   true,
		},
		{
			ID:          MetricNOM,
			Name:        "Method Count",
			Description: "Number of methods and functions",
			Type:        "number",
			Aggregate:   "sum",
			Propagate:   true,
		},
		{
			ID:          MetricTLOC,
			Name:        "Total Lines",
			Description: "Total number of lines in file",
			Type:        "number",
			Aggregate:   "sum",
			Propagate:   true,
		},
	}
}

// MetricDefsByID 按目录顺序返回 ids 中出现的指标定义。
// 未知 ID 直接忽略，合法性校验由 config 层负责。
func MetricDefsByID(ids []string) []MetricDef {
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	result := make([]MetricDef, 0, len(ids))
	for _, def := range AllMetricDefs() {
		if requested[def.ID] {
			result = append(result, def)
		}
	}
	return result
}

// KnownMetricID 判断指标 ID 是否在内置目录中。
func KnownMetricID(id string) bool {
	for _, def := range AllMetricDefs() {
		if def.ID == id {
			return true
		}
	}
	return false
}

// FileMetrics 表示单文件分析结果的扁平视图。
type FileMetrics struct {
	Path     string        `json:"path"`
	Language string        `json:"language"`
	Metrics  MetricsRecord `json:"metrics"`
}

// AnalyseError 记录单文件分析失败信息。
// 设计为“错误不阻断全量分析”，不可读文件只产生一条失败记录。
type AnalyseError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// 层级节点类型。
const (
	NodeTypeFolder = "folder"
	NodeTypeFile   = "file"
)

// Node 是项目层级树节点，对应宿主数据接口中的 folder/file 节点。
// 文件节点携带语言、修改时间和指标映射，目录节点只有子节点列表。
type Node struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Language     string           `json:"language,omitempty"`
	LastModified string           `json:"lastModified,omitempty"`
	Metrics      map[string]int64 `json:"metrics,omitempty"`
	Children     []*Node          `json:"children,omitempty"`
}

// TotalMetrics 表示项目级总计信息。
// 在 MetricsRecord 基础上额外增加 Files 字段，
// 用于表达“本次分析统计到了多少个有效源码文件”。
type TotalMetrics struct {
	Files int64 `json:"files"`
	MetricsRecord
}

// AddFileMetrics 累加一个文件的统计值到项目总计中。
func (m *TotalMetrics) AddFileMetrics(other MetricsRecord) {
	m.Files++
	m.MetricsRecord.Add(other)
}

// ProjectData 是一次完整分析的输出模型。
// Hierarchy 是宿主期望的层级视图，Files/Errors/Total 是
// 面向表格输出的扁平视图，两者来自同一批单文件记录。
type ProjectData struct {
	Version     string         `json:"version"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Metrics     []MetricDef    `json:"metrics"`
	Hierarchy   *Node          `json:"hierarchy"`
	Files       []FileMetrics  `json:"files"`
	Total       TotalMetrics   `json:"total"`
	Errors      []AnalyseError `json:"errors"`
}
