package analyser

import (
	"strings"

	"pymetrics/internal/model"
)

// normalizeLine 用于去除每行末尾的换行符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// applyLineClassification 根据单行分类结果更新统计值。
//
// 约束说明：
// - 每次调用都默认是“处理完一整行”，因此 Total 固定 +1
// - 分类互斥：注释行只计 Comment，非空白的非注释行只计 Code
// - 空白行两者都不计，保证 Code + Comment <= Total
// - 文档字符串块内的空白行由 isComment 覆盖，按注释计
func applyLineClassification(metrics *model.MetricsRecord, stripped string, isComment bool) {
	metrics.Total++

	if isComment {
		metrics.Comment++
		return
	}

	if stripped != "" {
		metrics.Code++
	}
}
