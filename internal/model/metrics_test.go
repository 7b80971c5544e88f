package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMetricsRecordAdd 验证统计值叠加。
func TestMetricsRecordAdd(t *testing.T) {
	total := MetricsRecord{Total: 10, Code: 6, Comment: 2, Methods: 1}
	total.Add(MetricsRecord{Total: 5, Code: 3, Comment: 1, Methods: 2})

	assert.Equal(t, MetricsRecord{Total: 15, Code: 9, Comment: 3, Methods: 3}, total)
}

// TestTotalMetricsAddFileMetrics 验证项目总计的文件计数。
func TestTotalMetricsAddFileMetrics(t *testing.T) {
	var total TotalMetrics
	total.AddFileMetrics(MetricsRecord{Total: 3, Code: 2, Comment: 1})
	total.AddFileMetrics(MetricsRecord{Total: 1, Code: 1})

	assert.Equal(t, int64(2), total.Files)
	assert.Equal(t, int64(4), total.Total)
	assert.Equal(t, int64(3), total.Code)
	assert.Equal(t, int64(1), total.Comment)
}

// TestValues 验证指标映射包含全部四个 ID。
func TestValues(t *testing.T) {
	record := MetricsRecord{Total: 7, Code: 4, Comment: 2, Methods: 1}
	values := record.Values()

	assert.Equal(t, int64(7), values[MetricTLOC])
	assert.Equal(t, int64(4), values[MetricLOC])
	assert.Equal(t, int64(2), values[MetricCLOC])
	assert.Equal(t, int64(1), values[MetricNOM])
}

// TestMetricDefsByID 验证选择结果按目录顺序排列且忽略未知 ID。
func TestMetricDefsByID(t *testing.T) {
	defs := MetricDefsByID([]string{MetricTLOC, MetricLOC, "unknown"})

	assert.Len(t, defs, 2)
	assert.Equal(t, MetricLOC, defs[0].ID)
	assert.Equal(t, MetricTLOC, defs[1].ID)
}

// TestKnownMetricID 验证指标 ID 合法性判断。
func TestKnownMetricID(t *testing.T) {
	assert.True(t, KnownMetricID(MetricNOM))
	assert.False(t, KnownMetricID("complexity"))
}
