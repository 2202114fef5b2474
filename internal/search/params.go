package search

import (
	"errors"
	"fmt"
	"strings"
)

// TimeRange 时间范围过滤
type TimeRange string

const (
	TimeRangeNone  TimeRange = ""
	TimeRangeDay   TimeRange = "day"
	TimeRangeMonth TimeRange = "month"
	TimeRangeYear  TimeRange = "year"
)

// ValidTimeRanges 允许的时间范围
var ValidTimeRanges = []string{string(TimeRangeDay), string(TimeRangeMonth), string(TimeRangeYear)}

// ErrInvalidTimeRange 时间范围不在 day/month/year 之中
var ErrInvalidTimeRange = errors.New("invalid time range")

// ParseTimeRange 解析时间范围，空串表示不过滤
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case TimeRangeNone, TimeRangeDay, TimeRangeMonth, TimeRangeYear:
		return TimeRange(s), nil
	default:
		return TimeRangeNone, fmt.Errorf("%w: %q (allowed: %s)", ErrInvalidTimeRange, s, strings.Join(ValidTimeRanges, ", "))
	}
}

// ParseList 解析逗号分隔的列表，去掉空白和空项
// 不去重、不改大小写；输入为空时返回 nil
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
