package event

import "time"

// ListKind identifies one of the two user-ordered lists.
type ListKind string

const (
	KindCategory ListKind = "category"
	KindTaskType ListKind = "taskType"
)

func (k ListKind) Valid() bool {
	return k == KindCategory || k == KindTaskType
}

// LogEntry is a completed interruption. Entries are append-only; slice order
// is chronological order.
type LogEntry struct {
	Timestamp int64  `json:"timestamp" yaml:"timestamp"` // epoch ms, start of the interruption
	Category  string `json:"category" yaml:"category"`
	Duration  int64  `json:"duration" yaml:"duration"` // seconds
	Memo      string `json:"memo" yaml:"memo"`
	TaskType  string `json:"taskType" yaml:"taskType"`
}

func (e LogEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// CurrentInterruption is the single in-flight interruption, if any.
type CurrentInterruption struct {
	Category  string `json:"category" yaml:"category"`
	StartTime int64  `json:"startTime" yaml:"startTime"` // epoch ms
	Memo      string `json:"memo" yaml:"memo"`
	TaskType  string `json:"taskType" yaml:"taskType"`
}

func (c CurrentInterruption) Started() time.Time {
	return time.UnixMilli(c.StartTime)
}

// Default lists, used only when the store holds no value for the key.
var (
	DefaultCategories = []string{"📞 電話", "🗣️ 相談", "📧 メール", "🔥 至急案件", "🤔 その他"}
	DefaultTaskTypes  = []string{"要件定義", "設計", "実装", "テスト", "MTG", "調査", "その他"}
)
