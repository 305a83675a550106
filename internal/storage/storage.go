package storage

import (
	"context"
)

type Key string

const (
	KeyLogs       Key = "interruption_logs"
	KeyCurrent    Key = "current_interruption"
	KeyCategories Key = "categories"
	KeyTaskTypes  Key = "task_types"
)

// AllKeys lists every key the application reads on start.
var AllKeys = []Key{KeyLogs, KeyCurrent, KeyCategories, KeyTaskTypes}

// Storage is a key/value store holding JSON documents. Set writes all values
// atomically; the last write for a key wins.
type Storage interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, keys ...Key) (map[Key][]byte, error)
	Set(ctx context.Context, values map[Key][]byte) error
	Path() string
	Close() error
}
