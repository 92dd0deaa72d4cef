package history

import (
	"fmt"
	"strings"

	"github.com/stellarlinkco/mmlu-eval/internal/config"
)

const DefaultSQLitePath = "data/mmlu-eval.db"

func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("history: missing config")
	}

	storageType := strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if storageType == "" {
		storageType = "sqlite"
	}

	switch storageType {
	case "sqlite":
		path := strings.TrimSpace(cfg.Storage.Path)
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewStore(path)
	case "memory":
		return NewStore(":memory:")
	default:
		return nil, fmt.Errorf("history: unsupported type %q", storageType)
	}
}
