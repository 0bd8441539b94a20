// Package engines opens a vectordb.Engine by type
package engines

import (
	"fmt"

	"github.com/bububa/kichat/components/vectordb"
	"github.com/bububa/kichat/components/vectordb/engines/chromem"
	"github.com/bububa/kichat/components/vectordb/engines/memory"
)

var (
	FromChromem = chromem.New
	FromMemory  = memory.New
)

// New returns the engine selected by WithEngine, chromem when unset
func New(opts ...vectordb.Option) (vectordb.Engine, error) {
	var cfg vectordb.Options
	for _, opt := range opts {
		opt(&cfg)
	}
	switch cfg.EngineType {
	case vectordb.Memory:
		return memory.New(opts...), nil
	case vectordb.Chromem, "":
		return chromem.NewPersistent(cfg.Path, cfg.Compress, opts...)
	default:
		return nil, fmt.Errorf("unknown vector engine %q", cfg.EngineType)
	}
}
