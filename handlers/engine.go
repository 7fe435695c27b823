package handlers

import (
	"sync"
	"sync/atomic"

	"github.com/kova98/adwatch.api/detector"
)

// EngineBuilder compiles a fresh engine from the current keyword sources.
type EngineBuilder func() (*detector.Engine, error)

// EngineHolder serves the active engine to concurrent requests and swaps it
// on reload. In-flight detections keep the engine they started with.
type EngineHolder struct {
	current atomic.Pointer[detector.Engine]
	build   EngineBuilder
	mu      sync.Mutex
}

func NewEngineHolder(build EngineBuilder) (*EngineHolder, error) {
	h := &EngineHolder{build: build}
	if _, err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *EngineHolder) Engine() *detector.Engine {
	return h.current.Load()
}

// Reload builds a new engine and makes it active. On error the previous
// engine stays active.
func (h *EngineHolder) Reload() (*detector.Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.build()
	if err != nil {
		return nil, err
	}
	h.current.Store(e)
	return e, nil
}
