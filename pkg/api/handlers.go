package api

import (
	"sync"

	"github.com/adfharrison1/go-filter/pkg/config"
	"github.com/adfharrison1/go-filter/pkg/domain"
)

// DefaultMaxBatch is the largest number of records accepted by one insert
const DefaultMaxBatch = 1000

// maxRecordBytes bounds the body size of an insert, per allowed record
const maxRecordBytes = 64 << 10

// Handler provides HTTP handlers for the filter API
type Handler struct {
	engine   domain.FilterEngine
	maxBatch int

	mu    sync.RWMutex
	types map[string]config.IndexType // declared type per index
}

// NewHandler creates a new API handler with dependency injection. defs are
// the index definitions already registered on engine; query values for
// indexes without a definition are read as raw.
func NewHandler(engine domain.FilterEngine, maxBatch int, defs ...config.IndexDef) *Handler {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	h := &Handler{
		engine:   engine,
		maxBatch: maxBatch,
		types:    make(map[string]config.IndexType, len(defs)),
	}
	for _, def := range defs {
		h.types[def.Name] = def.Type
	}
	return h
}

func (h *Handler) indexType(name string) config.IndexType {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if typ, ok := h.types[name]; ok {
		return typ
	}
	return config.TypeRaw
}

func (h *Handler) setIndexType(name string, typ config.IndexType) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types[name] = typ
}

func (h *Handler) dropIndexType(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.types, name)
}

// maxBodyBytes is the largest insert body accepted.
func (h *Handler) maxBodyBytes() int64 {
	return int64(h.maxBatch) * maxRecordBytes
}
