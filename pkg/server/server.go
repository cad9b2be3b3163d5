package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-filter/pkg/api"
	"github.com/adfharrison1/go-filter/pkg/codec"
	"github.com/adfharrison1/go-filter/pkg/config"
	"github.com/adfharrison1/go-filter/pkg/domain"
	"github.com/adfharrison1/go-filter/pkg/filter"
)

// Server holds references to the filter index and router
type Server struct {
	router *mux.Router
	engine *filter.FilterIndex
	cfg    *config.Config
}

// NewServer creates a server with the indexes declared in cfg registered.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := make([]filter.Option, 0, len(cfg.Indexes))
	for _, def := range cfg.Indexes {
		options = append(options, filter.WithIndex(def.Name, def.KeyFunc()))
		log.Printf("INFO: Registering index '%s' on field '%s' (%s)", def.Name, def.Field, def.Type)
	}
	engine, err := filter.New(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter index: %w", err)
	}

	s := &Server{
		router: mux.NewRouter(),
		engine: engine,
		cfg:    cfg,
	}

	api.NewHandler(engine, cfg.MaxBatch, cfg.Indexes...).RegisterRoutes(s.router)

	// Use the logging middleware for all routes
	s.router.Use(requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})

	return s, nil
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// Seed loads records from a file: a codec batch when the name ends in
// codec.FileExtension, a JSON array of objects otherwise.
func (s *Server) Seed(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var records []domain.Record
	if filepath.Ext(filename) == codec.FileExtension {
		records, err = codec.Decode(file)
	} else {
		err = json.NewDecoder(file).Decode(&records)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decode seed file %s: %w", filename, err)
	}

	s.engine.AddRecords(records...)
	log.Printf("INFO: Seeded %d records from %s", len(records), filename)
	return len(records), nil
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Engine exposes the filter index.
func (s *Server) Engine() *filter.FilterIndex {
	return s.engine
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return ":" + s.cfg.Port
}
