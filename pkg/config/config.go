// Package config loads the server configuration: listen port, batch limits and
// the indexes to register at startup.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/adfharrison1/go-filter/pkg/domain"
)

// IndexType selects how a field value is turned into an index key.
type IndexType string

const (
	TypeRaw    IndexType = "raw"
	TypeNumber IndexType = "number"
	TypeString IndexType = "string"
	TypeBool   IndexType = "bool"
	TypeTime   IndexType = "time"
)

// IndexDef declares a named index over a record field
type IndexDef struct {
	Name  string    `yaml:"name" json:"name"`
	Field string    `yaml:"field" json:"field"`
	Type  IndexType `yaml:"type" json:"type"`
}

// Config is the server configuration
type Config struct {
	Port     string     `yaml:"port"`
	MaxBatch int        `yaml:"max_batch"`
	Seed     string     `yaml:"seed"`
	Indexes  []IndexDef `yaml:"indexes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Port:     "8080",
		MaxBatch: 1000,
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (cfg *Config, err error) {

	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read from %s", path)
		return
	}

	cfg = Default()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to unmarshal %s", path)
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return
}

// Validate checks the configuration and fills in index defaults.
func (cfg *Config) Validate() error {
	if cfg.MaxBatch <= 0 {
		return errors.Errorf("max_batch must be positive, got %d", cfg.MaxBatch)
	}

	seen := make(map[string]bool, len(cfg.Indexes))
	for i := range cfg.Indexes {
		def := &cfg.Indexes[i]
		if err := def.Validate(); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
		if seen[def.Name] {
			return errors.Errorf("index %s declared twice", def.Name)
		}
		seen[def.Name] = true
	}
	return nil
}

// Validate checks the definition. An empty field defaults to the name and an
// empty type to raw.
func (def *IndexDef) Validate() error {
	if def.Name == "" {
		return errors.New("index name is required")
	}
	if def.Field == "" {
		def.Field = def.Name
	}
	switch def.Type {
	case "":
		def.Type = TypeRaw
	case TypeRaw, TypeNumber, TypeString, TypeBool, TypeTime:
	default:
		return errors.Errorf("unknown index type %q", def.Type)
	}
	return nil
}

// KeyFunc builds the key function for the definition. Field is a dotted path
// into nested records, e.g. "owner.login". Values that cannot be converted to
// the index type yield a nil key.
func (def IndexDef) KeyFunc() domain.KeyFunc {
	path := strings.Split(def.Field, ".")
	convert := converters[def.Type]
	if convert == nil {
		convert = converters[TypeRaw]
	}
	return func(r domain.Record) interface{} {
		return convert(lookup(r, path))
	}
}

// Convert turns v into a key of type t, or nil when v does not convert.
func (t IndexType) Convert(v interface{}) interface{} {
	convert := converters[t]
	if convert == nil {
		return v
	}
	return convert(v)
}

func lookup(r domain.Record, path []string) interface{} {
	var cur interface{} = map[string]interface{}(r)
	for _, part := range path {
		switch m := cur.(type) {
		case map[string]interface{}:
			cur = m[part]
		case domain.Record:
			cur = m[part]
		default:
			return nil
		}
	}
	return cur
}

var converters = map[IndexType]func(interface{}) interface{}{
	TypeRaw: func(v interface{}) interface{} { return v },
	TypeNumber: func(v interface{}) interface{} {
		if f, ok := domain.ToFloat64(v); ok {
			return f
		}
		return nil
	},
	TypeString: func(v interface{}) interface{} {
		if s, ok := v.(string); ok {
			return s
		}
		return nil
	},
	TypeBool: func(v interface{}) interface{} {
		if b, ok := v.(bool); ok {
			return b
		}
		return nil
	},
	// unix milliseconds
	TypeTime: func(v interface{}) interface{} {
		switch t := v.(type) {
		case time.Time:
			return t.UnixMilli()
		case string:
			ts, err := time.Parse(time.RFC3339, t)
			if err != nil {
				return nil
			}
			return ts.UnixMilli()
		}
		return nil
	},
}
