// Package schemastore loads the published JSON Schema contract for each
// entity kind from a directory of schema documents and validates serialized
// instances against it. JSON Schema evaluation itself is delegated to
// github.com/santhosh-tekuri/jsonschema; the store only owns the
// kind-to-schema mapping and violation accumulation.
package schemastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/driftcheck/driftcheck/pkg/entity"
)

// Entry is one loaded schema document.
type Entry struct {
	// Kind is the entity kind this schema is the contract for.
	Kind entity.Kind

	// Path is the file the schema was loaded from.
	Path string

	schema *jsonschema.Schema
}

// Store is the read-only lookup from entity kind to its compiled schema.
// It is populated once per run by LoadDir and thereafter only read, so it is
// safe to share across goroutines.
type Store struct {
	logger  zerolog.Logger
	schemas map[entity.Kind]*Entry
}

// NewStore creates an empty schema store.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		logger:  logger.With().Str("component", "schema-store").Logger(),
		schemas: make(map[entity.Kind]*Entry),
	}
}

// LoadDir loads every schema document under dir. Discovery is recursive and
// deterministic: files are visited in lexical order and only .json, .yaml
// and .yml files are considered. The kind for a document comes from its
// top-level "kind" field when present, otherwise from the filename stem.
// A second document mapping to an already-loaded kind is a load-time error:
// the schema directory is corrupt and the run must not start.
func (s *Store) LoadDir(dir string) error {
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			return nil
		}
		return s.loadFile(path)
	})
	if walkErr != nil {
		return fmt.Errorf("failed to load schema directory %s: %w", dir, walkErr)
	}

	s.logger.Info().
		Int("schemas", len(s.schemas)).
		Str("dir", dir).
		Msg("Schema documents loaded")

	return nil
}

// loadFile loads and compiles a single schema document.
func (s *Store) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	doc, err := decodeDocument(path, data)
	if err != nil {
		return err
	}

	kind, err := documentKind(path, doc)
	if err != nil {
		return err
	}

	if prev, exists := s.schemas[kind]; exists {
		return fmt.Errorf("%w %s: %s and %s both map to it",
			entity.ErrDuplicateSchema, kind, prev.Path, path)
	}

	// Re-encode through JSON so YAML documents compile identically.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to normalize schema file %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	url := "mem:///" + filepath.Base(path)
	if err := compiler.AddResource(url, strings.NewReader(string(raw))); err != nil {
		return fmt.Errorf("failed to add schema resource %s: %w", path, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", path, err)
	}

	s.schemas[kind] = &Entry{Kind: kind, Path: path, schema: schema}

	s.logger.Debug().
		Str("kind", kind.String()).
		Str("path", path).
		Msg("Schema loaded")

	return nil
}

// Get returns the schema entry for a kind. Lookup is by exact kind only:
// there is no category fallback for runtime-qualified kinds.
func (s *Store) Get(kind entity.Kind) (*Entry, error) {
	entry, exists := s.schemas[kind]
	if !exists {
		return nil, entity.NewMissingSchemaError(kind)
	}
	return entry, nil
}

// Has reports whether a schema is loaded for the kind.
func (s *Store) Has(kind entity.Kind) bool {
	_, exists := s.schemas[kind]
	return exists
}

// Kinds returns every kind with a loaded schema, in lexical order.
func (s *Store) Kinds() []entity.Kind {
	kinds := make([]entity.Kind, 0, len(s.schemas))
	for kind := range s.schemas {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Len returns the number of loaded schemas.
func (s *Store) Len() int {
	return len(s.schemas)
}

// Validate validates a serialized instance against the schema for its kind
// and returns every constraint violation, not just the first. A nil slice
// means the document satisfies the contract.
func (s *Store) Validate(kind entity.Kind, doc map[string]any) ([]string, error) {
	entry, err := s.Get(kind)
	if err != nil {
		return nil, err
	}

	// The validator expects JSON-decoded values; round-trip to shed any
	// typed values a builder may have left in the map.
	normalized, err := normalizeJSON(doc)
	if err != nil {
		return nil, err
	}

	if err := entry.schema.Validate(normalized); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			var violations []string
			flatten(ve, &violations)
			return violations, nil
		}
		return nil, fmt.Errorf("schema validation failed for kind %s: %w", kind, err)
	}
	return nil, nil
}

// flatten collects the leaf causes of a validation error into messages.
func flatten(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		flatten(cause, out)
	}
}

// decodeDocument decodes a schema file to a generic document based on its
// extension.
func decodeDocument(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("malformed schema file %s: %w", path, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed schema file %s: %w", path, err)
	}
	return doc, nil
}

// documentKind derives the kind for a schema document: an embedded top-level
// "kind" field wins, otherwise the filename stem is used.
func documentKind(path string, doc map[string]any) (entity.Kind, error) {
	if raw, ok := doc["kind"]; ok {
		str, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("schema file %s: embedded kind is not a string", path)
		}
		return entity.ParseKind(str)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return entity.ParseKind(stem)
}

// normalizeJSON round-trips a value through encoding/json so it consists
// only of JSON-decoded types.
func normalizeJSON(doc map[string]any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("cannot normalize document: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cannot normalize document: %w", err)
	}
	return out, nil
}
