package catalogs

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrNoSource is returned by Resolve when every source came up empty.
var ErrNoSource = errors.New("catalogs: no catalog source available")

// errSkip marks a source that has nothing to offer; Resolve moves on.
var errSkip = errors.New("catalogs: source empty")

//go:embed defaults/blocks.json
var defaultBlocks []byte

//go:embed defaults/blocks.schema.json
var blocksSchemaJSON []byte

const blocksSchemaURL = "https://voxelfire.ai/schemas/blocks.schema.json"

// Source is one step in the catalog resolution chain.
type Source interface {
	Name() string
	BlocksJSON() ([]byte, error)
}

// DirSource reads blocks.json from a config directory. A missing file skips
// to the next source unless Strict is set.
type DirSource struct {
	Dir    string
	Strict bool
}

func (s DirSource) Name() string { return "dir:" + s.Dir }

func (s DirSource) BlocksJSON() ([]byte, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, errSkip
	}
	raw, err := os.ReadFile(filepath.Join(s.Dir, "blocks.json"))
	if err != nil {
		if os.IsNotExist(err) && !s.Strict {
			return nil, errSkip
		}
		return nil, err
	}
	return raw, nil
}

// EmbeddedSource serves the catalog compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "embedded" }

func (EmbeddedSource) BlocksJSON() ([]byte, error) { return defaultBlocks, nil }

// Resolve walks sources in order and parses the first one that serves a
// catalog. A source that serves a broken catalog is an error, not a skip.
func Resolve(sources ...Source) (*Catalogs, error) {
	for _, src := range sources {
		raw, err := src.BlocksJSON()
		if errors.Is(err, errSkip) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
		var c Catalogs
		if err := parseBlocks(raw, &c.Blocks); err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
		c.Source = src.Name()
		return &c, nil
	}
	return nil, ErrNoSource
}

// Defaults returns the embedded catalog.
func Defaults() *Catalogs {
	c, err := Resolve(EmbeddedSource{})
	if err != nil {
		panic(err)
	}
	return c
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func blocksSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(blocksSchemaURL, bytes.NewReader(blocksSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(blocksSchemaURL)
	})
	return schema, schemaErr
}

func validateBlocks(raw []byte) error {
	s, err := blocksSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return s.Validate(doc)
}
