package serializer

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Codec converts a config to and from its on-disk text form. The same
// codec must be used for reading and writing a given file.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	// YAML is the default codec.
	YAML Codec = yamlCodec{}
	// TOML encodes configs as TOML tables.
	TOML Codec = tomlCodec{}
	// JSON encodes configs as indented JSON objects.
	JSON Codec = jsonCodec{}
)

// CodecFor picks a codec from the file extension of path. Anything that is
// not .toml or .json is treated as YAML.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML
	case ".json":
		return JSON
	default:
		return YAML
	}
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

type tomlCodec struct{}

func (tomlCodec) Name() string                       { return "toml" }
func (tomlCodec) Marshal(v any) ([]byte, error)      { return toml.Marshal(v) }
func (tomlCodec) Unmarshal(data []byte, v any) error { return toml.Unmarshal(data, v) }

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
