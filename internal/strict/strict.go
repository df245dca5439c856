// Package strict decodes YAML and TOML documents, rejecting keys that do not map to fields.
package strict

import (
	"bytes"
	"errors"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// YAML decodes content into v, unknown keys are decode errors.
// An empty document leaves v intact and sets empty.
func YAML(content []byte, v any) (empty bool, e error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	e = dec.Decode(v)
	if errors.Is(e, io.EOF) {
		return true, nil
	}
	return false, e
}

// TOML decodes content into v and returns keys that were not decoded, in document order.
func TOML(content []byte, v any) (unknown []string, e error) {
	md, e := toml.Decode(string(content), v)
	if e != nil {
		return nil, e
	}
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return unknown, nil
}
