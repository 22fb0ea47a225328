// Copyright 2026 The LinkML-Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// node is an order-preserving intermediate form shared by the YAML and JSON
// front ends. §6.1 requires deserialization to preserve insertion order for
// slots and rule lists (rule and slot ordering is semantically significant);
// neither yaml.Node's natural walk nor a naive map[string]any-based JSON
// decode gives that on its own, so both front ends lower into this common
// shape before parser.schema builds the typed Schema.
type node struct {
	kind   nodeKind
	keys   []string // mapping: key order
	mapv   map[string]*node
	seq    []*node
	scalar string
}

type nodeKind int

const (
	kindNull nodeKind = iota
	kindScalar
	kindSeq
	kindMap
)

func (n *node) get(key string) *node {
	if n == nil || n.kind != kindMap {
		return nil
	}
	return n.mapv[key]
}

func (n *node) str() string {
	if n == nil || n.kind != kindScalar {
		return ""
	}
	return n.scalar
}

func (n *node) strPtr() *string {
	if n == nil || n.kind == kindNull {
		return nil
	}
	s := n.str()
	return &s
}

func (n *node) boolPtr() *bool {
	if n == nil || n.kind == kindNull {
		return nil
	}
	b := n.str() == "true"
	return &b
}

func (n *node) intPtr() *int {
	if n == nil || n.kind == kindNull {
		return nil
	}
	v, err := strconv.Atoi(n.str())
	if err != nil {
		return nil
	}
	return &v
}

func (n *node) number() *Number {
	if n == nil || n.kind == kindNull {
		return nil
	}
	return &Number{Literal: n.str()}
}

func (n *node) strList() []string {
	if n == nil {
		return nil
	}
	if n.kind == kindScalar {
		return []string{n.scalar}
	}
	if n.kind != kindSeq {
		return nil
	}
	out := make([]string, 0, len(n.seq))
	for _, e := range n.seq {
		out = append(out, e.str())
	}
	return out
}

// parseYAMLNode parses YAML source into the order-preserving node tree.
func parseYAMLNode(src []byte) (*node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return &node{kind: kindNull}, nil
	}
	return fromYAMLNode(doc.Content[0]), nil
}

func fromYAMLNode(y *yaml.Node) *node {
	switch y.Kind {
	case yaml.MappingNode:
		n := &node{kind: kindMap, mapv: map[string]*node{}}
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i].Value
			n.keys = append(n.keys, key)
			n.mapv[key] = fromYAMLNode(y.Content[i+1])
		}
		return n
	case yaml.SequenceNode:
		n := &node{kind: kindSeq}
		for _, c := range y.Content {
			n.seq = append(n.seq, fromYAMLNode(c))
		}
		return n
	case yaml.ScalarNode:
		if y.Tag == "!!null" {
			return &node{kind: kindNull}
		}
		return &node{kind: kindScalar, scalar: y.Value}
	case yaml.AliasNode:
		if y.Alias != nil {
			return fromYAMLNode(y.Alias)
		}
		return &node{kind: kindNull}
	default:
		return &node{kind: kindNull}
	}
}

// parseJSONNode parses JSON source into the order-preserving node tree
// using token-by-token decoding (encoding/json's map decode does not
// preserve key order, which §6.1 requires).
func parseJSONNode(src []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	n, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("json parse: %w", err)
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (*node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := &node{kind: kindMap, mapv: map[string]*node{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				n.keys = append(n.keys, key)
				n.mapv[key] = val
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return n, nil
		case '[':
			n := &node{kind: kindSeq}
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				n.seq = append(n.seq, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return n, nil
		}
		return &node{kind: kindNull}, nil
	case nil:
		return &node{kind: kindNull}, nil
	case bool:
		if t {
			return &node{kind: kindScalar, scalar: "true"}, nil
		}
		return &node{kind: kindScalar, scalar: "false"}, nil
	case json.Number:
		return &node{kind: kindScalar, scalar: t.String()}, nil
	case string:
		return &node{kind: kindScalar, scalar: t}, nil
	default:
		return &node{kind: kindNull}, nil
	}
}
