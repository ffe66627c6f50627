// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/mienum/pkg/header"
	"github.com/NVIDIA/mienum/pkg/perf"
)

// Record is one emitted enumeration result.
type Record struct {
	header.Header `yaml:",inline"`

	Tag   string    `json:"tag" yaml:"tag"`
	Time  time.Time `json:"time" yaml:"time"`
	RunID string    `json:"runId" yaml:"runId"`

	// Records holds the enumeration document verbatim.
	Records json.RawMessage `json:"records,omitempty" yaml:"-"`

	// Perf holds transformed counters when a mapping is configured.
	Perf *perf.Blob `json:"perf,omitempty" yaml:"perf,omitempty"`
}

// MarshalYAML renders Records as YAML while keeping the key order of the
// encoded instances.
func (r Record) MarshalYAML() (any, error) {
	type plain Record
	out := struct {
		plain   `yaml:",inline"`
		Records *yaml.Node `yaml:"records,omitempty"`
	}{plain: plain(r)}

	if len(r.Records) > 0 {
		dec := json.NewDecoder(bytes.NewReader(r.Records))
		dec.UseNumber()
		node, err := decodeNode(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to convert records: %w", err)
		}
		out.Records = node
	}
	return out, nil
}

// decodeNode reads one JSON value from dec as a yaml node. yaml.v3 cannot
// parse every JSON escape, so the tree is built from decoded tokens.
func decodeNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if v == '{' {
			n.Kind, n.Tag = yaml.MappingNode, "!!map"
		}
		for dec.More() {
			if n.Kind == yaml.MappingNode {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, scalar("!!str", key.(string)))
			}
			child, err := decodeNode(dec)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return n, nil
	case string:
		return scalar("!!str", v), nil
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return scalar("!!int", v.String()), nil
		}
		return scalar("!!float", v.String()), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(v)), nil
	default:
		return scalar("!!null", "null"), nil
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// GetTag returns the record's tag.
func (r Record) GetTag() string {
	return r.Tag
}
