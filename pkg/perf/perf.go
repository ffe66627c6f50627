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

package perf

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/NVIDIA/mienum/pkg/encoder"
	"github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/serializer"
)

// Blob envelope values expected by the ingestion endpoint.
const (
	DataType = "LINUX_PERF_BLOB"
	IPName   = "LogManagement"
)

// TimestampFormat is the layout of DataItem.Timestamp, always in UTC.
const TimestampFormat = "2006-01-02T15:04:05Z"

// Property maps one instance property to a counter name.
type Property struct {
	CimPropertyName string `json:"CimPropertyName" yaml:"CimPropertyName"`
	CounterName     string `json:"CounterName" yaml:"CounterName"`
}

// Mapping describes how instances of one class become a performance object.
type Mapping struct {
	CimClassName     string     `json:"CimClassName" yaml:"CimClassName"`
	ObjectName       string     `json:"ObjectName" yaml:"ObjectName"`
	InstanceProperty string     `json:"InstanceProperty" yaml:"InstanceProperty"`
	CimProperties    []Property `json:"CimProperties" yaml:"CimProperties"`
}

// Counter is one collected counter value.
type Counter struct {
	CounterName string `json:"CounterName"`
	Value       any    `json:"Value"`
}

// DataItem is the performance record produced for one instance.
type DataItem struct {
	Timestamp    string    `json:"Timestamp"`
	Host         string    `json:"Host"`
	ObjectName   string    `json:"ObjectName"`
	InstanceName any       `json:"InstanceName"`
	Collections  []Counter `json:"Collections"`
}

// Blob wraps data items for upload.
type Blob struct {
	DataType  string     `json:"DataType"`
	IPName    string     `json:"IPName"`
	DataItems []DataItem `json:"DataItems"`
}

// Transformer converts enumerated instance documents into data items.
type Transformer struct {
	byClass map[string]Mapping
	fold    cases.Caser
	mu      sync.Mutex
	warned  map[string]struct{}
}

// LoadTransformer reads a mapping file. path may be a local JSON or YAML
// file, an http(s) URL or a cm://namespace/name ConfigMap.
func LoadTransformer(ctx context.Context, path string) (*Transformer, error) {
	mappings, err := serializer.FromFile[[]Mapping](ctx, path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
			"unable to read mapping file", err, map[string]any{"path": path})
	}
	return NewTransformer(*mappings), nil
}

// ParseMappings decodes the JSON list of class mappings.
func ParseMappings(data []byte) ([]Mapping, error) {
	var mappings []Mapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid mapping file format", err)
	}
	return mappings, nil
}

// NewTransformer indexes mappings by class name. Class names match without
// regard to case; the first mapping for a class wins.
func NewTransformer(mappings []Mapping) *Transformer {
	t := &Transformer{
		byClass: make(map[string]Mapping, len(mappings)),
		fold:    cases.Fold(),
		warned:  make(map[string]struct{}),
	}
	for _, m := range mappings {
		key := t.key(m.CimClassName)
		if _, dup := t.byClass[key]; dup {
			slog.Warn("duplicate class mapping ignored", "class", m.CimClassName)
			continue
		}
		t.byClass[key] = m
	}
	return t
}

func (t *Transformer) key(class string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Caser keeps state between calls and is not safe for concurrent use.
	return t.fold.String(class)
}

// Lookup returns the mapping for class.
func (t *Transformer) Lookup(class string) (Mapping, bool) {
	m, ok := t.byClass[t.key(class)]
	return m, ok
}

// Transform converts records into data items. counters holds the collected
// "ObjectName CounterName" pairs. If any record's class has no mapping the
// whole batch is rejected and nil is returned.
func (t *Transformer) Transform(records []map[string]any, counters []string, host string, at time.Time) []DataItem {
	collected := make(map[string]struct{}, len(counters))
	for _, c := range counters {
		collected[c] = struct{}{}
	}
	stamp := at.UTC().Format(TimestampFormat)

	items := make([]DataItem, 0, len(records))
	for _, record := range records {
		class, _ := record["ClassName"].(string)
		m, ok := t.Lookup(class)
		if !ok {
			slog.Error("class name not found in mappings", "class", class)
			return nil
		}

		item := DataItem{
			Timestamp:    stamp,
			Host:         host,
			ObjectName:   m.ObjectName,
			InstanceName: record[m.InstanceProperty],
			Collections:  []Counter{},
		}
		for _, p := range m.CimProperties {
			if _, want := collected[m.ObjectName+" "+p.CounterName]; !want {
				continue
			}
			v, present := record[p.CimPropertyName]
			if !present || v == nil {
				t.warnOnce(p.CounterName)
				continue
			}
			item.Collections = append(item.Collections, Counter{CounterName: p.CounterName, Value: v})
		}
		items = append(items, item)
	}
	return items
}

func (t *Transformer) warnOnce(counter string) {
	t.mu.Lock()
	_, seen := t.warned[counter]
	t.warned[counter] = struct{}{}
	t.mu.Unlock()
	if !seen {
		slog.Warn("dropping null value for counter", "counter", counter)
	}
}

// TransformDocument decodes an enumeration document and transforms it. An
// empty document yields no items. Raw control bytes left in strings by the
// encoder are accepted.
func (t *Transformer) TransformDocument(doc string, counters []string, host string, at time.Time) ([]DataItem, error) {
	if doc == "" {
		return nil, nil
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(encoder.EscapeControls(doc)), &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid input class instances format", err)
	}
	return t.Transform(records, counters, host, at), nil
}

// TransformAndWrap transforms doc and wraps the result in a Blob. It
// returns nil when there are no data items to send.
func (t *Transformer) TransformAndWrap(doc string, counters []string, host string, at time.Time) (*Blob, error) {
	items, err := t.TransformDocument(doc, counters, host, at)
	if err != nil {
		return nil, err
	}
	return Wrap(items), nil
}

// Wrap adds the envelope fields. It returns nil for an empty slice.
func Wrap(items []DataItem) *Blob {
	if len(items) == 0 {
		return nil
	}
	return &Blob{
		DataType:  DataType,
		IPName:    IPName,
		DataItems: items,
	}
}
