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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/mienum/pkg/encoder"
	"github.com/NVIDIA/mienum/pkg/mi"
)

var at = time.Date(2015, 10, 1, 23, 26, 23, 0, time.UTC)

func loadTestTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := LoadTransformer(context.Background(), "testdata/mappings.json")
	require.NoError(t, err)
	return tr
}

func TestLoadTransformer_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"CimClassName":"SCX_Agent","ObjectName":"Agent","InstanceProperty":"Name","CimProperties":[]}]`))
	}))
	defer srv.Close()

	tr, err := LoadTransformer(context.Background(), srv.URL+"/mappings.json")
	require.NoError(t, err)
	m, ok := tr.Lookup("SCX_Agent")
	require.True(t, ok)
	assert.Equal(t, "Agent", m.ObjectName)
}

func TestLoadTransformer_Errors(t *testing.T) {
	_, err := LoadTransformer(context.Background(), "testdata/absent.json")
	assert.Error(t, err)

	_, err = ParseMappings([]byte("{not json"))
	assert.Error(t, err)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	tr := loadTestTransformer(t)

	m, ok := tr.Lookup("scx_processorstatisticalinformation")
	require.True(t, ok)
	assert.Equal(t, "Processor", m.ObjectName)

	_, ok = tr.Lookup("SCX_Unknown")
	assert.False(t, ok)
}

func TestTransform(t *testing.T) {
	tr := loadTestTransformer(t)
	doc := `[{"ClassName":"SCX_ProcessorStatisticalInformation","Name":"0","PercentProcessorTime":"4","PercentIdleTime":"96"},` +
		`{"ClassName":"SCX_ProcessorStatisticalInformation","Name":"_Total","PercentProcessorTime":"2"}]`

	items, err := tr.TransformDocument(doc, []string{"Processor % Processor Time", "Processor % Idle Time"}, "buntu14", at)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, DataItem{
		Timestamp:    "2015-10-01T23:26:23Z",
		Host:         "buntu14",
		ObjectName:   "Processor",
		InstanceName: "0",
		Collections: []Counter{
			{CounterName: "% Processor Time", Value: "4"},
			{CounterName: "% Idle Time", Value: "96"},
		},
	}, items[0])

	// Missing properties are dropped rather than sent as null.
	assert.Equal(t, []Counter{{CounterName: "% Processor Time", Value: "2"}}, items[1].Collections)
}

func TestTransform_OnlyCollectedCounters(t *testing.T) {
	tr := loadTestTransformer(t)
	records := []map[string]any{{
		"ClassName":        "SCX_FileSystemStatisticalInformation",
		"Name":             "/",
		"PercentFreeSpace": "40",
		"PercentUsedSpace": "60",
		"FreeMegabytes":    "1024",
	}}

	items := tr.Transform(records, []string{"Logical Disk % Free Space", "Processor % Idle Time"}, "h", at)
	require.Len(t, items, 1)
	assert.Equal(t, []Counter{{CounterName: "% Free Space", Value: "40"}}, items[0].Collections)

	items = tr.Transform(records, nil, "h", at)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Collections)
}

func TestTransform_NullValuesDropped(t *testing.T) {
	tr := loadTestTransformer(t)
	records := []map[string]any{{
		"ClassName":            "SCX_ProcessorStatisticalInformation",
		"Name":                 "1",
		"PercentProcessorTime": nil,
	}}

	for range 2 {
		items := tr.Transform(records, []string{"Processor % Processor Time"}, "h", at)
		require.Len(t, items, 1)
		assert.Empty(t, items[0].Collections)
	}
	assert.Len(t, tr.warned, 1)
}

func TestTransform_UnmappedClassRejectsBatch(t *testing.T) {
	tr := loadTestTransformer(t)
	records := []map[string]any{
		{"ClassName": "SCX_ProcessorStatisticalInformation", "Name": "0"},
		{"ClassName": "SCX_OperatingSystem", "Name": "Linux"},
	}
	assert.Nil(t, tr.Transform(records, nil, "h", at))
}

func TestTransformDocument_Inputs(t *testing.T) {
	tr := loadTestTransformer(t)

	items, err := tr.TransformDocument("", nil, "h", at)
	require.NoError(t, err)
	assert.Nil(t, items)

	items, err = tr.TransformDocument("[]", nil, "h", at)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = tr.TransformDocument("[{", nil, "h", at)
	assert.Error(t, err)
}

func TestTransformAndWrap(t *testing.T) {
	tr := loadTestTransformer(t)

	blob, err := tr.TransformAndWrap("[]", nil, "h", at)
	require.NoError(t, err)
	assert.Nil(t, blob)

	doc := `[{"ClassName":"SCX_FileSystemStatisticalInformation","Name":"/boot","FreeMegabytes":"200"}]`
	blob, err = tr.TransformAndWrap(doc, []string{"Logical Disk Free Megabytes"}, "h", at)
	require.NoError(t, err)
	require.NotNil(t, blob)
	assert.Equal(t, DataType, blob.DataType)
	assert.Equal(t, IPName, blob.IPName)
	require.Len(t, blob.DataItems, 1)
	assert.Equal(t, "/boot", blob.DataItems[0].InstanceName)

	out, err := json.Marshal(blob)
	require.NoError(t, err)
	assert.JSONEq(t, `{"DataType":"LINUX_PERF_BLOB","IPName":"LogManagement","DataItems":[`+
		`{"Timestamp":"2015-10-01T23:26:23Z","Host":"h","ObjectName":"Logical Disk","InstanceName":"/boot",`+
		`"Collections":[{"CounterName":"Free Megabytes","Value":"200"}]}]}`, string(out))
}

func TestTransform_EncodedInstances(t *testing.T) {
	tr := loadTestTransformer(t)
	enc := encoder.New()

	inst := mi.NewInstance("SCX_FileSystemStatisticalInformation").
		Set("Name", mi.String("/var")).
		Set("PercentFreeSpace", mi.Uint8(12)).
		Set("IsOnline", mi.Boolean(true)).
		Build()

	var buf bytes.Buffer
	buf.WriteByte('[')
	require.NoError(t, enc.EncodeInstance(&buf, inst))
	buf.WriteByte(']')

	items, err := tr.TransformDocument(buf.String(), []string{"Logical Disk % Free Space"}, "h", at)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/var", items[0].InstanceName)
	assert.Equal(t, []Counter{{CounterName: "% Free Space", Value: "12"}}, items[0].Collections)
}
