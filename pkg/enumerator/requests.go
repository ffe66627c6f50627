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

package enumerator

import (
	"log/slog"

	"github.com/NVIDIA/mienum/pkg/provider"
)

// ParseRequests converts loosely typed items into requests. Each item must
// be a two-element list of strings: class name, then namespace. Anything
// else is dropped.
func ParseRequests(items []any) []provider.Request {
	reqs := make([]provider.Request, 0, len(items))
	for i, item := range items {
		req, ok := parseRequest(item)
		if !ok {
			slog.Debug("dropping malformed enumeration item", slog.Int("index", i), slog.Any("item", item))
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs
}

func parseRequest(item any) (provider.Request, bool) {
	switch v := item.(type) {
	case []string:
		if len(v) != 2 {
			return provider.Request{}, false
		}
		return provider.Request{ClassName: v[0], Namespace: v[1]}, true
	case []any:
		if len(v) != 2 {
			return provider.Request{}, false
		}
		class, ok1 := v[0].(string)
		ns, ok2 := v[1].(string)
		if !ok1 || !ok2 {
			return provider.Request{}, false
		}
		return provider.Request{ClassName: class, Namespace: ns}, true
	case [2]string:
		return provider.Request{ClassName: v[0], Namespace: v[1]}, true
	default:
		return provider.Request{}, false
	}
}
