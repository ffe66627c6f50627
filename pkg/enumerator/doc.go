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

// Package enumerator drains provider enumerations into JSON documents.
//
// A Driver runs an ordered list of requests against an open session and
// writes one JSON array holding every instance, in request order:
//
//	d := enumerator.NewDriver(sess, encoder.New())
//	err := d.Enumerate(ctx, os.Stdout, []provider.Request{
//	    {ClassName: "SCX_OperatingSystem", Namespace: "root/scx"},
//	    {ClassName: "SCX_FileSystemStatisticalInformation", Namespace: "root/scx"},
//	})
//
// Each request gets its own operation, bounded by the session's operation
// timeout and closed before the next request starts, whatever the outcome
// of the drain. Provider failures end that request's contribution but never
// the document; instances that cannot be encoded are omitted. Only sink
// write failures and context cancellation are returned as errors.
//
// Client wraps a provider with connect, disconnect and enumerate entry
// points. Enumerate accepts loosely typed items, keeping only two-element
// lists of strings:
//
//	c := enumerator.NewClient(p)
//	if err := c.Connect(ctx); err != nil {
//	    return err
//	}
//	defer c.Disconnect()
//
//	doc, err := c.Enumerate(ctx, []any{[]any{"SCX_OperatingSystem", "root/scx"}})
//
// # Metrics
//
// The package registers Prometheus collectors for request outcomes,
// operation duration, emitted and skipped instances, close failures and
// connection attempts, all prefixed with mienum_.
package enumerator
