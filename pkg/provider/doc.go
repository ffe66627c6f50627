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

// Package provider defines the interfaces through which management
// instances are obtained: a Provider opens a Session, a Session starts
// one Operation per enumeration Request, and an Operation is drained with
// Next until it reports no more results.
//
// Implementations live in subpackages and register themselves by name:
//
//	import _ "github.com/NVIDIA/mienum/pkg/provider/systemd"
//
//	p, err := provider.New("systemd", provider.Options{})
//	sess, err := p.Connect(ctx, provider.DefaultOperationOptions())
//	defer sess.Close()
//
//	op, err := sess.Enumerate(ctx, provider.Request{ClassName: "Systemd_Unit", Namespace: "root/systemd"})
//	defer op.Close()
//	for {
//	    inst, more, err := op.Next(ctx)
//	    ...
//	}
//
// Instances handed out by an Operation are views into provider-owned
// data. Consumers must finish with an instance before pulling the next one.
package provider
