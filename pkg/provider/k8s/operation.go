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

package k8s

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/mienum/pkg/mi"
)

// pageFunc lists one page and returns its instances and continue token.
type pageFunc func(ctx context.Context, opts metav1.ListOptions) ([]mi.Instance, string, error)

// operation walks list pages lazily, fetching the next page only once the
// current one has been handed out.
type operation struct {
	list     pageFunc
	pageSize int64
	page     []mi.Instance
	cont     string
	started  bool
	closed   bool
}

func newOperation(pageSize int64, list pageFunc) *operation {
	return &operation{list: list, pageSize: pageSize}
}

func (o *operation) Next(ctx context.Context) (mi.Instance, bool, error) {
	if o.closed {
		return nil, false, nil
	}

	for len(o.page) == 0 {
		if o.started && o.cont == "" {
			return nil, false, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		page, cont, err := o.list(ctx, metav1.ListOptions{Limit: o.pageSize, Continue: o.cont})
		if err != nil {
			return nil, false, err
		}
		o.started = true
		o.page = page
		o.cont = cont
	}

	inst := o.page[0]
	o.page = o.page[1:]
	return inst, len(o.page) > 0 || o.cont != "", nil
}

func (o *operation) Close() error {
	o.closed = true
	o.page = nil
	return nil
}
