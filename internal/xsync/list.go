// MIT License
//
// Copyright (c) 2024-2026 Quorumline
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package xsync

import (
	"sync"
)

// List is a thread-safe, ordered collection preserving append order. Unlike a
// plain slice behind a mutex, Snapshot returns a copy so callers can iterate
// without holding the lock while concurrent appends proceed.
type List[T any] struct {
	mu   sync.RWMutex
	data []T
}

// NewList creates a new List with a small pre-allocated backing array.
func NewList[T any]() *List[T] {
	return &List[T]{data: make([]T, 0, 4)}
}

// Append adds item to the end of the list.
func (x *List[T]) Append(item T) {
	x.mu.Lock()
	x.data = append(x.data, item)
	x.mu.Unlock()
}

// Len returns the number of items in the list.
func (x *List[T]) Len() int {
	x.mu.RLock()
	l := len(x.data)
	x.mu.RUnlock()
	return l
}

// Get returns the element at index. Returns the zero value of T if index is
// out of range. The element is read while the lock is held, preventing a
// concurrent reallocation from invalidating a prior bounds check.
func (x *List[T]) Get(index int) T {
	x.mu.RLock()
	if index < 0 || index >= len(x.data) {
		x.mu.RUnlock()
		var zero T
		return zero
	}
	item := x.data[index]
	x.mu.RUnlock()
	return item
}

// Snapshot returns a copy of the list's contents in append order.
func (x *List[T]) Snapshot() []T {
	x.mu.RLock()
	out := make([]T, len(x.data))
	copy(out, x.data)
	x.mu.RUnlock()
	return out
}
