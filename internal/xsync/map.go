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

// Map is a generic, concurrency-safe map that allows storing key-value pairs
// while ensuring thread safety using a read-write mutex.
//
// K represents the key type, which must be comparable.
// V represents the value type, which can be any type.
type Map[K comparable, V any] struct {
	mu       sync.RWMutex
	data     map[K]V
	inflight map[K]*call[V]
}

// call tracks a single in-flight computation for a key so that concurrent
// first-time requests collapse onto one build.
type call[V any] struct {
	once sync.Once
	val  V
	err  error
}

// NewMap creates and returns a new instance of Map.
// It initializes the internal map for storing key-value pairs.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		data:     make(map[K]V),
		inflight: make(map[K]*call[V]),
	}
}

// Set stores a key-value pair in the Map.
// If the key already exists, its value is updated.
func (s *Map[K, V]) Set(k K, v V) {
	s.mu.Lock()
	s.data[k] = v
	s.mu.Unlock()
}

// Get retrieves the value associated with the given key from the Map.
// The second return value indicates whether the key was found.
func (s *Map[K, V]) Get(k K) (V, bool) {
	s.mu.RLock()
	val, ok := s.data[k]
	s.mu.RUnlock()
	return val, ok
}

// GetOrCompute returns the value for the given key, computing and publishing
// it with compute when absent. For any key, concurrent first-time callers
// observe exactly one execution of compute and all receive the same value.
// A failed computation is not published.
//
// compute runs without the map lock held; it may call GetOrCompute for other
// keys of the same Map. Re-entering GetOrCompute for the same key from within
// its own compute deadlocks, as it would in any promise-based scheme.
func (s *Map[K, V]) GetOrCompute(k K, compute func() (V, error)) (V, error) {
	s.mu.Lock()
	if val, ok := s.data[k]; ok {
		s.mu.Unlock()
		return val, nil
	}
	c, ok := s.inflight[k]
	if !ok {
		c = new(call[V])
		s.inflight[k] = c
	}
	s.mu.Unlock()

	c.once.Do(func() {
		c.val, c.err = compute()
		s.mu.Lock()
		if c.err == nil {
			s.data[k] = c.val
		}
		delete(s.inflight, k)
		s.mu.Unlock()
	})
	return c.val, c.err
}

// Delete removes the key-value pair associated with the given key from the Map.
// If the key does not exist, this operation has no effect.
func (s *Map[K, V]) Delete(k K) {
	s.mu.Lock()
	delete(s.data, k)
	s.mu.Unlock()
}

// Len returns the number of key-value pairs currently stored in the Map.
func (s *Map[K, V]) Len() int {
	s.mu.RLock()
	l := len(s.data)
	s.mu.RUnlock()
	return l
}

// Range iterates over all key-value pairs in the Map and executes the given
// function `f` for each pair. The iteration order is not guaranteed.
func (s *Map[K, V]) Range(f func(K, V)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.data {
		f(k, v)
	}
}

// Values returns the values in the Map
func (s *Map[K, V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make([]V, 0, len(s.data))
	for _, v := range s.data {
		values = append(values, v)
	}
	return values
}
