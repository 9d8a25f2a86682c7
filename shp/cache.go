// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"container/list"
)

// CacheKey identifies an evaluation site: an element and a local coordinate
type CacheKey struct {
	El int     // element number
	Xi float64 // local coordinate in [-1,1]
}

// Cache is a fixed-capacity least-recently-used map from evaluation sites to
// precomputed data. Rod elements use it to avoid recomputing basis values
// and reference strains when the same parametric location is visited
// repeatedly, e.g. by quadrature loops and point-interaction evaluations.
type Cache struct {
	capacity int
	order    *list.List
	items    map[CacheKey]*list.Element
}

type cacheEntry struct {
	key CacheKey
	val interface{}
}

// NewCache creates a cache holding at most capacity entries
func NewCache(capacity int) (o *Cache) {
	if capacity < 1 {
		capacity = 1
	}
	o = new(Cache)
	o.capacity = capacity
	o.order = list.New()
	o.items = make(map[CacheKey]*list.Element, capacity)
	return
}

// Get returns the cached value for key and marks it most recently used
func (o *Cache) Get(key CacheKey) (val interface{}, ok bool) {
	el, ok := o.items[key]
	if !ok {
		return nil, false
	}
	o.order.MoveToFront(el)
	return el.Value.(*cacheEntry).val, true
}

// Put stores val under key, evicting the least recently used entry when the
// cache is full
func (o *Cache) Put(key CacheKey, val interface{}) {
	if el, ok := o.items[key]; ok {
		o.order.MoveToFront(el)
		el.Value.(*cacheEntry).val = val
		return
	}
	if o.order.Len() >= o.capacity {
		back := o.order.Back()
		delete(o.items, back.Value.(*cacheEntry).key)
		o.order.Remove(back)
	}
	o.items[key] = o.order.PushFront(&cacheEntry{key, val})
}

// Len returns the number of cached entries
func (o *Cache) Len() int {
	return o.order.Len()
}
