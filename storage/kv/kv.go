// Copyright 2014-2015 The Coname Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
// 	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package kv contains a generic interface for ordered key-value stores
// with support for batch writes. The client uses it to persist site
// lookups between invocations.
package kv

import "errors"

// DB is an abstract ordered key-value store. All operations are assumed to be
// synchronous and atomic: after Put(k, v) has returned, Get(k) returns v until
// the next Put(k, ?) or Delete(k), even across process restarts. Write(...)
// performs a series of Put-s and Delete-s atomically.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	NewBatch() Batch
	Write(Batch) error
	NewIterator(*Range) Iterator
	Close() error

	ErrNotFound() error
}

// A Batch contains a sequence of Put-s and Delete-s waiting to be Write-n
// to a DB.
type Batch interface {
	Reset()
	Put(key, value []byte)
	Delete(key []byte)
	Len() int
}

// Iterator is an abstract pointer to a DB entry. It must be valid to call
// Error() after release. The boolean return values indicate whether the
// requested entry exists.
type Iterator interface {
	Key() []byte
	Value() []byte
	First() bool
	Next() bool
	Release()
	Error() error
}

var (
	// ErrBadBatch indicates a Batch that was not created by the DB it is
	// written to.
	ErrBadBatch = errors.New("[kv] Batch was not created by this DB")
)
