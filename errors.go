// Copyright 2014-2022 Google Inc.
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

package rbtree

import "github.com/ansel1/merry"

// Errors returned by the tree and its adapters. Compare with merry.Is; the
// values returned at call sites carry a stack and context values such as
// "key" or "limit".
var (
	// ErrKeyNotFound is the out-of-range failure of Map.At.
	ErrKeyNotFound = merry.New("rbtree: key not found")

	// ErrCapacity is returned when a node cannot be allocated because the
	// arena has reached Config.MaxNodes. The tree is left unchanged.
	ErrCapacity = merry.New("rbtree: node capacity exhausted")

	// ErrInvariant is returned by Validate.
	ErrInvariant = merry.New("rbtree: invariant violated")

	// ErrConfig is returned by Config.Validate.
	ErrConfig = merry.New("rbtree: invalid config")
)
