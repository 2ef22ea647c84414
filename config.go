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

import (
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultInitialCapacity is the number of node slots reserved up front,
	// not counting the two sentinels.
	DefaultInitialCapacity = 32

	// maxSlots is the largest addressable arena, in slots. Indices are
	// uint32 and two of them belong to the sentinels.
	maxSlots = math.MaxUint32
)

// Config holds the tunables of a Tree. The zero value is usable: every zero
// field falls back to its default.
type Config struct {
	// MaxNodes caps the number of live elements. Inserting past it fails
	// with ErrCapacity. Zero means no cap beyond the index space.
	MaxNodes int

	// InitialCapacity is the number of node slots reserved when the tree is
	// created. It may not exceed MaxNodes when MaxNodes is set.
	InitialCapacity int

	// Logger receives the rare events worth reporting: erasing through a
	// stale position, running out of capacity, a failed Validate.
	Logger logrus.FieldLogger
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: DefaultInitialCapacity,
		Logger:          logrus.StandardLogger().WithField("pkg", "rbtree"),
	}
}

// Validate reports whether the config can be used to build a tree.
func (c Config) Validate() error {
	if c.MaxNodes < 0 {
		return ErrConfig.Here().WithValue("MaxNodes", c.MaxNodes).
			WithMessage("MaxNodes must not be negative")
	}
	if c.InitialCapacity < 0 {
		return ErrConfig.Here().WithValue("InitialCapacity", c.InitialCapacity).
			WithMessage("InitialCapacity must not be negative")
	}
	if uint64(c.MaxNodes) > maxSlots-2 {
		return ErrConfig.Here().WithValue("MaxNodes", c.MaxNodes).
			WithMessage("MaxNodes exceeds the addressable arena")
	}
	if uint64(c.InitialCapacity) > maxSlots-2 {
		return ErrConfig.Here().WithValue("InitialCapacity", c.InitialCapacity).
			WithMessage("InitialCapacity exceeds the addressable arena")
	}
	if c.MaxNodes > 0 && c.InitialCapacity > c.MaxNodes {
		return ErrConfig.Here().WithValue("InitialCapacity", c.InitialCapacity).
			WithValue("MaxNodes", c.MaxNodes).
			WithMessage("InitialCapacity exceeds MaxNodes")
	}
	return nil
}

// withDefaults fills in zero fields.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.InitialCapacity == 0 {
		c.InitialCapacity = def.InitialCapacity
		if c.MaxNodes > 0 && c.InitialCapacity > c.MaxNodes {
			c.InitialCapacity = c.MaxNodes
		}
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	return c
}

// maxSize is the number of elements the tree can hold.
func (c Config) maxSize() int {
	if c.MaxNodes > 0 {
		return c.MaxNodes
	}
	n := uint64(maxSlots - 2)
	if n > uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}
