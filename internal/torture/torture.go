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

// Package torture drives a Map through a long pseudo-random workload while
// mirroring every operation into an independent ordered map, and reports the
// first point where the two disagree.
package torture

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/NVIDIA/sortedmap"
	"github.com/ansel1/merry"
	"github.com/creachadair/cityhash"
	"github.com/sirupsen/logrus"

	"github.com/google/rbtree"
)

var (
	// ErrDiverged is returned when the tree and the reference map disagree.
	ErrDiverged = merry.New("torture: tree diverged from reference")
	// ErrConfig is returned for an unusable Config.
	ErrConfig = merry.New("torture: invalid config")
)

// Config describes one torture run.
type Config struct {
	// Ops is the number of operations to run.
	Ops int
	// KeySpace bounds the keys to [0, KeySpace). A small key space makes
	// collisions, and so overwrites and successful erases, frequent.
	KeySpace uint64
	// Seed selects the workload. Equal seeds replay equal workloads.
	Seed uint64
	// EraseRatio is the fraction of operations that erase.
	EraseRatio float64
	// ValidateEvery runs a full structural check after that many
	// operations. Zero checks only at the end.
	ValidateEvery int
	// MaxNodes is passed to the tree; inserts past it are expected to fail
	// and are counted as rejected.
	MaxNodes int
	// DumpOnFailure prints the reference map to stdout when a step
	// diverges.
	DumpOnFailure bool
}

// DefaultConfig returns a medium-sized run over a key space small enough to
// make collisions common.
func DefaultConfig() Config {
	return Config{
		Ops:           100000,
		KeySpace:      4096,
		Seed:          1,
		EraseRatio:    0.3,
		ValidateEvery: 1000,
	}
}

// Validate returns ErrConfig if c cannot drive a run.
func (c Config) Validate() error {
	switch {
	case c.Ops < 0:
		return ErrConfig.Here().WithValue("Ops", c.Ops).WithMessage("Ops must not be negative")
	case c.KeySpace == 0:
		return ErrConfig.Here().WithMessage("KeySpace must be positive")
	case c.EraseRatio < 0 || c.EraseRatio > 1:
		return ErrConfig.Here().WithValue("EraseRatio", c.EraseRatio).
			WithMessage("EraseRatio must be within [0, 1]")
	case c.ValidateEvery < 0:
		return ErrConfig.Here().WithValue("ValidateEvery", c.ValidateEvery).
			WithMessage("ValidateEvery must not be negative")
	case c.MaxNodes < 0:
		return ErrConfig.Here().WithValue("MaxNodes", c.MaxNodes).
			WithMessage("MaxNodes must not be negative")
	}
	return nil
}

// Report summarizes a finished run.
type Report struct {
	Ops        int
	Inserts    int
	Overwrites int
	Erases     int
	Misses     int
	Lookups    int
	Rejected   int
	Validates  int
	Len        int
	Height     int
	Elapsed    time.Duration
	Stats      map[string]interface{}
}

type op uint8

const (
	opInsert op = iota
	opSet
	opErase
	opEraseAt
	opLookup
)

func (o op) String() string {
	return [...]string{"insert", "set", "erase", "erase_at", "lookup"}[o]
}

// dumper renders keys and values when the reference map is dumped.
type dumper struct{}

func (dumper) DumpKey(key sortedmap.Key) (string, error) {
	return fmt.Sprintf("%v", key), nil
}

func (dumper) DumpValue(value sortedmap.Value) (string, error) {
	return fmt.Sprintf("%v", value), nil
}

type workload struct {
	cfg    Config
	m      *rbtree.Map[uint64, uint64]
	ref    sortedmap.LLRBTree
	log    logrus.FieldLogger
	report Report
}

// Run executes the workload described by cfg, logging to log (the standard
// logger when nil). It returns the report so far together with ErrDiverged,
// or an error from the reference map, as soon as anything disagrees.
func Run(cfg Config, log logrus.FieldLogger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	w, err := newWorkload(cfg, log)
	if err != nil {
		return Report{}, err
	}

	start := time.Now()
	var buf [8]byte
	for i := 0; i < cfg.Ops; i++ {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		h := cityhash.Hash64WithSeed(buf[:], cfg.Seed)
		k, v := (h>>32)%cfg.KeySpace, h
		o := w.pick(h)
		if err := w.step(o, k, v); err != nil {
			w.log.WithFields(logrus.Fields{"op": i, "kind": o, "key": k}).Error(merry.Details(err))
			if cfg.DumpOnFailure {
				w.ref.Dump()
			}
			return w.finish(start), merry.WithValue(err, "op", i)
		}
		w.report.Ops++
		if cfg.ValidateEvery > 0 && (i+1)%cfg.ValidateEvery == 0 {
			if err := w.validate(); err != nil {
				return w.finish(start), merry.WithValue(err, "op", i)
			}
		}
	}
	if err := w.validate(); err != nil {
		return w.finish(start), err
	}
	if err := w.compareAll(); err != nil {
		return w.finish(start), err
	}
	report := w.finish(start)
	w.log.WithFields(logrus.Fields{
		"ops":     report.Ops,
		"len":     report.Len,
		"height":  report.Height,
		"elapsed": report.Elapsed,
	}).Info("torture run passed")
	return report, nil
}

func newWorkload(cfg Config, log logrus.FieldLogger) (*workload, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m, err := rbtree.NewMapWithConfig[uint64, uint64](rbtree.Less[uint64](), rbtree.Config{
		MaxNodes: cfg.MaxNodes,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	return &workload{
		cfg: cfg,
		m:   m,
		ref: sortedmap.NewLLRBTree(sortedmap.CompareUint64, dumper{}),
		log: log,
	}, nil
}

// pick maps the low bits of h onto an operation with the configured mix.
func (w *workload) pick(h uint64) op {
	f := float64(h&0xffff) / 0x10000
	switch {
	case f < w.cfg.EraseRatio/2:
		return opErase
	case f < w.cfg.EraseRatio:
		return opEraseAt
	}
	switch (h >> 16) & 3 {
	case 0:
		return opLookup
	case 1:
		return opSet
	default:
		return opInsert
	}
}

func (w *workload) step(o op, k, v uint64) error {
	switch o {
	case opInsert:
		return w.insert(k, v)
	case opSet:
		return w.set(k, v)
	case opErase:
		return w.erase(k)
	case opEraseAt:
		return w.eraseAt(k)
	default:
		return w.lookup(k)
	}
}

func diverged(o op, k uint64, format string, args ...interface{}) error {
	return ErrDiverged.Here().WithValue("kind", o.String()).WithValue("key", k).
		WithMessagef(format, args...)
}

func (w *workload) insert(k, v uint64) error {
	_, added, err := w.m.Insert(k, v)
	if merry.Is(err, rbtree.ErrCapacity) {
		w.report.Rejected++
		if w.m.Len() != w.cfg.MaxNodes {
			return diverged(opInsert, k, "capacity error at len %d", w.m.Len())
		}
		return nil
	}
	if err != nil {
		return err
	}
	refAdded, err := w.ref.Put(k, v)
	if err != nil {
		return merry.Wrap(err)
	}
	if added != refAdded {
		return diverged(opInsert, k, "added %v, reference added %v", added, refAdded)
	}
	if added {
		w.report.Inserts++
	}
	return nil
}

func (w *workload) set(k, v uint64) error {
	existed := w.m.Contains(k)
	err := w.m.Set(k, v)
	if merry.Is(err, rbtree.ErrCapacity) {
		w.report.Rejected++
		if existed || w.m.Len() != w.cfg.MaxNodes {
			return diverged(opSet, k, "capacity error at len %d, existed %v", w.m.Len(), existed)
		}
		return nil
	}
	if err != nil {
		return err
	}
	patched, err := w.ref.PatchByKey(k, v)
	if err != nil {
		return merry.Wrap(err)
	}
	if patched != existed {
		return diverged(opSet, k, "existed %v, reference existed %v", existed, patched)
	}
	if patched {
		w.report.Overwrites++
	} else {
		if _, err := w.ref.Put(k, v); err != nil {
			return merry.Wrap(err)
		}
		w.report.Inserts++
	}
	got, err := w.m.At(k)
	if err != nil {
		return err
	}
	if got != v {
		return diverged(opSet, k, "reads back %d, stored %d", got, v)
	}
	return nil
}

func (w *workload) erase(k uint64) error {
	erased := w.m.Erase(k) == 1
	return w.erased(opErase, k, erased)
}

func (w *workload) eraseAt(k uint64) error {
	pos := w.m.Find(k)
	erased := !pos.IsEnd()
	next := w.m.EraseAt(pos)
	if erased && !next.IsEnd() && next.Value().Key <= k {
		return diverged(opEraseAt, k, "erase returned %v", next)
	}
	return w.erased(opEraseAt, k, erased)
}

func (w *workload) erased(o op, k uint64, erased bool) error {
	refErased, err := w.ref.DeleteByKey(k)
	if err != nil {
		return merry.Wrap(err)
	}
	if erased != refErased {
		return diverged(o, k, "erased %v, reference erased %v", erased, refErased)
	}
	if erased {
		w.report.Erases++
	} else {
		w.report.Misses++
	}
	return nil
}

func (w *workload) lookup(k uint64) error {
	w.report.Lookups++
	lb := w.m.LowerBound(k)
	index, _, err := w.ref.BisectRight(k)
	if err != nil {
		return merry.Wrap(err)
	}
	refKey, refValue, ok, err := w.ref.GetByIndex(index)
	if err != nil {
		return merry.Wrap(err)
	}
	switch {
	case !ok && !lb.IsEnd():
		return diverged(opLookup, k, "lower bound %v, reference has none", lb)
	case ok && lb.IsEnd():
		return diverged(opLookup, k, "lower bound is end, reference has %v", refKey)
	case ok:
		p := lb.Value()
		if p.Key != refKey.(uint64) || p.Value != refValue.(uint64) {
			return diverged(opLookup, k, "lower bound %v, reference %v:%v", p, refKey, refValue)
		}
	}
	return nil
}

func (w *workload) validate() error {
	w.report.Validates++
	if err := w.m.Validate(); err != nil {
		return err
	}
	if err := w.ref.Validate(); err != nil {
		return merry.Wrap(err)
	}
	n, err := w.ref.Len()
	if err != nil {
		return merry.Wrap(err)
	}
	if n != w.m.Len() {
		return ErrDiverged.Here().WithMessagef("len %d, reference len %d", w.m.Len(), n)
	}
	return nil
}

// compareAll walks both maps in order side by side.
func (w *workload) compareAll() error {
	i := 0
	var err error
	w.m.Ascend(func(k, v uint64) bool {
		var (
			refKey   sortedmap.Key
			refValue sortedmap.Value
			ok       bool
		)
		refKey, refValue, ok, err = w.ref.GetByIndex(i)
		if err != nil {
			err = merry.Wrap(err)
			return false
		}
		if !ok || refKey.(uint64) != k || refValue.(uint64) != v {
			err = ErrDiverged.Here().WithValue("index", i).
				WithMessagef("entry %d:%d, reference %v:%v", k, v, refKey, refValue)
			return false
		}
		i++
		return true
	})
	return err
}

func (w *workload) finish(start time.Time) Report {
	w.report.Elapsed = time.Since(start)
	w.report.Len = w.m.Len()
	w.report.Height = w.m.Tree().Height()
	w.report.Stats = w.m.Tree().Stats()
	return w.report
}
