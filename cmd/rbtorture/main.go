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

// rbtorture runs a randomized workload against rbtree.Map, checking it
// against an independent ordered map, and prints what it did.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ansel1/merry"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/google/rbtree/internal/torture"
)

var (
	cfg      = torture.DefaultConfig()
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "rbtorture",
	Short:         "Stress a red-black tree against a reference ordered map",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runE,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVarP(&cfg.Ops, "ops", "n", cfg.Ops, "number of operations")
	flags.Uint64VarP(&cfg.KeySpace, "keyspace", "k", cfg.KeySpace, "keys are drawn from [0, keyspace)")
	flags.Uint64VarP(&cfg.Seed, "seed", "s", cfg.Seed, "workload seed")
	flags.Float64Var(&cfg.EraseRatio, "erase-ratio", cfg.EraseRatio, "fraction of operations that erase")
	flags.IntVar(&cfg.ValidateEvery, "validate-every", cfg.ValidateEvery, "validate the tree every N operations (0: only at the end)")
	flags.IntVar(&cfg.MaxNodes, "max-nodes", cfg.MaxNodes, "cap on tree size (0: none)")
	flags.BoolVar(&cfg.DumpOnFailure, "dump", false, "dump the reference map on failure")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func runE(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return merry.Wrap(err).WithValue("flag", "log-level")
	}
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	report, err := torture.Run(cfg, log)
	printReport(cmd.OutOrStdout(), report)
	return err
}

func printReport(w io.Writer, r torture.Report) {
	row := func(name string, n int) {
		fmt.Fprintf(w, "%-12s %14s\n", name, humanize.Comma(int64(n)))
	}
	row("ops", r.Ops)
	row("inserts", r.Inserts)
	row("overwrites", r.Overwrites)
	row("erases", r.Erases)
	row("misses", r.Misses)
	row("lookups", r.Lookups)
	row("rejected", r.Rejected)
	row("validates", r.Validates)
	row("len", r.Len)
	row("height", r.Height)
	rate := 0.0
	if r.Elapsed > 0 {
		rate = float64(r.Ops) / r.Elapsed.Seconds()
	}
	fmt.Fprintf(w, "%-12s %14s (%s ops/s)\n", "elapsed", r.Elapsed.Round(time.Millisecond),
		humanize.Commaf(float64(int64(rate))))

	keys := make([]string, 0, len(r.Stats))
	for k := range r.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-24s %v\n", k, r.Stats[k])
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, merry.Details(err))
		os.Exit(1)
	}
}
