// Copyright 2024 The Aurac Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command aurac is a thin demonstration harness over this module's
// compiler-core packages: the build driver and real class-file front end
// are out of scope (spec.md §1), so this CLI loads a YAML class manifest in
// their place and dumps the computed layout, type-mapping, mangling or
// trampoline-set results, the way raymyers-ralph-cc-go's cmd/ralph-cc is a
// thin per-pass dump front end over its own compiler passes.
package main

import (
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashleyj/aurac/internal/clog"
	"github.com/ashleyj/aurac/internal/metrics"
)

var version = "0.1.0"

var (
	manifestPath string
	targetTriple string
	metricsAddr  string
	emitPacked   bool
	verbose      bool
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr *os.File) *cobra.Command {
	root := &cobra.Command{
		Use:           "aurac",
		Short:         "Demonstration harness over the aurac bytecode-AOT compiler core",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "path to a YAML class manifest")
	root.PersistentFlags().StringVarP(&targetTriple, "target", "t", "x86_64-unknown-linux", "target triple")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve prometheus metrics on this address")
	root.PersistentFlags().BoolVar(&emitPacked, "emit-packed", false, "also use packed layout for each class's {header, statics} wrapper (layout subcommand)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level diagnostic logging")
	root.MarkPersistentFlagRequired("manifest")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(verbose)
		if err != nil {
			return err
		}
		cmd.SetContext(clog.With(cmd.Context(), logger))

		if metricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			go http.ListenAndServe(metricsAddr, mux)
		}
		return nil
	}

	root.AddCommand(newLayoutCmd(), newTypesCmd(), newMangleCmd(), newTrampolinesCmd())
	return root
}

// colorer returns a color.Color that only emits escape codes when w is a
// terminal, the teacher-adjacent TTY-gating pairing of fatih/color with
// mattn/go-isatty that kraklabs/cie's manifest shows for this concern.
func colorer(w *os.File, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if !isatty.IsTerminal(w.Fd()) {
		c.DisableColor()
	}
	return c
}

// newLogger builds the *zap.Logger attached to every subcommand's context,
// a development encoder (human-readable, stack traces on warn+) under
// --verbose and the default production JSON encoder otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
