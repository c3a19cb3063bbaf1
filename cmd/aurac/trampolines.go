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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashleyj/aurac/internal/clog"
	"github.com/ashleyj/aurac/internal/metrics"
	"github.com/ashleyj/aurac/trampoline"
)

func newTrampolinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trampolines",
		Short: "Build the deduplicated trampoline set implied by the manifest and print it in linkage order",
		RunE:  runTrampolines,
	}
}

func runTrampolines(cmd *cobra.Command, args []string) error {
	classes, err := loadManifest(cmd.Context(), manifestPath)
	if err != nil {
		return err
	}
	set := trampoline.NewSet()
	out := cmd.OutOrStdout()

	for _, name := range sortedClassNames(classes) {
		c := classes[name]
		for _, meth := range c.Methods {
			kind := trampoline.InvokeVirtual
			if meth.Static {
				kind = trampoline.InvokeStatic
			}
			t, err := trampoline.NewInvoke(kind, name, name, meth.Name, meth.Descriptor, meth.Static)
			if err != nil {
				clog.Class(cmd.Context(), name).Error("trampoline build failed", zap.String("method", meth.Name), zap.Error(err))
				return err
			}
			before := set.Len()
			set.Add(t)
			if set.Len() > before {
				metrics.TrampolinesCreated.Inc()
			}
		}
	}

	clog.From(cmd.Context()).Debug("trampoline set built", zap.Int("count", set.Len()))
	for _, t := range set.Sorted() {
		fmt.Fprintf(out, "%-16s %s\n", t.Kind, trampoline.Mangle(t))
	}
	return nil
}
