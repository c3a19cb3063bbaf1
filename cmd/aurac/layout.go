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
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashleyj/aurac/internal/clog"
	"github.com/ashleyj/aurac/internal/metrics"
	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/managed"
	"github.com/ashleyj/aurac/target"
	"github.com/ashleyj/aurac/typemapper"
)

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Dump instance and static layouts for every class in the manifest",
		RunE:  runLayout,
	}
}

func runLayout(cmd *cobra.Command, args []string) error {
	log := clog.From(cmd.Context())
	classes, err := loadManifest(cmd.Context(), manifestPath)
	if err != nil {
		return err
	}
	tri, err := target.Parse(targetTriple)
	if err != nil {
		return err
	}
	m := typemapper.New(ir.NewTypes(), tri, classes)
	m.EmitPacked = emitPacked
	log.Debug("laying out classes", zap.Int("count", len(classes)), zap.String("target", tri.String()))

	names := sortedClassNames(classes)
	bar := progressbar.Default(int64(len(names)), "laying out classes")
	name := colorer(os.Stdout, color.FgGreen)

	for _, n := range names {
		start := time.Now()
		c := classes[n]
		inst, err := m.InstanceLayout(c)
		if err != nil {
			clog.Class(cmd.Context(), n).Error("instance layout failed", zap.Error(err))
			return fmt.Errorf("class %s: %w", n, err)
		}
		static, err := m.StaticLayout(c)
		if err != nil {
			clog.Class(cmd.Context(), n).Error("static layout failed", zap.Error(err))
			return fmt.Errorf("class %s: %w", n, err)
		}
		metrics.ClassesCompiled.Inc()
		metrics.CompileDuration.Observe(time.Since(start).Seconds())
		fmt.Fprintf(cmd.OutOrStdout(), "%s instance=%s(%d bytes, align %d) static=%s(%d bytes, align %d)\n",
			name.Sprint(n),
			inst.TypeName(), m.Engine.StoreSize(inst), m.Engine.Alignment(inst),
			static.TypeName(), m.Engine.StoreSize(static), m.Engine.Alignment(static),
		)
		bar.Add(1)
	}
	return nil
}

// sortedClassNames returns classes' keys in a stable order, so batch output
// is deterministic across runs regardless of map iteration order.
func sortedClassNames(classes managed.ClassTable) []string {
	names := make([]string, 0, len(classes))
	for n := range classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
