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
	"github.com/ashleyj/aurac/trampoline"
)

func newMangleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mangle",
		Short: "Print the mangled linkage symbol for every invoke/field-access trampoline implied by the manifest",
		RunE:  runMangle,
	}
}

func runMangle(cmd *cobra.Command, args []string) error {
	classes, err := loadManifest(cmd.Context(), manifestPath)
	if err != nil {
		return err
	}
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
				clog.Class(cmd.Context(), name).Error("invoke trampoline build failed", zap.String("method", meth.Name), zap.Error(err))
				return err
			}
			fmt.Fprintf(out, "%s\n", trampoline.Mangle(t))
		}
		for _, f := range c.Fields {
			kind := trampoline.GetField
			if f.Static {
				kind = trampoline.GetStatic
			}
			t, err := trampoline.NewFieldAccess(kind, name, name, f.Name, f.Descriptor)
			if err != nil {
				clog.Class(cmd.Context(), name).Error("field-access trampoline build failed", zap.String("field", f.Name), zap.Error(err))
				return err
			}
			fmt.Fprintf(out, "%s\n", trampoline.Mangle(t))
		}
	}
	return nil
}
