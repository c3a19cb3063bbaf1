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
	"github.com/ashleyj/aurac/ir"
	"github.com/ashleyj/aurac/target"
	"github.com/ashleyj/aurac/typemapper"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Dump the IR storage/local type and method signature of every member in the manifest",
		RunE:  runTypes,
	}
}

func runTypes(cmd *cobra.Command, args []string) error {
	classes, err := loadManifest(cmd.Context(), manifestPath)
	if err != nil {
		return err
	}
	tri, err := target.Parse(targetTriple)
	if err != nil {
		clog.From(cmd.Context()).Error("target triple parse failed", zap.String("target", targetTriple), zap.Error(err))
		return err
	}
	m := typemapper.New(ir.NewTypes(), tri, classes)
	out := cmd.OutOrStdout()

	for _, name := range sortedClassNames(classes) {
		c := classes[name]
		fmt.Fprintf(out, "%s\n", name)
		for _, f := range c.Fields {
			fmt.Fprintf(out, "  field %-20s storage=%s local=%s\n",
				f.Name, m.StorageType(f.Descriptor).TypeName(), m.LocalType(f.Descriptor).TypeName())
		}
		for _, meth := range c.Methods {
			sig := m.MethodSignature(meth)
			fmt.Fprintf(out, "  method %-20s %s\n", meth.Name, sig.String())
		}
	}
	return nil
}
