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
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ashleyj/aurac/internal/clog"
	"github.com/ashleyj/aurac/managed"
)

// manifestField is the YAML shape of one managed.Field entry.
type manifestField struct {
	Name       string `yaml:"name"`
	Descriptor string `yaml:"descriptor"`
	Static     bool   `yaml:"static"`
	Final      bool   `yaml:"final"`
	Volatile   bool   `yaml:"volatile"`
}

// manifestMethod is the YAML shape of one managed.Method entry.
type manifestMethod struct {
	Name       string `yaml:"name"`
	Descriptor string `yaml:"descriptor"`
	Static     bool   `yaml:"static"`
	Native     bool   `yaml:"native"`
}

// manifestClass is the YAML shape of one managed.Class entry.
type manifestClass struct {
	InternalName string           `yaml:"class"`
	Superclass   string           `yaml:"superclass"`
	Fields       []manifestField  `yaml:"fields"`
	Methods      []manifestMethod `yaml:"methods"`
}

// manifest is the top-level YAML document this harness reads: since no real
// class-file front end exists in this core (spec.md §1), a manifest is the
// stand-in a driver would otherwise produce by parsing .class files.
type manifest struct {
	Classes []manifestClass `yaml:"classes"`
}

func loadManifest(ctx context.Context, path string) (managed.ClassTable, error) {
	log := clog.From(ctx)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("reading manifest failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		log.Error("parsing manifest failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	classes := make(managed.ClassTable, len(m.Classes))
	for _, mc := range m.Classes {
		c := &managed.Class{InternalName: mc.InternalName, Superclass: mc.Superclass}
		for _, mf := range mc.Fields {
			d, err := managed.ParseDescriptor(mf.Descriptor)
			if err != nil {
				clog.Class(ctx, mc.InternalName).Error("field descriptor parse failed", zap.String("field", mf.Name), zap.Error(err))
				return nil, fmt.Errorf("class %s field %s: %w", mc.InternalName, mf.Name, err)
			}
			c.Fields = append(c.Fields, managed.Field{
				OwnerClass: mc.InternalName, Name: mf.Name, Descriptor: d,
				Static: mf.Static, Final: mf.Final, Volatile: mf.Volatile,
			})
		}
		for _, mm := range mc.Methods {
			d, err := managed.ParseMethodDescriptor(mm.Descriptor)
			if err != nil {
				clog.Class(ctx, mc.InternalName).Error("method descriptor parse failed", zap.String("method", mm.Name), zap.Error(err))
				return nil, fmt.Errorf("class %s method %s: %w", mc.InternalName, mm.Name, err)
			}
			c.Methods = append(c.Methods, managed.Method{
				OwnerClass: mc.InternalName, Name: mm.Name, Descriptor: d,
				Static: mm.Static, Native: mm.Native,
			})
		}
		classes[mc.InternalName] = c
	}
	log.Debug("manifest loaded", zap.String("path", path), zap.Int("classes", len(classes)))
	return classes, nil
}
