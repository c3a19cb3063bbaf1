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

// Package metrics registers the small set of prometheus counters and
// histograms a batch run of this core's CLI harness cares about: how many
// classes were laid out, how many trampolines were created, and how long
// each class took. This is ambient observability, not a modeled component - the
// library core itself never imports this package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry isolates these collectors from the global default registry so
// multiple CLI invocations within one process (tests, batch sub-runs)
// never collide registering the same metric name twice.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ClassesCompiled counts classes this process has computed layouts for.
	ClassesCompiled = factory.NewCounter(prometheus.CounterOpts{
		Name: "aurac_classes_compiled_total",
		Help: "Number of managed classes laid out and type-mapped.",
	})

	// TrampolinesCreated counts distinct trampolines added to a Set.
	TrampolinesCreated = factory.NewCounter(prometheus.CounterOpts{
		Name: "aurac_trampolines_created_total",
		Help: "Number of distinct trampolines inserted into a trampoline Set.",
	})

	// CompileDuration observes how long a single class's layout and
	// type-mapping pass took, in seconds.
	CompileDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "aurac_compile_duration_seconds",
		Help:    "Wall time spent laying out and type-mapping one class.",
		Buckets: prometheus.DefBuckets,
	})
)
