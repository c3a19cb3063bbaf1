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

// Package clog is a context-carried logger in the shape of the teacher's
// core/log package (a Context wraps a context.Context and hands back a
// Logger via At/Info/Error...), but backed by a single *zap.Logger instead
// of the teacher's hand-rolled broadcast/handler/severity machinery: where
// the pack already shows a ready ecosystem logger, we reach for that rather
// than reimplementing the homegrown one.
package clog

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type loggerKey struct{}

var (
	defaultOnce   sync.Once
	defaultLogger *zap.Logger
)

func fallback() *zap.Logger {
	defaultOnce.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		defaultLogger = l
	})
	return defaultLogger
}

// With returns a child context carrying l, retrievable later with From.
func With(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// From returns the *zap.Logger attached to ctx by With, or a lazily
// initialized no-frills production logger if none was attached.
func From(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback()
}

// SetDefault overrides the fallback logger returned by From when ctx carries
// none of its own - analogous to wippyai-wasm-runtime's package-level
// SetLogger override point.
func SetDefault(l *zap.Logger) {
	defaultOnce.Do(func() {})
	defaultLogger = l
}

// Class returns a child logger tagged with the offending or relevant
// internal class name, the one piece of structured context every diagnostic
// in this module can attach (spec.md §7).
func Class(ctx context.Context, class string) *zap.Logger {
	if class == "" {
		return From(ctx)
	}
	return From(ctx).With(zap.String("class", class))
}
