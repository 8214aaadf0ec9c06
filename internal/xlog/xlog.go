// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package xlog carries the module's only logging dependency: a single
// package-level *zap.Logger used exclusively for debug-level diagnostics
// that never affect behavior — a silently dropped out-of-range insert,
// a rejected degenerate polygon. Nothing on a query path depends on it.
//
// The zero-configuration default is a no-op logger, so embedding this
// module into a host process never produces unsolicited output; hosts
// that want the diagnostics call SetLogger with their own *zap.Logger.
package xlog

import "go.uber.org/zap"

var log = zap.NewNop()

// SetLogger replaces the package logger. Passing nil restores the no-op
// default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

// Debug logs a debug-level diagnostic with structured fields.
func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}
