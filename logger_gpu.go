// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package g3d

import (
	"log/slog"

	"github.com/gogpu/g3d/internal/gpu"
)

// propagateGPULogger passes the root logger to the hal session package.
func propagateGPULogger(l *slog.Logger) {
	gpu.SetLogger(l)
}
