// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package g3d

import "log/slog"

// propagateGPULogger is a no-op in nogpu builds: the hal session package
// is compiled out.
func propagateGPULogger(*slog.Logger) {}
