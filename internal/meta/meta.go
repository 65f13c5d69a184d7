// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
	"io"

	"github.com/tfctl/sieve/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context and the standard streams so commands can be
// driven from tests.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	Stdin   io.Reader
	Stdout  io.Writer
}
