// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source fetches record collections from stdin, local files, S3 and
// HTTP(S) and decodes them into JSON records. JSON and YAML bodies are both
// accepted; remote bodies are cached on disk.
package source
