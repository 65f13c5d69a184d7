// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLog(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		entry *log.Entry
		want  string
	}{
		{
			name:  "debug",
			entry: &log.Entry{Level: log.DebugLevel, Message: "hello", Timestamp: ts},
			want:  "2026-01-02 03:04:05 D hello\n",
		},
		{
			name:  "trace prefix",
			entry: &log.Entry{Level: log.DebugLevel, Message: "TRACE: deep", Timestamp: ts},
			want:  "2026-01-02 03:04:05 T deep\n",
		},
		{
			name:  "warn",
			entry: &log.Entry{Level: log.WarnLevel, Message: "careful", Timestamp: ts},
			want:  "2026-01-02 03:04:05 W careful\n",
		},
		{
			name: "fields sorted",
			entry: &log.Entry{
				Level:     log.ErrorLevel,
				Message:   "boom",
				Timestamp: ts,
				Fields:    log.Fields{"z": 1, "a": "x"},
			},
			want: "2026-01-02 03:04:05 E boom a=x z=1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewHandler(&buf).HandleLog(tt.entry))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestInitLoggerLevels(t *testing.T) {
	tests := []struct {
		env       string
		wantTrace bool
	}{
		{env: "", wantTrace: false},
		{env: "debug", wantTrace: false},
		{env: "TRACE", wantTrace: true},
		{env: "bogus", wantTrace: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("SIEVE_LOG", tt.env)
			InitLogger()
			assert.Equal(t, tt.wantTrace, traceEnabled)
		})
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log.SetHandler(NewHandler(&buf))
	log.SetLevel(log.WarnLevel)
	t.Cleanup(InitLogger)

	WithError(errors.New("bad")).Warn("skipping")

	assert.Contains(t, buf.String(), " W skipping error=bad")
}
