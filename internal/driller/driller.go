// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex matches one path segment: a key with an optional [n] or [*]
// suffix.
var segmentRegex = regexp.MustCompile(`^([^.\[\]]+)(\[(\d+|\*)?\])?$`)

// Driller walks a dotted field path through a parsed record. Keys that
// contain dots or brackets cannot be addressed segment by segment, so such a
// path is tried as a literal key first.
//
// An array reached without an index collapses to its only element when it
// has exactly one; otherwise the whole array is returned. "[*]" always
// returns the whole array.
func Driller(record gjson.Result, path string) gjson.Result {
	if path == "" {
		return gjson.Result{}
	}

	if strings.ContainsAny(path, ".[") {
		if literal := record.Get(gjson.Escape(path)); literal.Exists() {
			return literal
		}
	}

	current := record
	for _, p := range strings.Split(path, ".") {
		matches := segmentRegex.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{} // Invalid path segment
		}

		key := matches[1]

		index := -1
		switch matches[3] {
		case "":
		case "*":
			index = -2
		default:
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}

		val := current.Get(gjson.Escape(key))
		if val.IsArray() {
			arr := val.Array()
			switch {
			case index == -1:
				if len(arr) == 1 {
					val = arr[0]
				}
				// Otherwise keep the whole list.
			case index == -2:
			case index < len(arr):
				val = arr[index]
			default:
				return gjson.Result{}
			}
		} else if index >= 0 {
			return gjson.Result{}
		}

		current = val
	}

	return current
}
