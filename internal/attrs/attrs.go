// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"

	"github.com/tfctl/sieve/internal/driller"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
)

// Global is the key of the column spec whose transform applies to every
// column, e.g. "*::U".
const Global = "*"

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one output column.
type Attr struct {
	// Key is the record field path the value is read from.
	Key string `yaml:"key" json:"key"`
	// Title is the row key and the column title for text output.
	Title string `yaml:"title" json:"title"`
	// Include is false for columns that only feed sorting.
	Include bool `yaml:"include" json:"include"`
	// TransformSpec holds the value transforms: l/u case, t/T time, n/-n length.
	TransformSpec string `yaml:"transform" json:"transform"`
}

// Transform applies the column's transform spec to value. Only strings are
// transformed; everything else passes through.
func (a Attr) Transform(value any) any {
	result, ok := value.(string)
	if !ok || a.TransformSpec == "" {
		return value
	}

	// Local time or time ago for RFC3339 values.
	if strings.ContainsAny(a.TransformSpec, "tT") {
		if t, err := time.Parse(time.RFC3339, result); err == nil {
			if strings.Contains(a.TransformSpec, "T") {
				result = humanize.Time(t)
			} else {
				result = t.Local().Format("2006-01-02T15:04:05MST")
			}
		}
	}

	// The last case letter wins so a column spec can override the global one.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Same for length: the last number wins. Negative lengths keep both ends.
	if match := lengthRegex.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := l
		if abs < 0 {
			abs = -abs
		}
		if len(result) > abs {
			if l < 0 {
				side := max(abs/2-1, 0) //nolint:mnd
				result = result[:side] + ".." + result[len(result)-side:]
			} else {
				result = result[:l]
			}
		}
	}

	log.Tracef("transformed: key=%s, spec=%s, result=%s", a.Key, a.TransformSpec, result)
	return result
}

// AttrList is the ordered set of output columns.
type AttrList []Attr

// Set parses a comma separated list of key:title:transform column specs. A
// leading ! marks a sort-only column. Specs naming an existing column update
// it in place.
func (a *AttrList) Set(value string) error {
	if value == "" || value == Global {
		return nil
	}

	const (
		keyIdx = iota
		titleIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")
		if len(fields) > transformIdx+1 {
			return fmt.Errorf("bad column spec %q: want key:title:transform", spec)
		}

		attr := Attr{Include: true}
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("bad column spec %q: empty key", spec)
		}
		if attr.Key == Global {
			attr.Include = false
		}

		// The title defaults to the last segment of the key path.
		segments := strings.Split(attr.Key, ".")
		attr.Title = segments[len(segments)-1]
		if len(fields) > titleIdx && strings.TrimSpace(fields[titleIdx]) != "" {
			attr.Title = strings.TrimSpace(fields[titleIdx])
		}
		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].Title == attr.Key {
				(*a)[i].Include = attr.Include
				if len(fields) > titleIdx {
					(*a)[i].Title = attr.Title
				}
				(*a)[i].TransformSpec = attr.TransformSpec
				log.Tracef("column updated: key=%s", attr.Key)
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	log.Debugf("columns: %s", a.String())
	return nil
}

// String renders the list in the form Set accepts.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include && key != Global {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s", key, attr.Title, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Titles returns the titles of the included columns.
func (a AttrList) Titles() []string {
	titles := make([]string, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			titles = append(titles, attr.Title)
		}
	}
	return titles
}

// hasColumns reports whether any included column was named.
func (a AttrList) hasColumns() bool {
	for _, attr := range a {
		if attr.Include {
			return true
		}
	}
	return false
}

// globalSpec returns the transform of the * column, if any.
func (a AttrList) globalSpec() string {
	for _, attr := range a {
		if attr.Key == Global {
			return attr.TransformSpec
		}
	}
	return ""
}

// Defaults returns one column per top-level key of record, in document order.
func Defaults(record gjson.Result) AttrList {
	var list AttrList
	record.ForEach(func(key, _ gjson.Result) bool {
		list = append(list, Attr{Key: key.String(), Title: key.String(), Include: true})
		return true
	})
	return list
}

// Columns resolves the --attrs value against the collection. Without any
// named column the first record's keys are used, with the value's
// exclusions and transforms applied on top.
func Columns(value string, first gjson.Result) (AttrList, error) {
	var named AttrList
	if err := named.Set(value); err != nil {
		return nil, err
	}
	if named.hasColumns() {
		return named, nil
	}

	list := Defaults(first)
	if err := list.Set(value); err != nil {
		return nil, err
	}
	return list, nil
}

// Project turns records into output rows keyed by column title. Sort-only
// columns are projected too so SortDataset can see them.
func Project(records []filters.JSONRecord, list AttrList) []map[string]any {
	global := list.globalSpec()

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(list))
		for _, attr := range list {
			if attr.Key == Global {
				continue
			}
			if global != "" {
				attr.TransformSpec = global + "," + attr.TransformSpec
			}

			var value any
			if v := driller.Driller(record.Result, attr.Key); v.Exists() {
				value = v.Value()
			}
			row[attr.Title] = attr.Transform(value)
		}
		rows = append(rows, row)
	}
	return rows
}
