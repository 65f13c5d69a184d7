// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

// Values holds the raw text supplied for each filtered field. It is owned by
// the caller and updated one field at a time.
type Values map[string]string

// Set records the value for field. Setting "" or "all" leaves the entry in
// place but makes it inactive.
func (v Values) Set(field, value string) {
	v[field] = value
}

// Clear removes the value for field.
func (v Values) Clear(field string) {
	delete(v, field)
}

// Reset removes every value.
func (v Values) Reset() {
	clear(v)
}

// Lookup returns the value for field and whether it is active. Absent, empty
// and "all" values are inactive.
func (v Values) Lookup(field string) (string, bool) {
	value, ok := v[field]
	if !ok || value == "" || value == AllValue {
		return "", false
	}
	return value, true
}

// Active returns the number of active entries.
func (v Values) Active() int {
	n := 0
	for field := range v {
		if _, ok := v.Lookup(field); ok {
			n++
		}
	}
	return n
}
