// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package specfile

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/sieve/internal/config"
	"github.com/tfctl/sieve/internal/filters"
	"github.com/tfctl/sieve/internal/log"
)

// hclFile is the shape of an HCL declaration file:
//
//	filter "type" {
//	  kind    = "selection"
//	  options = ["public", "private"]
//	}
type hclFile struct {
	Filters []hclFilter `hcl:"filter,block"`
}

type hclFilter struct {
	Field   string    `hcl:"field,label"`
	Kind    string    `hcl:"kind"`
	Mode    string    `hcl:"mode,optional"`
	Options cty.Value `hcl:"options,optional"`
}

// Load reads filter declarations from path. The format follows the file
// extension: .hcl is HCL, anything else is YAML (which includes JSON). YAML
// documents are either a bare list of declarations or a mapping with a
// "filters" list.
func Load(path string) ([]filters.Spec, error) {
	log.Debugf("loading declarations: path=%s", path)

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return loadHCL(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML or JSON declaration text.
func Parse(data []byte) ([]filters.Spec, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse declarations: %w", err)
	}

	switch d := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return filters.ParseDecls(d)
	case map[string]any:
		raw, ok := d["filters"]
		if !ok {
			return nil, fmt.Errorf("%w: no filters list", filters.ErrMalformed)
		}
		decls, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: filters must be a list", filters.ErrMalformed)
		}
		return filters.ParseDecls(decls)
	default:
		return nil, fmt.Errorf("%w: unexpected %T document", filters.ErrMalformed, doc)
	}
}

// loadHCL decodes filter blocks and funnels them through the same
// declaration parser as YAML.
func loadHCL(path string) ([]filters.Spec, error) {
	var file hclFile
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	decls := make([]any, 0, len(file.Filters))
	for _, f := range file.Filters {
		decl := map[string]any{
			"field": f.Field,
			"kind":  f.Kind,
		}
		if f.Mode != "" {
			decl["mode"] = f.Mode
		}
		if opts, ok := ctyOptions(f.Options); ok {
			decl["options"] = opts
		}
		decls = append(decls, decl)
	}

	return filters.ParseDecls(decls)
}

// ctyOptions converts an HCL options value to plain Go scalars. Non-scalar
// elements are passed through untouched so the declaration parser rejects
// them. A value that is not a sequence is passed through as well.
func ctyOptions(v cty.Value) (any, bool) {
	if v == cty.NilVal || v.IsNull() {
		return nil, false
	}
	if !v.IsKnown() {
		return v, true
	}

	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return v, true
	}

	out := make([]any, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, ctyScalar(elem))
	}
	return out, true
}

// ctyScalar returns the Go form of a known primitive value.
func ctyScalar(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return v
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Bool:
		return v.True()
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		if v.AsBigFloat().IsInt() {
			if i, acc := v.AsBigFloat().Int64(); acc == big.Exact {
				return i
			}
		}
		return f
	default:
		return v
	}
}

// FromConfig reads the named declaration list from the specs section of the
// configuration.
func FromConfig(name string) ([]filters.Spec, error) {
	raw, err := config.Get("specs." + name)
	if err != nil {
		return nil, fmt.Errorf("spec set %q: %w", name, err)
	}

	decls, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: spec set %q must be a list", filters.ErrMalformed, name)
	}
	return filters.ParseDecls(decls)
}

// ParseInline parses --decl values of the form field:kind:mode or
// field:selection:a|b|c.
func ParseInline(decls []string) ([]filters.Spec, error) {
	raw := make([]any, 0, len(decls))
	for _, d := range decls {
		parts := strings.SplitN(d, ":", 3) //nolint:mnd
		if len(parts) != 3 { //nolint:mnd
			// Let the declaration parser report the short tuple.
			tuple := make([]any, len(parts))
			for i := range parts {
				tuple[i] = parts[i]
			}
			raw = append(raw, tuple)
			continue
		}

		tuple := []any{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])}
		if filters.Kind(tuple[1].(string)) == filters.KindSelection {
			opts := []any{}
			if parts[2] != "" {
				for _, o := range strings.Split(parts[2], "|") {
					opts = append(opts, o)
				}
			}
			tuple = append(tuple, opts)
		} else {
			tuple = append(tuple, strings.TrimSpace(parts[2]))
		}
		raw = append(raw, tuple)
	}

	return filters.ParseDecls(raw)
}
