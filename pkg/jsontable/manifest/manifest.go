// Package manifest loads batch extraction manifests written in HCL.
//
// A manifest holds one block per table:
//
//	table "sales" {
//	  path       = "${env.DATA_DIR}/sales.xlsx"
//	  sheet      = "Q1"
//	  skip_rows  = "0-1"
//	  header_row = 2
//	}
//
// Every attribute other than path is an extraction option named as in
// jsontable.OptionsFromMap. Expressions may read environment variables
// through the env object. Relative paths resolve against the manifest's
// directory.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/tableerr"
	"github.com/zclconf/go-cty/cty"
)

type hclManifest struct {
	Tables []*hclTable `hcl:"table,block"`
}

type hclTable struct {
	Name   string         `hcl:"name,label"`
	Path   hcl.Expression `hcl:"path"`
	Remain hcl.Body       `hcl:",remain"`
}

// Load reads and decodes the manifest at path using the process environment.
func Load(path string) ([]jsontable.Job, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(src, path, environ())
}

// Parse decodes manifest source. filename is used for diagnostics and to
// resolve relative table paths.
func Parse(src []byte, filename string, env map[string]string) ([]jsontable.Job, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}

	var parsed hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", filename, diags)
	}

	evalCtx := evalContext(env)
	baseDir := filepath.Dir(filename)
	seen := make(map[string]bool, len(parsed.Tables))

	jobs := make([]jsontable.Job, 0, len(parsed.Tables))
	for _, table := range parsed.Tables {
		if !validTableName(table.Name) {
			return nil, fmt.Errorf("manifest %s: table %q: name must be a plain file name", filename, table.Name)
		}
		if seen[table.Name] {
			return nil, fmt.Errorf("manifest %s: duplicate table %q", filename, table.Name)
		}
		seen[table.Name] = true

		job, err := decodeTable(table, evalCtx, baseDir)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: table %q: %w", filename, table.Name, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func decodeTable(table *hclTable, evalCtx *hcl.EvalContext, baseDir string) (jsontable.Job, error) {
	pathVal, diags := table.Path.Value(evalCtx)
	if diags.HasErrors() {
		return jsontable.Job{}, diags
	}
	if pathVal.IsNull() || !pathVal.IsKnown() || pathVal.Type() != cty.String {
		return jsontable.Job{}, tableerr.New(tableerr.TypeMismatch, pathVal.GoString(), "path must be text")
	}
	path := pathVal.AsString()
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	attrs, diags := table.Remain.JustAttributes()
	if diags.HasErrors() {
		return jsontable.Job{}, diags
	}
	values := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return jsontable.Job{}, diags
		}
		goVal, err := ctyValueToInterface(val)
		if err != nil {
			return jsontable.Job{}, tableerr.Wrap(err, tableerr.TypeMismatch, name, "unsupported value")
		}
		values[name] = goVal
	}

	opts, err := jsontable.OptionsFromMap(values)
	if err != nil {
		return jsontable.Job{}, err
	}
	return jsontable.Job{Name: table.Name, Path: path, Options: opts}, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && validIdentifier(k) {
			env[k] = v
		}
	}
	return env
}

// validIdentifier reports whether name can be used as an attribute of env.
// validTableName reports whether name can be used as an output file stem.
func validTableName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// ctyValueToInterface converts a cty.Value to a Go value.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", ty.FriendlyName())
}
