package main

// main.go implements the attrgen CLI: it scans a Go package for reflectable
// structs — structs that embed attributed.Attributed — collects their fields
// tagged `attr:"name"`, and emits the registry table the runtime consumes:
// per-attribute accessor methods, rtti registrations, and an init() that
// installs the Registry entries and factories.
//
// The emitted file is deterministic for a given input so it can be checked
// in and diffed.  Conventions understood by the scanner:
//   • a struct is reflectable when it embeds attributed.Attributed or any
//     local struct; the last embedded local struct is taken as the base, and
//     a struct whose base is not itself reflectable is registered as a root;
//   • scalar fields bind with Count 1, array fields `[N]T` with Count N;
//   • supported element types: bool, int, float64, string;
//   • a tag of the form `attr:"name,unbacked"` declares a prescribed
//     attribute with no backing field (Count 0) on the struct itself.
//
// Build-time flag: `-ldflags "-X main.version=vX.Y.Z"` is set by GoReleaser.
// ---------------------------------------------------------------
// © 2025 calyx authors. MIT License.

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var version = "dev"

type options struct {
	dir     string
	out     string
	version bool
	verbose bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.dir, "dir", ".", "package directory to scan")
	flag.StringVar(&o.out, "out", "registry_gen.go", "output file (relative to -dir)")
	flag.BoolVar(&o.version, "version", false, "print version and exit")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.Parse()
	return o
}

// attribute is one prescribed attribute collected from a struct.
type attribute struct {
	Name      string // dictionary key, from the tag
	Field     string // backing field name; "" when unbacked
	DatumType string // datum.Bool / datum.Int / datum.Float / datum.String
	CtorKey   string
	Count     int
	IsArray   bool
}

// reflectable is one scanned struct.
type reflectable struct {
	TypeName   string
	BaseName   string // "" when the struct roots the chain
	Attributes []attribute
}

func main() {
	opts := parseFlags()

	if opts.version {
		fmt.Println(version)
		return
	}

	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	pkgName, types, err := scan(opts.dir, logger)
	if err != nil {
		fatal(err)
	}
	if len(types) == 0 {
		fatal(fmt.Errorf("no reflectable structs found in %s", opts.dir))
	}
	logger.Info("scan complete", zap.Int("types", len(types)))

	src, err := emit(pkgName, types)
	if err != nil {
		fatal(err)
	}
	outPath := filepath.Join(opts.dir, opts.out)
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		fatal(err)
	}
	logger.Info("registry written", zap.String("path", outPath))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "attrgen:", err)
	os.Exit(1)
}

/* -------------------------------------------------------------------------
   Scanning
   ------------------------------------------------------------------------- */

func scan(dir string, logger *zap.Logger) (string, []reflectable, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		name := fi.Name()
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, "_gen.go")
	}, parser.ParseComments)
	if err != nil {
		return "", nil, err
	}

	var pkgName string
	var out []reflectable
	for name, pkg := range pkgs {
		pkgName = name
		for _, file := range pkg.Files {
			ast.Inspect(file, func(n ast.Node) bool {
				ts, ok := n.(*ast.TypeSpec)
				if !ok {
					return true
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					return true
				}
				r, ok := collect(ts.Name.Name, st)
				if !ok {
					return true
				}
				logger.Debug("reflectable struct",
					zap.String("type", r.TypeName),
					zap.Int("attributes", len(r.Attributes)))
				out = append(out, r)
				return true
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeName < out[j].TypeName })
	return pkgName, out, nil
}

// collect extracts the reflectable description of one struct, reporting
// false when the struct embeds neither attributed.Attributed nor any local
// struct.
func collect(name string, st *ast.StructType) (reflectable, bool) {
	r := reflectable{TypeName: name}
	mixedIn := false

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			// Embedded field: either the mixin itself or the base type.
			switch t := field.Type.(type) {
			case *ast.SelectorExpr:
				if pkgIdent, ok := t.X.(*ast.Ident); ok &&
					pkgIdent.Name == "attributed" && t.Sel.Name == "Attributed" {
					mixedIn = true
				}
			case *ast.Ident:
				// An embedded local struct is treated as the base; whether
				// it is reflectable is resolved at emit time.
				r.BaseName = t.Name
				mixedIn = true
			}
			continue
		}
		if field.Tag == nil {
			continue
		}
		tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`")).Get("attr")
		if tag == "" {
			continue
		}
		attrName, unbacked := splitTag(tag)
		elem, count, isArray, ok := fieldShape(field.Type)
		if !ok {
			continue
		}
		a := attribute{
			Name:      attrName,
			Field:     field.Names[0].Name,
			DatumType: datumTypeFor(elem),
			CtorKey:   elem,
			Count:     count,
			IsArray:   isArray,
		}
		if unbacked {
			a.Field = ""
			a.Count = 0
		}
		r.Attributes = append(r.Attributes, a)
	}
	return r, mixedIn
}

func splitTag(tag string) (name string, unbacked bool) {
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) == "unbacked" {
			unbacked = true
		}
	}
	return name, unbacked
}

// fieldShape maps a field type onto (element type, count, isArray).
func fieldShape(expr ast.Expr) (elem string, count int, isArray bool, ok bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		if supportedElem(t.Name) {
			return t.Name, 1, false, true
		}
	case *ast.ArrayType:
		lenLit, isLit := t.Len.(*ast.BasicLit)
		if !isLit || lenLit.Kind != token.INT {
			return "", 0, false, false // slices have no fixed count
		}
		inner, isIdent := t.Elt.(*ast.Ident)
		if !isIdent || !supportedElem(inner.Name) {
			return "", 0, false, false
		}
		n, err := strconv.Atoi(lenLit.Value)
		if err != nil || n <= 0 {
			return "", 0, false, false
		}
		return inner.Name, n, true, true
	}
	return "", 0, false, false
}

func supportedElem(name string) bool {
	switch name {
	case "bool", "int", "float64", "string":
		return true
	}
	return false
}

func datumTypeFor(elem string) string {
	switch elem {
	case "bool":
		return "datum.Bool"
	case "int":
		return "datum.Int"
	case "float64":
		return "datum.Float"
	case "string":
		return "datum.String"
	}
	return "datum.None"
}

/* -------------------------------------------------------------------------
   Emission
   ------------------------------------------------------------------------- */

func emit(pkgName string, types []reflectable) ([]byte, error) {
	var b bytes.Buffer

	fmt.Fprintf(&b, "// Code generated by attrgen. DO NOT EDIT.\n\npackage %s\n\n", pkgName)
	b.WriteString(`import (
	"github.com/calyx-engine/calyx/attributed"
	"github.com/calyx-engine/calyx/datum"
	"github.com/calyx-engine/calyx/internal/memutil"
	"github.com/calyx-engine/calyx/rtti"
)

`)

	// Type identities.
	b.WriteString("var (\n")
	for _, t := range types {
		fmt.Fprintf(&b, "\t%sTypeID = rtti.Register(%q)\n", lowerFirst(t.TypeName), t.TypeName)
	}
	b.WriteString(")\n\n")

	// Accessor interfaces and methods, one set per type.
	for _, t := range types {
		backed := backedAttrs(t)
		if len(backed) == 0 {
			continue
		}
		fmt.Fprintf(&b, "type %sFields interface {\n", lowerFirst(t.TypeName))
		for _, a := range backed {
			fmt.Fprintf(&b, "\tattr%s%s() []%s\n", t.TypeName, a.Field, a.CtorKey)
		}
		b.WriteString("}\n\n")
		for _, a := range backed {
			if a.IsArray {
				fmt.Fprintf(&b, "func (x *%s) attr%s%s() []%s { return x.%s[:] }\n",
					t.TypeName, t.TypeName, a.Field, a.CtorKey, a.Field)
			} else {
				fmt.Fprintf(&b, "func (x *%s) attr%s%s() []%s { return memutil.FieldSlice(&x.%s) }\n",
					t.TypeName, t.TypeName, a.Field, a.CtorKey, a.Field)
			}
		}
		b.WriteString("\n")
	}

	// Registry installation.
	b.WriteString("func init() {\n")
	for _, t := range types {
		base := lowerFirst(t.TypeName) + "TypeID"
		if t.BaseName != "" && isReflectable(types, t.BaseName) {
			base = lowerFirst(t.BaseName) + "TypeID"
		}
		fmt.Fprintf(&b, "\tattributed.RegisterType(%sTypeID, attributed.Entry{\n", lowerFirst(t.TypeName))
		fmt.Fprintf(&b, "\t\tBase: %s,\n", base)
		b.WriteString("\t\tAttributes: []attributed.AttributeDescriptor{\n")
		for _, a := range t.Attributes {
			fmt.Fprintf(&b, "\t\t\t{Name: %q, Type: %s, Count: %d, CtorKey: %q",
				a.Name, a.DatumType, a.Count, a.CtorKey)
			if a.Count > 0 {
				fmt.Fprintf(&b, ", Bind: func(owner any) *datum.Datum {\n")
				fmt.Fprintf(&b, "\t\t\t\treturn datum.ExternalOf(owner.(%sFields).attr%s%s())\n",
					lowerFirst(t.TypeName), t.TypeName, a.Field)
				b.WriteString("\t\t\t}},\n")
			} else {
				b.WriteString("},\n")
			}
		}
		b.WriteString("\t\t},\n\t})\n")
	}
	for _, t := range types {
		fmt.Fprintf(&b, "\tattributed.RegisterFactory(%q, func() rtti.RTTI { return New%s() })\n",
			t.TypeName, t.TypeName)
	}
	b.WriteString("}\n")

	return format.Source(b.Bytes())
}

func backedAttrs(t reflectable) []attribute {
	var out []attribute
	for _, a := range t.Attributes {
		if a.Count > 0 {
			out = append(out, a)
		}
	}
	return out
}

func isReflectable(types []reflectable, name string) bool {
	for _, t := range types {
		if t.TypeName == name {
			return true
		}
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
