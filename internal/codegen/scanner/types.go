package scanner

import (
	"go/ast"
	"go/types"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/Alia5/unmanagedgen/internal/codegen/layout"
)

// importRef is one import of a file, keyed by the name it is referred to by.
type importRef struct {
	Path  string
	Named bool // explicit local name in the import spec
}

type importTable map[string]importRef

// spec renders the import as it has to appear in a generated file.
func (t importTable) spec(name string) string {
	ref := t[name]
	if ref.Named {
		return name + " " + strconv.Quote(ref.Path)
	}
	return strconv.Quote(ref.Path)
}

func fileImports(f *ast.File) importTable {
	out := importTable{}
	for _, is := range f.Imports {
		p, err := strconv.Unquote(is.Path.Value)
		if err != nil {
			continue
		}
		if is.Name != nil {
			if is.Name.Name == "_" || is.Name.Name == "." {
				continue
			}
			out[is.Name.Name] = importRef{Path: p, Named: true}
			continue
		}
		out[defaultImportName(p)] = importRef{Path: p}
	}
	return out
}

// defaultImportName guesses the package name of an import path without
// loading it: "gopkg.in/yaml.v3" -> "yaml", "github.com/x/go-toml/v2" -> "toml".
func defaultImportName(importPath string) string {
	name := path.Base(importPath)
	if len(name) > 1 && name[0] == 'v' && strings.Trim(name[1:], "0123456789") == "" {
		name = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.ReplaceAll(name, "-", "_")
}

type typeDecl struct {
	spec    *ast.TypeSpec
	imports importTable
}

// typeIndex resolves type expressions against the package's own top-level
// type declarations.
type typeIndex struct {
	decls    map[string]typeDecl
	resolved map[string]*layout.Type
	extern   map[string]bool
}

func newTypeIndex(externUnmanaged []string) *typeIndex {
	ti := &typeIndex{
		decls:    map[string]typeDecl{},
		resolved: map[string]*layout.Type{},
		extern:   map[string]bool{},
	}
	for _, name := range externUnmanaged {
		ti.extern[strings.TrimSpace(name)] = true
	}
	return ti
}

func (ti *typeIndex) addFile(f *ast.File, imports importTable) {
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range gd.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok {
				ti.decls[ts.Name.Name] = typeDecl{spec: ts, imports: imports}
			}
		}
	}
}

func (ti *typeIndex) has(name string) bool {
	_, ok := ti.decls[name]
	return ok
}

func (ti *typeIndex) resolve(expr ast.Expr, imports importTable) *layout.Type {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return ti.resolve(e.X, imports)

	case *ast.Ident:
		if d, ok := ti.decls[e.Name]; ok {
			return ti.named(e.Name, d)
		}
		if t := layout.Universe(e.Name); t != nil {
			return t
		}

	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok {
			break
		}
		ref := imports[pkg.Name]
		if ref.Path == "unsafe" && e.Sel.Name == "Pointer" {
			return &layout.Type{Kind: layout.UnsafePointer, Name: "unsafe.Pointer"}
		}
		name := pkg.Name + "." + e.Sel.Name
		fixed := ti.extern[name] || (ref.Path != "" && ti.extern[ref.Path+"."+e.Sel.Name])
		return &layout.Type{Kind: layout.External, Name: name, Fixed: fixed}

	case *ast.StarExpr:
		return &layout.Type{Kind: layout.Pointer, Name: types.ExprString(e)}

	case *ast.ArrayType:
		if e.Len == nil {
			return &layout.Type{Kind: layout.Slice, Name: types.ExprString(e)}
		}
		return &layout.Type{Kind: layout.Array, Name: types.ExprString(e), Elem: ti.resolve(e.Elt, imports)}

	case *ast.StructType:
		t := &layout.Type{Kind: layout.Struct, Name: types.ExprString(e)}
		for _, f := range e.Fields.List {
			ft := ti.resolve(f.Type, imports)
			for range max(len(f.Names), 1) {
				t.Fields = append(t.Fields, ft)
			}
		}
		return t

	case *ast.MapType:
		return &layout.Type{Kind: layout.Map, Name: types.ExprString(e)}
	case *ast.ChanType:
		return &layout.Type{Kind: layout.Chan, Name: types.ExprString(e)}
	case *ast.FuncType:
		return &layout.Type{Kind: layout.Func, Name: types.ExprString(e)}
	case *ast.InterfaceType:
		return &layout.Type{Kind: layout.Interface, Name: types.ExprString(e)}
	case *ast.IndexExpr, *ast.IndexListExpr:
		return &layout.Type{Kind: layout.Generic, Name: types.ExprString(e)}
	}
	return &layout.Type{Kind: layout.Unknown, Name: types.ExprString(expr)}
}

// named resolves a package-level declaration once; the entry is registered
// before its right-hand side so recursive declarations terminate.
func (ti *typeIndex) named(name string, d typeDecl) *layout.Type {
	if t, ok := ti.resolved[name]; ok {
		return t
	}
	t := &layout.Type{Kind: layout.Named, Name: name, Alias: d.spec.Assign.IsValid()}
	ti.resolved[name] = t
	if d.spec.TypeParams != nil && d.spec.TypeParams.NumFields() > 0 {
		t.Kind = layout.Generic
		return t
	}
	t.Underlying = ti.resolve(d.spec.Type, d.imports)
	return t
}

// importsOf lists the import specs a type expression refers to, sorted.
func importsOf(expr ast.Expr, imports importTable) []string {
	var out []string
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok {
			if _, known := imports[id.Name]; known {
				if s := imports.spec(id.Name); !slices.Contains(out, s) {
					out = append(out, s)
				}
			}
		}
		return false
	})
	slices.Sort(out)
	return out
}
