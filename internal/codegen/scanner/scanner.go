// Package scanner finds type declarations carrying //unmanaged: directives
// and resolves their arguments from declared source.
//
// Scanning is purely syntactic. The package is parsed with go/parser, and
// constants and type declarations are resolved against the package's own
// files; nothing is type-checked and no dependency is loaded.
package scanner

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alia5/unmanagedgen/internal/codegen/annotation"
	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
)

// Options tune how declarations are resolved.
type Options struct {
	// ExternUnmanaged lists types from other packages that have a fixed,
	// pointer-free layout, as "pkg.Type" or "import/path.Type".
	ExternUnmanaged []string
}

// Package is the scan result of one directory.
type Package struct {
	Name       string      `json:"name"`
	Dir        string      `json:"dir"`
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a type declaration with at least one directive. Candidates are
// ordered by file name, then by position within the file.
type Candidate struct {
	Package string         `json:"package"`
	Name    string         `json:"name"`
	Pos     token.Position `json:"pos"`
	// Struct is false for non-struct types, aliases and generic types; none
	// of them can embed a companion.
	Struct          bool     `json:"struct"`
	Embedded        []string `json:"embedded,omitempty"`
	BuildConstraint string   `json:"buildConstraint,omitempty"`

	Annotations []annotation.Annotation `json:"annotations"`
	// Invalid holds diagnostics for directives that could not be resolved
	// into annotations.
	Invalid []diag.Diagnostic `json:"invalid,omitempty"`
}

// Embeds reports whether the candidate value-embeds typeName.
func (c Candidate) Embeds(typeName string) bool {
	for _, e := range c.Embedded {
		if e == typeName {
			return true
		}
	}
	return false
}

// ScanDir scans the Go package in dir. Test files, files this tool generated
// and files constrained by "ignore" are skipped.
func ScanDir(dir string, opts Options) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		filePath := filepath.Join(dir, name)
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		if common.IsGenerated(data) {
			continue
		}
		file, err := parseGoSource(fset, filePath, data)
		if err != nil {
			return nil, err
		}
		if buildConstraint(file) == "ignore" {
			continue
		}
		files = append(files, file)
	}

	pkg, err := ScanFiles(fset, files, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	pkg.Dir = dir
	return pkg, nil
}

// ScanSource scans a single file held in memory.
func ScanSource(filename string, src []byte, opts Options) (*Package, error) {
	fset := token.NewFileSet()
	file, err := parseGoSource(fset, filename, src)
	if err != nil {
		return nil, err
	}
	pkg, err := ScanFiles(fset, []*ast.File{file}, opts)
	if err != nil {
		return nil, err
	}
	pkg.Dir = filepath.Dir(filename)
	return pkg, nil
}

// ScanFiles scans already parsed files of one package. The files must have
// been parsed with comments.
func ScanFiles(fset *token.FileSet, files []*ast.File, opts Options) (*Package, error) {
	if len(files) == 0 {
		return &Package{}, nil
	}

	pkg := &Package{Name: files[0].Name.Name}
	types := newTypeIndex(opts.ExternUnmanaged)
	consts := newConstIndex(types.has)
	imports := make([]importTable, len(files))
	for i, f := range files {
		if f.Name.Name != pkg.Name {
			return nil, fmt.Errorf("found packages %s and %s in the same directory", pkg.Name, f.Name.Name)
		}
		imports[i] = fileImports(f)
		types.addFile(f, imports[i])
		consts.addFile(f)
	}

	s := &fileScan{fset: fset, pkg: pkg.Name, types: types, consts: consts}
	for i, f := range files {
		s.imports = imports[i]
		s.constraint = buildConstraint(f)
		pkg.Candidates = append(pkg.Candidates, s.candidates(f)...)
	}
	return pkg, nil
}

func parseGoSource(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fset, filename, src, parser.ParseComments)
}

// buildConstraint returns the file's //go:build expression, or "".
func buildConstraint(f *ast.File) string {
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}
		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			if expr, err := constraint.Parse(c.Text); err == nil {
				return expr.String()
			}
		}
	}
	return ""
}

type fileScan struct {
	fset       *token.FileSet
	pkg        string
	types      *typeIndex
	consts     *constIndex
	imports    importTable
	constraint string
}

func (s *fileScan) candidates(f *ast.File) []Candidate {
	var out []Candidate
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			// Without parentheses the doc comment belongs to the GenDecl.
			var comments []*ast.Comment
			if gd.Doc != nil && len(gd.Specs) == 1 {
				comments = append(comments, gd.Doc.List...)
			}
			if ts.Doc != nil {
				comments = append(comments, ts.Doc.List...)
			}
			if c, ok := s.candidate(ts, comments); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func (s *fileScan) candidate(ts *ast.TypeSpec, comments []*ast.Comment) (Candidate, bool) {
	c := Candidate{
		Package:         s.pkg,
		Name:            ts.Name.Name,
		Pos:             s.fset.Position(ts.Name.Pos()),
		BuildConstraint: s.constraint,
	}

	counts := map[annotation.Kind]int{}
	found := false
	for _, cm := range comments {
		d, err := annotation.ParseDirective(cm.Text)
		if errors.Is(err, annotation.ErrNotDirective) {
			continue
		}
		found = true
		if err != nil {
			c.Invalid = append(c.Invalid, diag.New(diag.InvalidAnnotationRule, c.Pos, strings.TrimSpace(cm.Text), err.Error()))
			continue
		}
		if d.Kind == annotation.KindInvalid {
			c.Invalid = append(c.Invalid, diag.New(diag.InvalidAnnotationRule, c.Pos, d.Text, fmt.Sprintf("unknown directive %q", d.Verb)))
			continue
		}
		counts[d.Kind]++
		a, err := s.resolve(d, s.fset.Position(cm.Pos()))
		if err != nil {
			c.Invalid = append(c.Invalid, diag.New(diag.InvalidAnnotationRule, c.Pos, d.Text, err.Error()))
			continue
		}
		c.Annotations = append(c.Annotations, a)
	}
	if !found {
		return c, false
	}

	// A repeated kind produces no artifact at all.
	for _, k := range annotation.Kinds() {
		if counts[k] < 2 {
			continue
		}
		c.Invalid = append(c.Invalid, diag.New(diag.DuplicateAnnotationRule, c.Pos, k.Verb(), c.Name))
		kept := c.Annotations[:0]
		for _, a := range c.Annotations {
			if a.Kind() != k {
				kept = append(kept, a)
			}
		}
		c.Annotations = kept
	}

	st, isStruct := ts.Type.(*ast.StructType)
	generic := ts.TypeParams != nil && ts.TypeParams.NumFields() > 0
	c.Struct = isStruct && !ts.Assign.IsValid() && !generic
	if c.Struct {
		for _, field := range st.Fields.List {
			if len(field.Names) != 0 {
				continue
			}
			if id, ok := field.Type.(*ast.Ident); ok {
				c.Embedded = append(c.Embedded, id.Name)
			}
		}
	}
	return c, true
}

func (s *fileScan) resolve(d annotation.Directive, at token.Position) (annotation.Annotation, error) {
	switch d.Kind {
	case annotation.KindFixedChars:
		args, err := d.Bind([]string{"length"}, 1)
		if err != nil {
			return nil, err
		}
		n, err := s.consts.intValue(args["length"])
		if err != nil {
			return nil, err
		}
		return annotation.CharBuffer{Length: n, At: at}, nil

	case annotation.KindFixedBuffer:
		args, err := d.Bind([]string{"length", "type"}, 2)
		if err != nil {
			return nil, err
		}
		n, err := s.consts.intValue(args["length"])
		if err != nil {
			return nil, err
		}
		expr, err := parser.ParseExpr(args["type"])
		if err != nil {
			return nil, fmt.Errorf("%q is not a type", args["type"])
		}
		return annotation.ElementBuffer{
			Length: n,
			Elem: annotation.TypeRef{
				Expr:    args["type"],
				Imports: importsOf(expr, s.imports),
				Layout:  s.types.resolve(expr, s.imports),
			},
			At: at,
		}, nil

	case annotation.KindNativeHandle:
		args, err := d.Bind([]string{"base"}, 0)
		if err != nil {
			return nil, err
		}
		h := annotation.NativeHandle{BaseTypeName: strings.TrimSpace(args["base"]), At: at}
		if h.BaseTypeName == "" {
			h.BaseTypeName = annotation.DefaultBaseTypeName
		}
		if expr, err := parser.ParseExpr(h.BaseTypeName); err == nil {
			h.Imports = importsOf(expr, s.imports)
		}
		return h, nil
	}
	return nil, fmt.Errorf("unknown directive %q", d.Verb)
}
