package scanner

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"

	"fortio.org/safecast"

	"github.com/Alia5/unmanagedgen/internal/codegen/layout"
)

// noIota marks evaluation outside a const declaration.
const noIota = -1

type constDecl struct {
	expr ast.Expr
	iota int64
}

// constIndex evaluates package-level constants from their declarations.
// Values are memoized; evaluation never executes code.
type constIndex struct {
	decls    map[string]constDecl
	values   map[string]constant.Value
	visiting map[string]bool
	isType   func(name string) bool
}

func newConstIndex(isType func(string) bool) *constIndex {
	return &constIndex{
		decls:    map[string]constDecl{},
		values:   map[string]constant.Value{},
		visiting: map[string]bool{},
		isType:   isType,
	}
}

func (ci *constIndex) addFile(f *ast.File) {
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.CONST {
			continue
		}
		// Specs without values repeat the previous expression list.
		var last []ast.Expr
		for i, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			if len(vs.Values) > 0 {
				last = vs.Values
			}
			for j, name := range vs.Names {
				if name.Name == "_" || j >= len(last) {
					continue
				}
				ci.decls[name.Name] = constDecl{expr: last[j], iota: int64(i)}
			}
		}
	}
}

// intValue resolves a directive argument such as "260", "0x104" or
// "MaxPath+1" to an int.
func (ci *constIndex) intValue(src string) (int, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return 0, fmt.Errorf("%q is not an expression", src)
	}
	v, err := ci.eval(expr, noIota)
	if err != nil {
		return 0, err
	}
	iv := constant.ToInt(v)
	if iv.Kind() != constant.Int {
		return 0, fmt.Errorf("%s is not an integer constant", src)
	}
	i64, exact := constant.Int64Val(iv)
	if !exact {
		return 0, fmt.Errorf("%s overflows int64", src)
	}
	n, err := safecast.Conv[int](i64)
	if err != nil {
		return 0, fmt.Errorf("%s does not fit in int: %w", src, err)
	}
	return n, nil
}

func (ci *constIndex) lookup(name string) (constant.Value, error) {
	if v, ok := ci.values[name]; ok {
		return v, nil
	}
	d, ok := ci.decls[name]
	if !ok {
		return nil, fmt.Errorf("%s is not a constant declared in this package", name)
	}
	if ci.visiting[name] {
		return nil, fmt.Errorf("constant %s refers to itself", name)
	}
	ci.visiting[name] = true
	defer delete(ci.visiting, name)

	v, err := ci.eval(d.expr, d.iota)
	if err != nil {
		return nil, err
	}
	ci.values[name] = v
	return v, nil
}

func (ci *constIndex) eval(expr ast.Expr, iota int64) (v constant.Value, err error) {
	// go/constant panics on operand kinds an operator does not accept.
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("invalid constant expression %s: %v", types.ExprString(expr), r)
		}
	}()
	return ci.evalExpr(expr, iota)
}

func (ci *constIndex) evalExpr(expr ast.Expr, iota int64) (constant.Value, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		v := constant.MakeFromLiteral(e.Value, e.Kind, 0)
		if v.Kind() == constant.Unknown {
			return nil, fmt.Errorf("malformed literal %s", e.Value)
		}
		return v, nil

	case *ast.Ident:
		switch e.Name {
		case "iota":
			if iota == noIota {
				return nil, errors.New("iota used outside a constant declaration")
			}
			return constant.MakeInt64(iota), nil
		case "true":
			return constant.MakeBool(true), nil
		case "false":
			return constant.MakeBool(false), nil
		}
		return ci.lookup(e.Name)

	case *ast.ParenExpr:
		return ci.evalExpr(e.X, iota)

	case *ast.UnaryExpr:
		x, err := ci.evalExpr(e.X, iota)
		if err != nil {
			return nil, err
		}
		return constant.UnaryOp(e.Op, x, 0), nil

	case *ast.BinaryExpr:
		x, err := ci.evalExpr(e.X, iota)
		if err != nil {
			return nil, err
		}
		y, err := ci.evalExpr(e.Y, iota)
		if err != nil {
			return nil, err
		}
		return binaryOp(x, e.Op, y)

	case *ast.CallExpr:
		// Conversions keep the value: uint16(4), Size(MaxPath).
		if id, ok := e.Fun.(*ast.Ident); ok && len(e.Args) == 1 && ci.isConversion(id.Name) {
			return ci.evalExpr(e.Args[0], iota)
		}
	}
	return nil, fmt.Errorf("%s is not a constant expression", types.ExprString(expr))
}

func (ci *constIndex) isConversion(name string) bool {
	if t := layout.Universe(name); t != nil && t.Kind == layout.Basic {
		return true
	}
	return ci.isType != nil && ci.isType(name)
}

func binaryOp(x constant.Value, op token.Token, y constant.Value) (constant.Value, error) {
	switch op {
	case token.SHL, token.SHR:
		s, ok := constant.Uint64Val(constant.ToInt(y))
		if !ok {
			return nil, fmt.Errorf("invalid shift count %s", y)
		}
		return constant.Shift(x, op, uint(s)), nil
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return constant.MakeBool(constant.Compare(x, op, y)), nil
	case token.QUO, token.REM:
		if constant.Sign(y) == 0 {
			return nil, errors.New("division by zero")
		}
		if op == token.QUO && x.Kind() == constant.Int && y.Kind() == constant.Int {
			op = token.QUO_ASSIGN // integer division
		}
	}
	return constant.BinaryOp(x, op, y), nil
}
