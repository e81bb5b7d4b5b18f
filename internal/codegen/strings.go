package codegen

import (
	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/runtime"
)

// internAllStrings walks the whole module collecting every distinct
// StringLiteral value (including InterpolatedString text chunks, which
// survive into literal StringLiteral nodes built during lowering) and lays
// them out back-to-back in the static pool starting at
// runtime.StaticPoolBase (spec.md §4.4.5 "identical literals share one
// pool entry"). It also interns "true"/"false" for BoolToStringBody.
func (c *Compiler) internAllStrings() {
	for _, cd := range c.mod.Constants {
		c.walkExpr(cd.Value)
	}
	for _, cls := range c.mod.Classes {
		for _, f := range cls.Fields {
			if f.Default != nil {
				c.walkExpr(f.Default)
			}
		}
		if cls.Constructor != nil {
			c.walkFunc(cls.Constructor)
		}
		for _, m := range cls.Methods {
			c.walkFunc(m)
		}
	}
	for _, fn := range c.mod.Functions {
		c.walkFunc(fn)
	}
	if c.mod.Start != nil {
		c.walkFunc(c.mod.Start)
	}

	c.truePtr = c.intern("true")
	c.falsePtr = c.intern("false")
}

func (c *Compiler) walkFunc(fn *ast.FunctionDecl) {
	for _, p := range fn.Params {
		if p.Default != nil {
			c.walkExpr(p.Default)
		}
	}
	if fn.Body != nil {
		c.walkBlock(fn.Body)
	}
}

func (c *Compiler) walkBlock(b *ast.BlockStatement) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		c.walkStmt(s)
	}
}

func (c *Compiler) walkStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		c.walkExpr(n.Expr)
	case *ast.VarDecl:
		c.walkExpr(n.Value)
	case *ast.AssignStatement:
		c.walkExpr(n.Target)
		c.walkExpr(n.Value)
	case *ast.ListBehaviorStatement:
		c.walkExpr(n.List)
	case *ast.ReturnStatement:
		if n.Value != nil {
			c.walkExpr(n.Value)
		}
	case *ast.IfStatement:
		c.walkExpr(n.Condition)
		c.walkBlock(n.Consequence)
		c.walkBlock(n.Alternative)
	case *ast.WhileStatement:
		c.walkExpr(n.Condition)
		c.walkBlock(n.Body)
	case *ast.ForStatement:
		c.walkExpr(n.Iterable)
		c.walkBlock(n.Body)
	case *ast.ErrorStatement:
		c.walkExpr(n.Message)
	case *ast.BackgroundStatement:
		c.walkExpr(n.Call)
	case *ast.FunctionDecl:
		c.walkFunc(n)
	}
}

func (c *Compiler) walkExpr(e ast.Expression) {
	switch n := e.(type) {
	case nil:
	case *ast.StringLiteral:
		c.intern(n.Value)
	case *ast.InterpolatedString:
		for _, p := range n.Parts {
			if p.Expr != nil {
				c.walkExpr(p.Expr)
			} else if p.Text != "" {
				c.intern(p.Text)
			}
		}
	case *ast.PrefixExpression:
		c.walkExpr(n.Right)
	case *ast.BinaryExpression:
		c.walkExpr(n.Left)
		c.walkExpr(n.Right)
	case *ast.OnErrorExpression:
		c.walkExpr(n.Try)
		c.walkExpr(n.Fallback)
	case *ast.CallExpression:
		c.walkExpr(n.Function)
		for _, a := range n.Arguments {
			c.walkExpr(a)
		}
		for _, a := range n.ResolvedDefaults {
			c.walkExpr(a)
		}
	case *ast.MemberExpression:
		c.walkExpr(n.Object)
	case *ast.IndexExpression:
		c.walkExpr(n.Left)
		c.walkExpr(n.Index)
	case *ast.NewExpression:
		for _, a := range n.Arguments {
			c.walkExpr(a)
		}
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			c.walkExpr(el)
		}
	case *ast.StartExpression:
		c.walkExpr(n.Call)
	case *ast.FutureReadExpression:
		c.walkExpr(n.Handle)
	}
}

// intern returns s's pool address, allocating a new `{u32 length, bytes}`
// entry on first sight (spec.md §4.4.5).
func (c *Compiler) intern(s string) uint32 {
	if addr, ok := c.stringPool[s]; ok {
		return addr
	}
	addr := runtime.StaticPoolBase + uint32(len(c.poolBytes))

	n := uint32(len(s))
	c.poolBytes = append(c.poolBytes,
		byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	c.poolBytes = append(c.poolBytes, s...)
	// pad to a 4-byte boundary so subsequent i32 loads elsewhere in the
	// pool stay aligned.
	for len(c.poolBytes)%4 != 0 {
		c.poolBytes = append(c.poolBytes, 0)
	}
	c.stringPool[s] = addr
	return addr
}
