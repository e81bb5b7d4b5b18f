package parser

import (
	"testing"

	"github.com/clean-lang/cleanc/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return mod
}

func TestParseHelloWorld(t *testing.T) {
	mod := parseOK(t, "start()\n\tprintln(\"Hello, World!\")\n")
	if mod.Start == nil {
		t.Fatal("expected a start() function")
	}
	if len(mod.Start.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement in start(), got %d", len(mod.Start.Body.Statements))
	}
	es, ok := mod.Start.Body.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", mod.Start.Body.Statements[0])
	}
	call, ok := es.Expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %T", es.Expr)
	}
	if id, ok := call.Function.(*ast.Identifier); !ok || id.Value != "println" {
		t.Fatalf("expected call to println, got %v", call.Function)
	}
}

func TestParseVarDeclAndArithmeticPrecedence(t *testing.T) {
	mod := parseOK(t, "start()\n\tInteger x = 1 + 2 * 3\n")
	decl, ok := mod.Start.Body.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", mod.Start.Body.Statements[0])
	}
	if decl.Name != "x" || decl.Type.Name != "Integer" {
		t.Fatalf("unexpected decl: %+v", decl)
	}
	bin, ok := decl.Value.(*ast.BinaryExpression)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected top-level '+' binary expression, got %#v", decl.Value)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpression)
	if !ok || rhs.Operator != "*" {
		t.Fatalf("expected '*' to bind tighter than '+', got %#v", bin.Right)
	}
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	mod := parseOK(t, "start()\n\tNumber x = 2 ^ 3 ^ 2\n")
	decl := mod.Start.Body.Statements[0].(*ast.VarDecl)
	top, ok := decl.Value.(*ast.BinaryExpression)
	if !ok || top.Operator != "^" {
		t.Fatalf("expected top-level '^', got %#v", decl.Value)
	}
	if _, ok := top.Right.(*ast.BinaryExpression); !ok {
		t.Fatalf("expected right-associative grouping, got left-grouped: %s", top.String())
	}
	if _, ok := top.Left.(*ast.BinaryExpression); ok {
		t.Fatalf("expected left operand to be a plain literal under right-associativity, got %s", top.Left.String())
	}
}

func TestParseIfElseChain(t *testing.T) {
	src := "start()\n" +
		"\tif x > 0:\n" +
		"\t\tprintln(\"pos\")\n" +
		"\telse if x < 0:\n" +
		"\t\tprintln(\"neg\")\n" +
		"\telse:\n" +
		"\t\tprintln(\"zero\")\n"
	mod := parseOK(t, src)
	ifs, ok := mod.Start.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", mod.Start.Body.Statements[0])
	}
	if ifs.Alternative == nil || len(ifs.Alternative.Statements) != 1 {
		t.Fatalf("expected else-if nested as single statement, got %+v", ifs.Alternative)
	}
	elseif, ok := ifs.Alternative.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected nested IfStatement for else-if, got %T", ifs.Alternative.Statements[0])
	}
	if elseif.Alternative == nil || len(elseif.Alternative.Statements) != 1 {
		t.Fatal("expected final else block")
	}
}

func TestParseClassWithConstructorAndMethod(t *testing.T) {
	src := "class Circle is Shape:\n" +
		"\tradius: Number\n" +
		"\tconstructor(r: Number):\n" +
		"\t\tradius = r\n" +
		"\tarea() Number:\n" +
		"\t\treturn radius * radius\n" +
		"\n" +
		"start()\n" +
		"\tprintln(\"ok\")\n"
	mod := parseOK(t, src)
	if len(mod.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(mod.Classes))
	}
	cls := mod.Classes[0]
	if cls.Name != "Circle" || cls.Parent != "Shape" {
		t.Fatalf("unexpected class header: %+v", cls)
	}
	if len(cls.Fields) != 1 || cls.Fields[0].Name != "radius" {
		t.Fatalf("unexpected fields: %+v", cls.Fields)
	}
	if cls.Constructor == nil || len(cls.Constructor.Params) != 1 {
		t.Fatal("expected a one-parameter constructor")
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Name != "area" {
		t.Fatalf("unexpected methods: %+v", cls.Methods)
	}
}

func TestParseApplyBlockCallSugar(t *testing.T) {
	src := "start()\n" +
		"\tprintln:\n" +
		"\t\t\"a\"\n" +
		"\t\t\"b\"\n" +
		"\t\t\"c\"\n"
	mod := parseOK(t, src)
	ab, ok := mod.Start.Body.Statements[0].(*ast.ApplyBlockStatement)
	if !ok {
		t.Fatalf("expected ApplyBlockStatement, got %T", mod.Start.Body.Statements[0])
	}
	if ab.Target != "println" || ab.Kind != ast.ApplyBlockCall {
		t.Fatalf("unexpected apply-block header: %+v", ab)
	}
	if len(ab.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ab.Entries))
	}
}

func TestParseApplyBlockTypeDeclSugar(t *testing.T) {
	src := "start()\n" +
		"\tInteger:\n" +
		"\t\tx = 1\n" +
		"\t\ty = 2\n"
	mod := parseOK(t, src)
	ab, ok := mod.Start.Body.Statements[0].(*ast.ApplyBlockStatement)
	if !ok {
		t.Fatalf("expected ApplyBlockStatement, got %T", mod.Start.Body.Statements[0])
	}
	if ab.Kind != ast.ApplyBlockTypeDecl || len(ab.Entries) != 2 || ab.Entries[0].Name != "x" {
		t.Fatalf("unexpected apply-block: %+v", ab)
	}
}

func TestParseOnErrorBindsLooserThanArithmetic(t *testing.T) {
	mod := parseOK(t, "start()\n\tNumber x = 1 / 0 onError 0\n")
	decl := mod.Start.Body.Statements[0].(*ast.VarDecl)
	oe, ok := decl.Value.(*ast.OnErrorExpression)
	if !ok {
		t.Fatalf("expected OnErrorExpression at top level, got %#v", decl.Value)
	}
	if _, ok := oe.Try.(*ast.BinaryExpression); !ok {
		t.Fatalf("expected the try side to be the full arithmetic expression, got %#v", oe.Try)
	}
}

func TestParseStringInterpolation(t *testing.T) {
	mod := parseOK(t, "start()\n\tprintln(\"hi {name}!\")\n")
	es := mod.Start.Body.Statements[0].(*ast.ExpressionStatement)
	call := es.Expr.(*ast.CallExpression)
	interp, ok := call.Arguments[0].(*ast.InterpolatedString)
	if !ok {
		t.Fatalf("expected InterpolatedString argument, got %#v", call.Arguments[0])
	}
	if len(interp.Parts) != 3 {
		t.Fatalf("expected 3 chunks (text, expr, text), got %d: %+v", len(interp.Parts), interp.Parts)
	}
	if interp.Parts[1].Expr == nil {
		t.Fatal("expected the middle chunk to be an expression")
	}
}

func TestParseErrorRecoveryCollectsMultipleDiagnostics(t *testing.T) {
	src := "start()\n" +
		"\tInteger = \n" +
		"\tprintln(\"still parses\")\n"
	_, errs := Parse(src)
	if len(errs) == 0 {
		t.Fatal("expected at least one diagnostic from the malformed declaration")
	}
}

func TestParseListBehaviorStatement(t *testing.T) {
	mod := parseOK(t, "start()\n\tqueue.type = \"line\"\n")
	lb, ok := mod.Start.Body.Statements[0].(*ast.ListBehaviorStatement)
	if !ok {
		t.Fatalf("expected ListBehaviorStatement, got %T", mod.Start.Body.Statements[0])
	}
	if lb.Behavior != "line" {
		t.Fatalf("unexpected behavior: %q", lb.Behavior)
	}
}
