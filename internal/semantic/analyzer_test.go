package semantic

import (
	"testing"

	"github.com/clean-lang/cleanc/internal/parser"
)

func analyze(t *testing.T, src string) int {
	t.Helper()
	mod, perrs := parser.Parse(src)
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	_, errs := Analyze(mod, src, "test.cl")
	return len(errs)
}

func TestAnalyzeHelloWorldHasNoErrors(t *testing.T) {
	src := "start():\n\tprintln(\"hello, world\")\n"
	if n := analyze(t, src); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}
}

func TestAnalyzeArithmeticWidensIntegerToNumber(t *testing.T) {
	src := "functions:\n\tcompute() Number:\n\t\tInteger a = 2\n\t\tNumber b = 3.5\n\t\treturn a + b\n"
	if n := analyze(t, src); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}
}

func TestAnalyzeTypeErrorOnBadReturn(t *testing.T) {
	src := "functions:\n\tcompute() String:\n\t\treturn 5\n"
	if n := analyze(t, src); n == 0 {
		t.Fatal("expected a type error for returning Integer from a String function")
	}
}

func TestAnalyzeUndefinedNameIsReported(t *testing.T) {
	src := "start():\n\tprintln(missingName)\n"
	if n := analyze(t, src); n == 0 {
		t.Fatal("expected a NameError for an undefined identifier")
	}
}

func TestAnalyzeInheritanceMethodOverrideResolves(t *testing.T) {
	src := "" +
		"class Animal:\n" +
		"\tspeak() String:\n" +
		"\t\treturn \"...\"\n" +
		"class Dog is Animal:\n" +
		"\tspeak() String:\n" +
		"\t\treturn \"Woof\"\n" +
		"start():\n" +
		"\tDog d = new Dog()\n" +
		"\tprintln(d.speak())\n"
	if n := analyze(t, src); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}
}

func TestAnalyzeUnknownParentIsInheritanceError(t *testing.T) {
	src := "class Dog is Ghost:\n\tbark() Void:\n\t\treturn\n"
	if n := analyze(t, src); n == 0 {
		t.Fatal("expected an InheritanceError for an unknown parent class")
	}
}

func TestAnalyzeListBehaviorRejectsNonList(t *testing.T) {
	src := "start():\n\tInteger n = 1\n\tn.type = \"pile\"\n"
	if n := analyze(t, src); n == 0 {
		t.Fatal("expected a TypeError assigning .type on a non-List")
	}
}

func TestAnalyzeOnErrorAllowsCompatibleFallback(t *testing.T) {
	src := "functions:\n\triskyOrDefault() Integer:\n\t\treturn 1 onError 0\n"
	if n := analyze(t, src); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}
}

func TestAnalyzeLaterReadIsLoweredToFutureRead(t *testing.T) {
	src := "" +
		"functions:\n" +
		"\tslow() Integer:\n" +
		"\t\treturn 42\n" +
		"start():\n" +
		"\tlater result = start slow()\n" +
		"\tprintln(result)\n"
	if n := analyze(t, src); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}
}

func TestAnalyzeApplyBlockCallDesugarsToRepeatedCalls(t *testing.T) {
	src := "start():\n\tprintln:\n\t\t\"first\"\n\t\t\"second\"\n"
	if n := analyze(t, src); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}
}

func TestAnalyzeDefaultParameterInjection(t *testing.T) {
	src := "" +
		"functions:\n" +
		"\tgreet(name: String = \"world\") Void:\n" +
		"\t\tprintln(name)\n" +
		"start():\n" +
		"\tgreet()\n"
	mod, perrs := parser.Parse(src)
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	if _, errs := Analyze(mod, src, "test.cl"); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestAnalyzeStringInterpolationLowersToConcatenation(t *testing.T) {
	src := "" +
		"functions:\n" +
		"\tdescribe(n: Integer) Void:\n" +
		"\t\tprintln(\"count={n}\")\n"
	if n := analyze(t, src); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}
}

func TestAnalyzeArityErrorOnMissingRequiredArgument(t *testing.T) {
	src := "" +
		"functions:\n" +
		"\tneedsTwo(a: Integer, b: Integer) Void:\n" +
		"\t\treturn\n" +
		"start():\n" +
		"\tneedsTwo(1)\n"
	if n := analyze(t, src); n == 0 {
		t.Fatal("expected an ArityError for a missing required argument")
	}
}
