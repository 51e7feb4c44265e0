package typechecker

import (
	"testing"

	"github.com/aetherscript/aetherscript-lsp/internal/parser"
)

func checkSource(t *testing.T, source string) []TypeError {
	t.Helper()
	program, parseErrors := parser.Parse(source)
	if len(parseErrors) > 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrors)
	}
	return Check(program)
}

func TestChecker_SimpleVariableDeclaration(t *testing.T) {
	errs := checkSource(t, `var x: Int = 42;`)
	if len(errs) != 0 {
		t.Fatalf("expected 0 errors, got %v", errs)
	}
}

func TestChecker_VariableTypeMismatch(t *testing.T) {
	errs := checkSource(t, `var x: Int = "hi";`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 type error, got %v", errs)
	}
}

func TestChecker_FunctionCallRoundTrip(t *testing.T) {
	errs := checkSource(t, `function f(a: Int) -> Int { return a; } f(1);`)
	if len(errs) != 0 {
		t.Fatalf("expected 0 errors, got %v", errs)
	}
}

func TestChecker_MissingReturnValue(t *testing.T) {
	errs := checkSource(t, `function f() -> Int { return; }`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 type error, got %v", errs)
	}
}

func TestChecker_MixedArrayElementTypes(t *testing.T) {
	errs := checkSource(t, `var a = [1, 2, "x"];`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 type error, got %v", errs)
	}
}

func TestChecker_NonBooleanIfCondition(t *testing.T) {
	errs := checkSource(t, `if (1) { }`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 type error, got %v", errs)
	}
}

func TestChecker_ComparisonAlwaysBoolean(t *testing.T) {
	errs := checkSource(t, `if (1 == "x") { }`)
	if len(errs) != 0 {
		t.Fatalf("expected 0 errors (comparisons are not operand-checked), got %v", errs)
	}
}

func TestChecker_StringConcatOneSided(t *testing.T) {
	errs := checkSource(t, `var x: String = "a" + 1;`)
	if len(errs) != 0 {
		t.Fatalf("expected 0 errors (one-sided string concat), got %v", errs)
	}
}

func TestChecker_IntFloatPromotion(t *testing.T) {
	errs := checkSource(t, `var x: Float = 1 + 2.0;`)
	if len(errs) != 0 {
		t.Fatalf("expected 0 errors (int/float promotes to float), got %v", errs)
	}
}

func TestChecker_UndefinedIdentifierCascadesThroughUnknown(t *testing.T) {
	// Unknown is treated as incompatible with everything, so a single
	// undefined identifier can produce more than one reported error —
	// a deliberate, documented tradeoff rather than a bug.
	errs := checkSource(t, `var x: Int = y + 1;`)
	if len(errs) < 1 {
		t.Fatalf("expected at least 1 error, got %v", errs)
	}
}

func TestChecker_UndefinedIdentifierAlone(t *testing.T) {
	// The undefined identifier reports once, then its Unknown type fails
	// the annotation check too: two errors total.
	errs := checkSource(t, `var x: Int = y;`)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
}

func TestChecker_UnknownAnnotationSuppressesMismatch(t *testing.T) {
	errs := checkSource(t, `var x: Wibble = 1;`)
	if len(errs) != 1 {
		t.Fatalf("expected only the unknown-type error, got %v", errs)
	}
}

func TestChecker_BareDeclarationInfersVoid(t *testing.T) {
	errs := checkSource(t, `var x; var y: Void = x;`)
	if len(errs) != 0 {
		t.Fatalf("expected 0 errors (uninitialized variables default to Void), got %v", errs)
	}
}

func TestChecker_ArrayIndexing(t *testing.T) {
	errs := checkSource(t, `var a = [1, 2, 3]; var x: Int = a[0];`)
	if len(errs) != 0 {
		t.Fatalf("expected 0 errors, got %v", errs)
	}
}

func TestChecker_ScopeRestoredAfterFunction(t *testing.T) {
	program, _ := parser.Parse(`function f(a: Int) -> Int { return a; }`)
	c := NewChecker()
	root := c.table.Current()
	for _, stmt := range program.Statements {
		c.checkStmt(stmt)
	}
	if c.table.Current() != root {
		t.Fatal("expected current scope to be restored to root after checking a function declaration")
	}
}

func TestChecker_RedeclarationInSameScopeIsAnError(t *testing.T) {
	errs := checkSource(t, `var x: Int = 1; var x: Int = 2;`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %v", errs)
	}
}

func TestChecker_PrintBuiltinAcceptsAnyArgument(t *testing.T) {
	errs := checkSource(t, `print(1); print("hi"); print(true);`)
	if len(errs) != 0 {
		t.Fatalf("expected 0 errors, got %v", errs)
	}
}
