package mcc

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) (*Context, error) {
	t.Helper()
	ctx := NewContext(nil)
	err := ParseFile(ctx, "t.c", []byte(src))
	return ctx, err
}

func mustParse(t *testing.T, src string) *Context {
	t.Helper()
	ctx, err := parseSource(t, src)
	require.NoError(t, err)
	return ctx
}

func globalType(t *testing.T, ctx *Context, name string) *Type {
	t.Helper()
	sym, ok := ctx.Symbols.Global.lookupLocal(name)
	require.True(t, ok, "symbol %q not declared", name)
	return sym.Type
}

func TestDeclarator_PlainVar(t *testing.T) {
	ctx := mustParse(t, "int a;")
	assert.Equal(t, "int", globalType(t, ctx, "a").String())
}

func TestDeclarator_SinglePointer(t *testing.T) {
	ctx := mustParse(t, "int *p;")
	assert.Equal(t, "pointer(int)", globalType(t, ctx, "p").String())
}

func TestDeclarator_DoublePointer(t *testing.T) {
	ctx := mustParse(t, "int **pp;")
	assert.Equal(t, "pointer(pointer(int))", globalType(t, ctx, "pp").String())
}

func TestDeclarator_PointerToFunctionReturningInt(t *testing.T) {
	ctx := mustParse(t, "int (*pfn)();")
	assert.Equal(t, "pointer(function(return=int, params=[]))", globalType(t, ctx, "pfn").String())
}

func TestDeclarator_PointerToPointerToFunction(t *testing.T) {
	ctx := mustParse(t, "int (**ppfn)();")
	assert.Equal(t, "pointer(pointer(function(return=int, params=[])))", globalType(t, ctx, "ppfn").String())
}

func TestDeclarator_NestedPointerFunctionReturningDoublePointer(t *testing.T) {
	ctx := mustParse(t, "int **(**p)();")
	assert.Equal(t,
		"pointer(pointer(function(return=pointer(pointer(int)), params=[])))",
		globalType(t, ctx, "p").String())
}

func TestDeclarator_FunctionReturningInt(t *testing.T) {
	ctx := mustParse(t, "int foo();")
	typ := globalType(t, ctx, "foo")
	assert.Equal(t, KindFunction, typ.Kind)
	assert.Equal(t, "int", typ.Target.String())
	assert.Empty(t, typ.Params)
}

func TestDeclarator_ParensWithoutFunctionSuffixIsAnError(t *testing.T) {
	_, err := parseSource(t, "int (a);")
	require.Error(t, err)
}

func TestRedeclaration_SameNameSameKindVarIsAnError(t *testing.T) {
	_, err := parseSource(t, "int a; int a;")
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrRedeclaration, cerr.Kind)
}

func TestRedeclaration_CompatiblePrototypesAreAccepted(t *testing.T) {
	_, err := parseSource(t, "int a(); int a();")
	assert.NoError(t, err)
}

func TestRedeclaration_VarThenFuncIsAnError(t *testing.T) {
	_, err := parseSource(t, "int a; int a();")
	require.Error(t, err)
}

func TestRedeclaration_FuncThenVarIsAnError(t *testing.T) {
	_, err := parseSource(t, "int a(); int a;")
	require.Error(t, err)
}

func TestRedeclaration_DefinitionAfterPrototypeIsAccepted(t *testing.T) {
	_, err := parseSource(t, "int a(); int a() { return 0; }")
	assert.NoError(t, err)
}

func TestTypeCheck_PointerPlusIntCompiles(t *testing.T) {
	_, err := parseSource(t, "int *p; void f() { p+1; }")
	assert.NoError(t, err)
}

func TestTypeCheck_PointerPlusPointerErrors(t *testing.T) {
	_, err := parseSource(t, "int *p; void f() { p+p; }")
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrType, cerr.Kind)
}

func TestTypeCheck_NullWidensAgainstPointerInComparison(t *testing.T) {
	_, err := parseSource(t, "int *p; void f() { 0==p; }")
	assert.NoError(t, err)
}

func TestTypeCheck_AddressOfYieldsPointer(t *testing.T) {
	src := "void f() { int a; &a; }"
	ctx := mustParse(t, src)
	fn, ok := ctx.Symbols.Global.lookupLocal("f")
	require.True(t, ok)
	stmt := fn.Body.Stmts[len(fn.Body.Stmts)-1].(*ExprStmt)
	assert.Equal(t, "pointer(int)", stmt.Expr.ExprType().String())
}

func TestTypeCheck_AssignToNonLValueIsAnError(t *testing.T) {
	_, err := parseSource(t, "void f() { 1=2; }")
	require.Error(t, err)
}

func TestSymbolTable_LocalShadowsGlobal(t *testing.T) {
	ctx := mustParse(t, "int a; void f() { int a; a=1; }")
	fn, ok := ctx.Symbols.Global.lookupLocal("f")
	require.True(t, ok)
	require.Len(t, fn.Body.Stmts, 1)
	assign := fn.Body.Stmts[0].(*ExprStmt).Expr.(*BinaryExpr)
	ident := assign.Left.(*IdentExpr)
	assert.Equal(t, VarLocal, ident.Sym.VarKind)
}

func TestSymbolTable_DuplicateLocalInSameScopeIsAnError(t *testing.T) {
	_, err := parseSource(t, "void f() { int a; int a; }")
	require.Error(t, err)
}

func TestParams_RegisterAndOverflowIndices(t *testing.T) {
	ctx := mustParse(t, "int f(int a, int b, int c, int d, int e, int g, int h) { return a; }")
	fn, ok := ctx.Symbols.Global.lookupLocal("f")
	require.True(t, ok)
	h, ok := fn.LocalScope.lookupLocal("h")
	require.True(t, ok)
	assert.Equal(t, 6, h.ParamIndex)
	assert.Equal(t, VarParam, h.VarKind)
}

func TestInterning_OneThousandIdentifiers(t *testing.T) {
	var src string
	for i := 0; i < 1000; i++ {
		src += "int v" + strconv.Itoa(i) + ";\n"
	}
	ctx := mustParse(t, src)
	assert.Equal(t, 1000, ctx.Interner.Len())
}
