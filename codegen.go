package mcc

import (
	"fmt"
	"strconv"
	"strings"
)

// argReg32 is the System-V-flavored register assignment for the first
// six 32-bit integer arguments, also used by gen.c's s_arg_reg32.
var argReg32 = []string{"edi", "esi", "edx", "ecx", "r8d", "r9d"}

// CodeGen walks a type-checked, symbol-resolved AST and emits Intel-
// syntax x86-64 assembly text, stack-machine style in eax/rax, the way
// original_source/gen.c's compile_node/compile_symbol do it — reusing
// gen.go's asmWriter for the buffer and indentation instead of writing
// directly to an *os.File.
type CodeGen struct {
	ctx *Context
	out *asmWriter
}

// Generate emits one translation unit's worth of assembly: every
// global symbol in declaration order: every variable (extern ones
// included) as a labeled ".zero 8" slot, functions with a body fully
// compiled, and functions without a body (prototypes) silently skipped.
func Generate(ctx *Context) (string, error) {
	g := &CodeGen{ctx: ctx, out: newAsmWriter("    ")}
	g.out.enter()
	g.out.line(".intel_syntax noprefix")
	for _, sym := range ctx.Symbols.Global.Symbols() {
		switch sym.Kind {
		case SymVar:
			g.out.line("%s:", sym.Name)
			g.out.instr(".zero 8")
		case SymFunc:
			if !sym.HasBody {
				continue
			}
			if err := g.compileFunction(sym); err != nil {
				return "", err
			}
		}
	}
	return g.out.String(), nil
}

func (g *CodeGen) compileFunction(sym *Symbol) error {
	if sym.Storage != StorageStatic {
		g.out.line(".global %s", sym.Name)
	}
	if sym.Storage != StorageExtern {
		g.out.line("%s:", sym.Name)
	}

	g.out.instr("push rbp")
	g.out.instr("mov rbp, rsp")
	// N = locals + the fixed six-register spill area + a small slack
	// term, following the shape of gen.c's "sym->offset + buf_size + 8"
	// inconsistent frame-size formulas in the original source).
	frameSize := sym.FrameSize + len(argReg32)*4 + 8
	g.out.instr("sub rsp, %d", frameSize)
	for i, reg := range argReg32 {
		g.out.instr("mov [rbp-%d], %s", (i+1)*4, reg)
	}

	if err := g.compileStmt(sym.Body); err != nil {
		return err
	}

	g.out.instr("mov rsp, rbp")
	g.out.instr("pop rbp")
	g.out.instr("ret")
	g.out.line("; -- %s", sym.Name)
	return nil
}

func (g *CodeGen) posComment(pos Pos, kind string) {
	if kind == "" {
		g.out.line("; %s", pos)
		return
	}
	g.out.line("; %s %s", pos, kind)
}

func (g *CodeGen) compileStmt(s Stmt) error {
	switch n := s.(type) {
	case nil:
		return nil

	case *CompoundStmt:
		g.posComment(n.Pos, "")
		for _, st := range n.Stmts {
			if err := g.compileStmt(st); err != nil {
				return err
			}
		}
		return nil

	case *IfStmt:
		g.posComment(n.Pos, "IF")
		if err := g.compileExpr(n.Cond); err != nil {
			return err
		}
		g.out.instr("cmp rax, 0")
		if n.Else == nil {
			lend := g.ctx.NewLabel()
			g.out.instr("je .L%d", lend)
			if err := g.compileStmt(n.Then); err != nil {
				return err
			}
			g.out.line(".L%d:", lend)
			return nil
		}
		lelse := g.ctx.NewLabel()
		g.out.instr("je .L%d", lelse)
		if err := g.compileStmt(n.Then); err != nil {
			return err
		}
		lend := g.ctx.NewLabel()
		g.out.instr("jmp .L%d", lend)
		g.out.line(".L%d:", lelse)
		if err := g.compileStmt(n.Else); err != nil {
			return err
		}
		g.out.line(".L%d:", lend)
		return nil

	case *WhileStmt:
		g.posComment(n.Pos, "WHILE")
		ltop := g.ctx.NewLabel()
		g.out.line(".L%d:", ltop)
		if err := g.compileExpr(n.Cond); err != nil {
			return err
		}
		g.out.instr("cmp rax, 0")
		lend := g.ctx.NewLabel()
		g.out.instr("je .L%d", lend)
		if err := g.compileStmt(n.Body); err != nil {
			return err
		}
		g.out.instr("jmp .L%d", ltop)
		g.out.line(".L%d:", lend)
		return nil

	case *ForStmt:
		g.posComment(n.Pos, "FOR")
		if n.Init != nil {
			if err := g.compileExpr(n.Init); err != nil {
				return err
			}
		}
		ltop := g.ctx.NewLabel()
		g.out.line(".L%d:", ltop)
		var lend int
		haveEnd := n.Cond != nil
		if n.Cond != nil {
			if err := g.compileExpr(n.Cond); err != nil {
				return err
			}
			g.out.instr("cmp rax, 0")
			lend = g.ctx.NewLabel()
			g.out.instr("je .L%d", lend)
		}
		if err := g.compileStmt(n.Body); err != nil {
			return err
		}
		if n.Post != nil {
			if err := g.compileExpr(n.Post); err != nil {
				return err
			}
		}
		g.out.instr("jmp .L%d", ltop)
		if haveEnd {
			g.out.line(".L%d:", lend)
		}
		return nil

	case *ContinueStmt:
		g.posComment(n.Pos, "CONTINUE")
		return newError(n.Pos, ErrUnsupported, "'continue' code generation is not implemented")

	case *BreakStmt:
		g.posComment(n.Pos, "BREAK")
		return newError(n.Pos, ErrUnsupported, "'break' code generation is not implemented")

	case *ReturnStmt:
		g.posComment(n.Pos, "RETURN")
		if n.Expr != nil {
			if err := g.compileExpr(n.Expr); err != nil {
				return err
			}
		}
		g.out.instr("mov rsp, rbp")
		g.out.instr("pop rbp")
		g.out.instr("ret")
		return nil

	case *ExprStmt:
		g.out.line("; %s EXPR %s", n.Pos, exprString(n.Expr))
		if n.Expr != nil {
			return g.compileExpr(n.Expr)
		}
		return nil

	default:
		return newError(s.NodePos(), ErrUnsupported, "statement code generation is not implemented")
	}
}

// compileExpr evaluates e, leaving its value in eax (32-bit results)
// or rax (operands of the 64-bit arithmetic/comparison sequences —
// following gen.c, this implementation is no stricter about width than
// the source it learned the sequences from).
func (g *CodeGen) compileExpr(e Expr) error {
	switch n := e.(type) {
	case *IntLitExpr:
		g.out.instr("mov eax, %d", n.Value)
		return nil

	case *IdentExpr:
		g.out.instr("mov eax, %s ; %s", varAddr(n.Sym), n.Sym.Name)
		return nil

	case *UnaryExpr:
		switch n.Op {
		case OpAddr:
			return newError(n.Pos, ErrUnsupported, "'&' code generation is not implemented")
		case OpIndir:
			return newError(n.Pos, ErrUnsupported, "'*' code generation is not implemented")
		case OpMinus:
			if err := g.compileExpr(n.Operand); err != nil {
				return err
			}
			g.out.instr("neg rax")
			return nil
		case OpNot:
			if err := g.compileExpr(n.Operand); err != nil {
				return err
			}
			g.out.instr("cmp rax, 0")
			g.out.instr("sete al")
			g.out.instr("movzb rax, al")
			return nil
		}
		return newError(n.Pos, ErrUnsupported, "unary code generation is not implemented")

	case *BinaryExpr:
		return g.compileBinary(n)

	case *CallExpr:
		return g.compileCall(n)

	default:
		return newError(e.NodePos(), ErrUnsupported, "expression code generation is not implemented")
	}
}

func (g *CodeGen) compileBinary(n *BinaryExpr) error {
	if n.Op == OpAssign {
		ident, ok := n.Left.(*IdentExpr)
		if !ok {
			return newError(n.Pos, ErrUnsupported, "assignment target code generation is not implemented")
		}
		if err := g.compileExpr(n.Right); err != nil {
			return err
		}
		g.out.instr("mov %s, eax ; %s", varAddr(ident.Sym), ident.Sym.Name)
		return nil
	}
	if n.Op == OpLand || n.Op == OpLor {
		return newError(n.Pos, ErrUnsupported, "short-circuit '%s' code generation is not implemented", n.Op)
	}

	if err := g.compileExpr(n.Right); err != nil {
		return err
	}
	g.out.instr("push rax")
	if err := g.compileExpr(n.Left); err != nil {
		return err
	}
	g.out.instr("pop rdi")

	switch n.Op {
	case OpAdd:
		g.out.instr("add rax, rdi")
	case OpSub:
		g.out.instr("sub rax, rdi")
	case OpMul:
		g.out.instr("imul rax, rdi")
	case OpDiv:
		g.out.instr("cqo")
		g.out.instr("idiv rdi")
	case OpEq:
		g.compileSetcc("sete")
	case OpNeq:
		g.compileSetcc("setne")
	case OpLt:
		g.compileSetcc("setl")
	case OpGt:
		g.compileSetcc("setg")
	case OpLe:
		g.compileSetcc("setle")
	case OpGe:
		g.compileSetcc("setge")
	default:
		return newError(n.Pos, ErrUnsupported, "'%s' code generation is not implemented", n.Op)
	}
	return nil
}

func (g *CodeGen) compileSetcc(setcc string) {
	g.out.instr("cmp rax, rdi")
	g.out.instr("%s al", setcc)
	g.out.instr("movzb rax, al")
}

// compileCall evaluates arguments right-to-left, so that once
// everything is in place the leftmost argument is the last one moved —
// each earlier mov/push is safe from being clobbered by a later
// argument's own evaluation — and only supports a direct call by
// identifier.
func (g *CodeGen) compileCall(n *CallExpr) error {
	callee, ok := n.Callee.(*IdentExpr)
	if !ok {
		return newError(n.Pos, ErrUnsupported, "indirect call code generation is not implemented")
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		if err := g.compileExpr(n.Args[i]); err != nil {
			return err
		}
		if i < len(argReg32) {
			g.out.instr("mov %s, eax", argReg32[i])
		} else {
			g.out.instr("push eax")
		}
	}
	g.out.instr("call %s", callee.Sym.Name)
	return nil
}

// varAddr renders the operand text for a variable reference, per the
// addressing table.
func varAddr(sym *Symbol) string {
	switch sym.VarKind {
	case VarGlobal:
		return sym.Name
	case VarLocal:
		return fmt.Sprintf("[rbp-%d]", sym.Offset+8)
	case VarParam:
		if sym.ParamIndex < len(argReg32) {
			return argReg32[sym.ParamIndex]
		}
		return fmt.Sprintf("[rbp+%d]", 16+8*(sym.ParamIndex-len(argReg32)))
	default:
		return "?"
	}
}

// exprString renders an expression the way the per-statement trace
// comment wants it (original_source/gen.c's NK_EXPR case, which calls
// fprint_node to print the expression after the "; file(line) EXPR "
// prefix).
func exprString(e Expr) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *IdentExpr:
		return n.Sym.Name
	case *IntLitExpr:
		return strconv.FormatInt(int64(n.Value), 10)
	case *BinaryExpr:
		return "(" + exprString(n.Left) + " " + n.Op.String() + " " + exprString(n.Right) + ")"
	case *UnaryExpr:
		return n.Op.String() + exprString(n.Operand)
	case *CallExpr:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = exprString(a)
		}
		return exprString(n.Callee) + "(" + strings.Join(parts, ", ") + ")"
	default:
		return "?"
	}
}
