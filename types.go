package mcc

// TypeKind is the variant tag of a Type.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindVoid
	KindInt
	KindNull
	KindPointer
	KindFunction
)

func (k TypeKind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindNull:
		return "null"
	case KindPointer:
		return "pointer"
	case KindFunction:
		return "function"
	default:
		return "?"
	}
}

// Param is one entry of a function type's parameter list. Name is
// optional: abstract declarators in a prototype carry no name.
type Param struct {
	Name string
	Type *Type
}

// Type is one node of the persistent type DAG; constructors never
// mutate an existing node. Target holds the pointer target for
// KindPointer and the return type for KindFunction; Params is
// populated only for KindFunction.
type Type struct {
	Kind   TypeKind
	Target *Type
	Params []Param
}

// Two integer-like singletons may be statically allocated, since they
// carry no substructure.
var (
	IntType  = &Type{Kind: KindInt}
	NullType = &Type{Kind: KindNull}
	VoidType = &Type{Kind: KindVoid}
)

// NewPointer constructs pointer(target).
func NewPointer(target *Type) *Type {
	return &Type{Kind: KindPointer, Target: target}
}

// NewFunction constructs function(return: ret, params).
func NewFunction(ret *Type, params []Param) *Type {
	return &Type{Kind: KindFunction, Target: ret, Params: params}
}

func (t *Type) isIntegerLike() bool {
	return t.Kind == KindInt || t.Kind == KindNull
}

func (t *Type) isPointer() bool {
	return t.Kind == KindPointer
}

func (t *Type) isFunction() bool {
	return t.Kind == KindFunction
}

func (t *Type) isPointerLike() bool {
	return t.isPointer() || t.isFunction()
}

// Equal is structural type equality: int and null compare equal,
// pointer targets recurse, and function parameter lists compare
// pairwise by type only (names are ignored).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.isIntegerLike() && b.isIntegerLike() {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindVoid, KindUnknown:
		return true
	case KindPointer:
		return Equal(a.Target, b.Target)
	case KindFunction:
		if !Equal(a.Target, b.Target) {
			return false
		}
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i].Type, b.Params[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// CanMulDiv reports whether L and R may be operands of '*' or '/'.
func CanMulDiv(l, r *Type) bool {
	return l.isIntegerLike() && r.isIntegerLike()
}

// CanAdd reports whether L and R may be operands of '+'.
func CanAdd(l, r *Type) bool {
	if l.isIntegerLike() && r.isIntegerLike() {
		return true
	}
	if l.isPointerLike() && r.isIntegerLike() {
		return true
	}
	if r.isPointerLike() && l.isIntegerLike() {
		return true
	}
	return false
}

// CanSub reports whether L and R may be operands of '-'. Pointer minus
// pointer is deliberately not supported.
func CanSub(l, r *Type) bool {
	if l.isIntegerLike() && r.isIntegerLike() {
		return true
	}
	if l.isPointerLike() && r.isIntegerLike() {
		return true
	}
	return false
}

// CanRel reports whether L and R may be compared with a relational or
// equality operator.
func CanRel(l, r *Type) bool {
	if l.Kind == KindVoid || r.Kind == KindVoid {
		return false
	}
	if Equal(l, r) {
		return true
	}
	if l.isPointerLike() && r.isIntegerLike() {
		return true
	}
	if r.isPointerLike() && l.isIntegerLike() {
		return true
	}
	return false
}

// WarnRel reports whether a relational/equality comparison between L
// and R, while accepted, should produce a warning: two incompatible
// pointer types, or pointer vs function pointer.
func WarnRel(l, r *Type) bool {
	if l.isPointerLike() && r.isPointerLike() {
		return !Equal(l, r)
	}
	return false
}

// CanAssign reports whether an r-value of type R may be assigned to an
// l-value of type L.
func CanAssign(l, r *Type) bool {
	if r.Kind == KindNull && l.isPointerLike() {
		return true
	}
	if l.isIntegerLike() && r.isIntegerLike() {
		return true
	}
	if l.isPointer() && r.isPointer() {
		return CanAssign(l.Target, r.Target)
	}
	if l.isPointer() && r.isFunction() {
		return Equal(l.Target, r)
	}
	if l.isFunction() && r.isFunction() {
		return Equal(l, r)
	}
	return false
}

// WarnAssign reports whether an assignment, while accepted as a
// fallback, should produce a warning: int<->pointer or mismatched
// pointer targets.
func WarnAssign(l, r *Type) bool {
	if l.isIntegerLike() && r.isPointerLike() {
		return true
	}
	if l.isPointerLike() && r.isIntegerLike() && r.Kind != KindNull {
		return true
	}
	if l.isPointer() && r.isPointer() && !Equal(l, r) {
		return true
	}
	return false
}

// CanLogical reports whether L and R may be operands of '&&'/'||'.
func CanLogical(l, r *Type) bool {
	return l.Kind != KindVoid && r.Kind != KindVoid
}

// Size returns the in-memory size, in bytes, of an LP64 value of type
// t. void and unknown have no size; pos anchors the diagnostic when
// that is attempted.
func Size(t *Type, pos Pos) (int, error) {
	switch t.Kind {
	case KindInt:
		return 4, nil
	case KindNull, KindPointer, KindFunction:
		return 8, nil
	default:
		return 0, newError(pos, ErrType, "type '%s' has no size", t.Kind)
	}
}

// String renders a Type in the canonical form used by diagnostics and
// tests, e.g. "pointer(pointer(int))" or
// "function(return=int, params=[int, int])".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPointer:
		return "pointer(" + t.Target.String() + ")"
	case KindFunction:
		s := "function(return=" + t.Target.String() + ", params=["
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.Type.String()
		}
		return s + "])"
	default:
		return t.Kind.String()
	}
}
