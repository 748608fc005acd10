package irtext

import (
	"strconv"

	"github.com/pkg/errors"

	"staticore/internal/ir"
	"staticore/internal/lattice"
)

// Lower converts a parsed Program into the *ir.Class values the analyses
// consume, resolving every name (type, field, method, jump label) against
// the declarations collected along the way. It runs in three passes:
// classes first (so forward references between classes resolve), then
// members (so every class' fields/methods exist before any method body is
// lowered), then bodies.
func Lower(prog *Program) ([]*ir.Class, error) {
	classes := make(map[string]*ir.Class, len(prog.Classes))
	for _, cd := range prog.Classes {
		if _, dup := classes[cd.Name]; dup {
			return nil, errors.Errorf("duplicate class %q", cd.Name)
		}
		classes[cd.Name] = &ir.Class{
			Name:        cd.Name,
			IsInterface: cd.IsInterface,
			IsAbstract:  cd.Abstract,
		}
	}

	for _, cd := range prog.Classes {
		c := classes[cd.Name]
		if cd.Super != "" {
			super, ok := classes[cd.Super]
			if !ok {
				return nil, errors.Errorf("class %q extends undeclared class %q", cd.Name, cd.Super)
			}
			c.Super = super
		}
		for _, ifaceName := range cd.Interfaces {
			iface, ok := classes[ifaceName]
			if !ok {
				return nil, errors.Errorf("class %q implements undeclared interface %q", cd.Name, ifaceName)
			}
			c.Interfaces = append(c.Interfaces, iface)
		}
	}

	for _, cd := range prog.Classes {
		seen := make(map[*ir.Class]bool)
		for cur := classes[cd.Name]; cur != nil; cur = cur.Super {
			if seen[cur] {
				return nil, errors.Errorf("class %q has a cyclic superclass chain", cd.Name)
			}
			seen[cur] = true
		}
	}

	for _, cd := range prog.Classes {
		c := classes[cd.Name]
		for _, mem := range cd.Members {
			switch {
			case mem.Field != nil:
				fd := mem.Field
				t, err := resolveType(fd.Type, classes)
				if err != nil {
					return nil, errors.Wrapf(err, "field %s.%s", cd.Name, fd.Name)
				}
				c.Fields = append(c.Fields, &ir.Field{
					Declaring: c,
					Name:      fd.Name,
					Type:      t,
					Static:    fd.Static,
				})
			case mem.Method != nil:
				md := mem.Method
				m := &ir.Method{
					Declaring: c,
					Name:      md.Name,
					Static:    md.Static,
					Abstract:  md.Abstract || cd.IsInterface,
				}
				if !md.Static {
					m.This = m.NewVar("this", ir.ClassType{Class: c})
				}
				paramTypes := make([]ir.Type, len(md.Params))
				for i, pd := range md.Params {
					pt, err := resolveType(pd.Type, classes)
					if err != nil {
						return nil, errors.Wrapf(err, "param %s of %s.%s", pd.Name, cd.Name, md.Name)
					}
					paramTypes[i] = pt
					m.Params = append(m.Params, m.NewVar(pd.Name, pt))
				}
				var retType ir.Type
				if md.Return != nil {
					rt, err := resolveType(md.Return, classes)
					if err != nil {
						return nil, errors.Wrapf(err, "return type of %s.%s", cd.Name, md.Name)
					}
					retType = rt
				}
				m.ReturnType = retType
				m.Subsignature = ir.Subsig(md.Name, paramTypes, retType)
				c.Methods = append(c.Methods, m)
			}
		}
	}

	for _, cd := range prog.Classes {
		c := classes[cd.Name]
		i := 0
		for _, mem := range cd.Members {
			if mem.Method == nil {
				continue
			}
			md := mem.Method
			m := c.Methods[i]
			i++
			if md.Body == nil {
				continue
			}
			body, err := lowerBlock(md.Body, classes, m)
			if err != nil {
				return nil, errors.Wrapf(err, "body of %s.%s", cd.Name, md.Name)
			}
			m.CFG = ir.NewCFG(body)
		}
	}

	out := make([]*ir.Class, 0, len(prog.Classes))
	for _, cd := range prog.Classes {
		out = append(out, classes[cd.Name])
	}
	return out, nil
}

func resolveType(t *TypeRef, classes map[string]*ir.Class) (ir.Type, error) {
	base, err := resolveBaseType(t.Name, classes)
	if err != nil {
		return nil, err
	}
	if t.IsArray {
		return ir.ArrayType{Elem: base}, nil
	}
	return base, nil
}

func resolveBaseType(name string, classes map[string]*ir.Class) (ir.Type, error) {
	switch name {
	case "int":
		return ir.Int, nil
	case "byte":
		return ir.Byte, nil
	case "short":
		return ir.Short, nil
	case "char":
		return ir.Char, nil
	case "boolean":
		return ir.Boolean, nil
	case "long":
		return ir.Long, nil
	case "float":
		return ir.Float, nil
	}
	if c, ok := classes[name]; ok {
		return ir.ClassType{Class: c}, nil
	}
	return nil, errors.Errorf("undeclared type %q", name)
}

// varTable tracks the *ir.Var that a local name is currently bound to within
// one method body, and lazily interns one on first sight. The surface
// syntax has no separate local-variable declarations: a name's type is
// fixed by whatever expression first defines it (spec §1 leaves concrete
// syntax up to the IR provider; this is this provider's choice).
type varTable struct {
	method *ir.Method
	vars   map[string]*ir.Var
}

func newVarTable(m *ir.Method) *varTable {
	vt := &varTable{method: m, vars: map[string]*ir.Var{}}
	for _, p := range m.Params {
		vt.vars[p.Name] = p
	}
	if m.This != nil {
		vt.vars["this"] = m.This
	}
	return vt
}

func (vt *varTable) get(name string) (*ir.Var, bool) {
	v, ok := vt.vars[name]
	return v, ok
}

func (vt *varTable) define(name string, t ir.Type) *ir.Var {
	if v, ok := vt.vars[name]; ok {
		return v
	}
	v := vt.method.NewVar(name, t)
	vt.vars[name] = v
	return v
}

func lowerBlock(block *Block, classes map[string]*ir.Class, m *ir.Method) ([]ir.Stmt, error) {
	labelIndex := make(map[string]int, len(block.Stmts))
	for i, ls := range block.Stmts {
		if ls.Label != "" {
			labelIndex[ls.Label] = i
		}
	}
	// Every label names the original (0-based) position of its statement in
	// this flat list; ir.NewCFG prepends a single Entry sentinel, so the
	// statement's final CFG index is always its original position plus one.
	target := func(label string) (int, error) {
		i, ok := labelIndex[label]
		if !ok {
			return 0, errors.Errorf("undefined label %q", label)
		}
		return i + 1, nil
	}

	vt := newVarTable(m)
	stmts := make([]ir.Stmt, len(block.Stmts))
	for i, ls := range block.Stmts {
		s, err := lowerStmt(ls.Stmt, classes, vt, target)
		if err != nil {
			return nil, errors.Wrapf(err, "statement %d", i)
		}
		stmts[i] = s
	}
	return stmts, nil
}

type labelResolver func(string) (int, error)

func lowerStmt(s *Stmt, classes map[string]*ir.Class, vt *varTable, target labelResolver) (ir.Stmt, error) {
	switch {
	case s.Nop != nil:
		return &ir.Nop{}, nil
	case s.If != nil:
		return lowerIf(s.If, vt, target)
	case s.Goto != nil:
		to, err := target(s.Goto.Target)
		if err != nil {
			return nil, err
		}
		return &ir.Goto{Target: to}, nil
	case s.Switch != nil:
		return lowerSwitch(s.Switch, vt, target)
	case s.Return != nil:
		return lowerReturn(s.Return, vt)
	case s.Invoke != nil:
		return lowerInvoke(s.Invoke, classes, vt)
	case s.StoreStatic != nil:
		return lowerStoreStatic(s.StoreStatic, classes, vt)
	case s.StoreField != nil:
		return lowerStoreField(s.StoreField, vt)
	case s.StoreArray != nil:
		return lowerStoreArray(s.StoreArray, vt)
	case s.New != nil:
		return lowerNew(s.New, classes, vt)
	case s.Assign != nil:
		return lowerAssign(s.Assign, classes, vt)
	}
	return nil, errors.New("empty statement")
}

func lowerOperand(op *Operand, vt *varTable) (ir.Expr, error) {
	if op.Var != nil {
		v, ok := vt.get(*op.Var)
		if !ok {
			return nil, errors.Errorf("undefined variable %q", *op.Var)
		}
		return ir.VarExpr{V: v}, nil
	}
	n, err := strconv.ParseInt(*op.Const, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "integer literal %q", *op.Const)
	}
	return ir.ConstExpr{Value: int32(n)}, nil
}

// operandVar resolves an Operand that must denote a variable, not a
// literal — used wherever internal/ir requires a *ir.Var directly rather
// than an Expr (invoke arguments, field/array bases).
func operandVar(name string, vt *varTable) (*ir.Var, error) {
	v, ok := vt.get(name)
	if !ok {
		return nil, errors.Errorf("undefined variable %q", name)
	}
	return v, nil
}

func binOp(tok string) (lattice.BinOp, bool) {
	switch tok {
	case "+":
		return lattice.Add, true
	case "-":
		return lattice.Sub, true
	case "*":
		return lattice.Mul, true
	case "/":
		return lattice.Div, true
	case "%":
		return lattice.Rem, true
	case "&":
		return lattice.And, true
	case "|":
		return lattice.Or, true
	case "^":
		return lattice.Xor, true
	case "<<":
		return lattice.Shl, true
	case ">>":
		return lattice.Shr, true
	case "&&":
		return lattice.And, true
	case "||":
		return lattice.Or, true
	case "==":
		return lattice.Eq, true
	case "!=":
		return lattice.Ne, true
	case "<":
		return lattice.Lt, true
	case "<=":
		return lattice.Le, true
	case ">":
		return lattice.Gt, true
	case ">=":
		return lattice.Ge, true
	}
	return 0, false
}

func lowerIf(s *IfStmt, vt *varTable, target labelResolver) (ir.Stmt, error) {
	x, err := lowerOperand(s.X, vt)
	if err != nil {
		return nil, err
	}
	y, err := lowerOperand(s.Y, vt)
	if err != nil {
		return nil, err
	}
	op, ok := binOp(s.Op)
	if !ok {
		return nil, errors.Errorf("unsupported comparison operator %q", s.Op)
	}
	then, err := target(s.Then)
	if err != nil {
		return nil, err
	}
	els, err := target(s.Else)
	if err != nil {
		return nil, err
	}
	return &ir.If{Cond: ir.BinaryExpr{Op: op, X: x, Y: y}, Then: then, Else: els}, nil
}

func lowerSwitch(s *SwitchStmt, vt *varTable, target labelResolver) (ir.Stmt, error) {
	operand, err := lowerOperand(s.Operand, vt)
	if err != nil {
		return nil, err
	}
	cases := make([]ir.SwitchCase, len(s.Cases))
	for i, c := range s.Cases {
		n, err := strconv.ParseInt(c.Value, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "case value %q", c.Value)
		}
		to, err := target(c.Target)
		if err != nil {
			return nil, err
		}
		cases[i] = ir.SwitchCase{Value: int32(n), Target: to}
	}
	def, err := target(s.DefaultTarget)
	if err != nil {
		return nil, err
	}
	return &ir.Switch{Operand: operand, Cases: cases, Default: def}, nil
}

func lowerReturn(s *ReturnStmt, vt *varTable) (ir.Stmt, error) {
	if s.Value == nil {
		return &ir.Return{}, nil
	}
	v, err := lowerOperand(s.Value, vt)
	if err != nil {
		return nil, err
	}
	return &ir.Return{Value: v}, nil
}

var invokeKinds = map[string]ir.InvokeKind{
	"staticcall":  ir.InvokeStatic,
	"specialcall": ir.InvokeSpecial,
	"icall":       ir.InvokeInterface,
	"call":        ir.InvokeVirtual,
}

// lowerInvoke resolves Class/Method against the named class's declared
// methods to recover the full subsignature (the surface syntax spells out
// only the bare method name, trading completeness for a parser that does
// not need to repeat a full parameter-type list at every call site).
func lowerInvoke(s *InvokeStmt, classes map[string]*ir.Class, vt *varTable) (ir.Stmt, error) {
	kind, ok := invokeKinds[s.Kind]
	if !ok {
		return nil, errors.Errorf("unknown invoke kind %q", s.Kind)
	}
	c, ok := classes[s.Class]
	if !ok {
		return nil, errors.Errorf("undeclared class %q", s.Class)
	}
	var callee *ir.Method
	for _, cand := range c.Methods {
		if cand.Name == s.Method {
			callee = cand
			break
		}
	}
	if callee == nil {
		return nil, errors.Errorf("class %q declares no method named %q", s.Class, s.Method)
	}

	var recv *ir.Var
	if s.Recv != nil {
		v, err := operandVar(*s.Recv, vt)
		if err != nil {
			return nil, err
		}
		recv = v
	}

	args := make([]*ir.Var, len(s.Args))
	for i, a := range s.Args {
		if a.Var == nil {
			return nil, errors.Errorf("call argument %d must be a variable, not a literal", i)
		}
		v, err := operandVar(*a.Var, vt)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	var lhs *ir.Var
	if s.LHS != nil {
		lhs = vt.define(*s.LHS, callee.ReturnType)
	}

	return &ir.Invoke{
		LHS:    lhs,
		Kind_:  kind,
		Recv:   recv,
		Method: ir.MethodRef{Declaring: c, Subsig: callee.Subsignature},
		Args:   args,
	}, nil
}

func lowerStoreStatic(s *StoreStaticStmt, classes map[string]*ir.Class, vt *varTable) (ir.Stmt, error) {
	c, ok := classes[s.Class]
	if !ok {
		return nil, errors.Errorf("undeclared class %q", s.Class)
	}
	field := findField(c, s.Field, true)
	if field == nil {
		return nil, errors.Errorf("class %q declares no static field %q", s.Class, s.Field)
	}
	rhs, err := lowerOperand(s.RHS, vt)
	if err != nil {
		return nil, err
	}
	return &ir.StoreStaticField{Field: field, RHS: rhs}, nil
}

func lowerStoreField(s *StoreFieldStmt, vt *varTable) (ir.Stmt, error) {
	base, err := operandVar(s.Base, vt)
	if err != nil {
		return nil, err
	}
	field, err := fieldOfVarType(base, s.Field)
	if err != nil {
		return nil, err
	}
	rhs, err := lowerOperand(s.RHS, vt)
	if err != nil {
		return nil, err
	}
	return &ir.StoreField{Base: base, Field: field, RHS: rhs}, nil
}

func lowerStoreArray(s *StoreArrayStmt, vt *varTable) (ir.Stmt, error) {
	base, err := operandVar(s.Base, vt)
	if err != nil {
		return nil, err
	}
	idx, err := lowerOperand(s.Index, vt)
	if err != nil {
		return nil, err
	}
	rhs, err := lowerOperand(s.RHS, vt)
	if err != nil {
		return nil, err
	}
	return &ir.StoreArray{Base: base, Index: idx, RHS: rhs}, nil
}

func lowerNew(s *NewStmt, classes map[string]*ir.Class, vt *varTable) (ir.Stmt, error) {
	c, ok := classes[s.Class]
	if !ok {
		return nil, errors.Errorf("undeclared class %q", s.Class)
	}
	lhs := vt.define(s.LHS, ir.ClassType{Class: c})
	return &ir.New{LHS: lhs, Class: c}, nil
}

func lowerAssign(s *AssignStmt, classes map[string]*ir.Class, vt *varTable) (ir.Stmt, error) {
	rhs := s.RHS
	switch {
	case rhs.Cast != nil:
		operand, err := operandVar(rhs.Cast.Operand, vt)
		if err != nil {
			return nil, err
		}
		to, err := resolveType(rhs.Cast.To, classes)
		if err != nil {
			return nil, err
		}
		lhs := vt.define(s.LHS, to)
		return &ir.Assign{LHS: lhs, RHS: ir.CastExpr{Operand: operand, To: to}}, nil

	case rhs.StaticLoad != nil:
		c, ok := classes[rhs.StaticLoad.Class]
		if !ok {
			return nil, errors.Errorf("undeclared class %q", rhs.StaticLoad.Class)
		}
		field := findField(c, rhs.StaticLoad.Field, true)
		if field == nil {
			return nil, errors.Errorf("class %q declares no static field %q", rhs.StaticLoad.Class, rhs.StaticLoad.Field)
		}
		lhs := vt.define(s.LHS, field.Type)
		return &ir.Assign{LHS: lhs, RHS: ir.StaticFieldExpr{Field: field}}, nil

	case rhs.FieldLoad != nil:
		base, err := operandVar(rhs.FieldLoad.Base, vt)
		if err != nil {
			return nil, err
		}
		field, err := fieldOfVarType(base, rhs.FieldLoad.Field)
		if err != nil {
			return nil, err
		}
		lhs := vt.define(s.LHS, field.Type)
		return &ir.Assign{LHS: lhs, RHS: ir.InstanceFieldExpr{Base: base, Field: field}}, nil

	case rhs.ArrayLoad != nil:
		base, err := operandVar(rhs.ArrayLoad.Base, vt)
		if err != nil {
			return nil, err
		}
		at, ok := base.Type.(ir.ArrayType)
		if !ok {
			return nil, errors.Errorf("variable %q is not an array", rhs.ArrayLoad.Base)
		}
		idx, err := lowerOperand(rhs.ArrayLoad.Index, vt)
		if err != nil {
			return nil, err
		}
		lhs := vt.define(s.LHS, at.Elem)
		return &ir.Assign{LHS: lhs, RHS: ir.ArrayAccessExpr{Base: base, Index: idx}}, nil

	case rhs.Binary != nil:
		x, err := lowerOperand(rhs.Binary.X, vt)
		if err != nil {
			return nil, err
		}
		y, err := lowerOperand(rhs.Binary.Y, vt)
		if err != nil {
			return nil, err
		}
		op, ok := binOp(rhs.Binary.Op)
		if !ok {
			return nil, errors.Errorf("unsupported operator %q", rhs.Binary.Op)
		}
		lhs := vt.define(s.LHS, ir.Int)
		return &ir.Assign{LHS: lhs, RHS: ir.BinaryExpr{Op: op, X: x, Y: y}}, nil

	case rhs.Simple != nil:
		val, err := lowerOperand(rhs.Simple, vt)
		if err != nil {
			return nil, err
		}
		t := ir.Type(ir.Int)
		if rhs.Simple.Var != nil {
			if v, ok := vt.get(*rhs.Simple.Var); ok {
				t = v.Type
			}
		}
		lhs := vt.define(s.LHS, t)
		return &ir.Assign{LHS: lhs, RHS: val}, nil
	}
	return nil, errors.New("empty assignment right-hand side")
}

func findField(c *ir.Class, name string, static bool) *ir.Field {
	for cur := c; cur != nil; cur = cur.Super {
		for _, f := range cur.Fields {
			if f.Name == name && f.Static == static {
				return f
			}
		}
	}
	return nil
}

func fieldOfVarType(base *ir.Var, name string) (*ir.Field, error) {
	ct, ok := base.Type.(ir.ClassType)
	if !ok {
		return nil, errors.Errorf("variable %q is not an object reference", base.Name)
	}
	field := findField(ct.Class, name, false)
	if field == nil {
		return nil, errors.Errorf("class %q declares no instance field %q", ct.Class.Name, name)
	}
	return field, nil
}
