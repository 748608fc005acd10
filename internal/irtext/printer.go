package irtext

import (
	"fmt"
	"strings"

	"staticore/internal/ir"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

// Print renders classes back as a textual IR listing close to this
// package's own surface syntax, used by the CLI's dump output. Statements
// other than branches are written with internal/ir's String forms, so call
// statements (`recv.subsig(args)`) and static-field accesses (`C.f`, not
// `C::f`) come out in a form ParseString does not accept.
func Print(classes []*ir.Class) string {
	var b strings.Builder
	for _, c := range classes {
		b.WriteString(PrintClass(c))
		b.WriteString("\n")
	}
	return b.String()
}

func PrintClass(c *ir.Class) string {
	var b strings.Builder
	if c.IsAbstract {
		b.WriteString("abstract ")
	}
	if c.IsInterface {
		b.WriteString("interface ")
	} else {
		b.WriteString("class ")
	}
	b.WriteString(c.Name)
	if c.Super != nil {
		b.WriteString(" extends " + c.Super.Name)
	}
	if len(c.Interfaces) > 0 {
		names := make([]string, len(c.Interfaces))
		for i, iface := range c.Interfaces {
			names[i] = iface.Name
		}
		b.WriteString(" implements " + strings.Join(names, ", "))
	}
	b.WriteString(" {\n")
	for _, f := range c.Fields {
		b.WriteString(indent(1) + printField(f) + "\n")
	}
	for _, m := range c.Methods {
		b.WriteString(printMethod(m))
	}
	b.WriteString("}\n")
	return b.String()
}

func printField(f *ir.Field) string {
	prefix := ""
	if f.Static {
		prefix = "static "
	}
	return fmt.Sprintf("%sfield %s: %s;", prefix, f.Name, typeName(f.Type))
}

func printMethod(m *ir.Method) string {
	var b strings.Builder
	b.WriteString(indent(1))
	if m.Static {
		b.WriteString("static ")
	}
	if m.Abstract {
		b.WriteString("abstract ")
	}
	b.WriteString("method " + m.Name + "(")
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, typeName(p.Type))
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")
	if m.ReturnType != nil {
		b.WriteString(": " + typeName(m.ReturnType))
	}
	if m.CFG == nil {
		b.WriteString(";\n")
		return b.String()
	}
	b.WriteString(" {\n")
	for i := 1; i < m.CFG.Exit; i++ {
		b.WriteString(fmt.Sprintf("%sL%d: %s\n", indent(2), i, printStmt(m.CFG.At(i))))
	}
	b.WriteString(indent(1) + "}\n")
	return b.String()
}

func typeName(t ir.Type) string {
	switch tt := t.(type) {
	case ir.ArrayType:
		return typeName(tt.Elem) + "[]"
	default:
		return t.String()
	}
}

func printStmt(s ir.Stmt) string {
	switch st := s.(type) {
	case *ir.If:
		return fmt.Sprintf("if %s goto L%d else L%d;", st.Cond, st.Then, st.Else)
	case *ir.Goto:
		return fmt.Sprintf("goto L%d;", st.Target)
	case *ir.Switch:
		parts := make([]string, len(st.Cases))
		for i, c := range st.Cases {
			parts[i] = fmt.Sprintf("%d: L%d", c.Value, c.Target)
		}
		return fmt.Sprintf("switch %s { %s default: L%d }", st.Operand, strings.Join(parts, " "), st.Default)
	default:
		return s.String() + ";"
	}
}
