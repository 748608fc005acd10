package irtext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staticore/internal/ir"
	"staticore/internal/irtext"
)

const counterProgram = `
class Counter {
    field value: int;

    method init(): void {
        L0: this.value = 0;
        L1: return;
    }

    method bump(delta: int): int {
        L0: t = this.value;
        L1: t2 = t + delta;
        L2: this.value = t2;
        L3: return t2;
    }
}

class Program {
    static method run(): int {
        L0: c = new Counter;
        L1: specialcall c.Counter.init();
        L2: d = 1;
        L3: b = specialcall c.Counter.bump(d);
        L4: return b;
    }
}
`

func parse(t *testing.T, src string) []*ir.Class {
	t.Helper()
	classes, err := irtext.ParseString("test.irtxt", src)
	require.NoError(t, err)
	return classes
}

func classNamed(t *testing.T, classes []*ir.Class, name string) *ir.Class {
	t.Helper()
	for _, c := range classes {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no class named %q among %d classes", name, len(classes))
	return nil
}

func TestParseAndLowerCounterProgram(t *testing.T) {
	classes := parse(t, counterProgram)
	require.Len(t, classes, 2)

	counter := classNamed(t, classes, "Counter")
	require.Len(t, counter.Fields, 1)
	assert.Equal(t, "value", counter.Fields[0].Name)
	assert.Equal(t, ir.Int, counter.Fields[0].Type)
	assert.False(t, counter.Fields[0].Static)
	require.Len(t, counter.Methods, 2)

	bump := counter.DeclaredMethod(ir.Subsig("bump", []ir.Type{ir.Int}, ir.Int))
	require.NotNil(t, bump)
	require.NotNil(t, bump.CFG)
	// L0..L3 plus the synthetic Entry/Exit sentinels.
	assert.Equal(t, 6, bump.CFG.NumNodes())

	program := classNamed(t, classes, "Program")
	require.Len(t, program.Methods, 1)
	run := program.Methods[0]
	assert.True(t, run.Static)
	require.NotNil(t, run.CFG)

	newStmt, ok := run.CFG.At(1).(*ir.New)
	require.True(t, ok)
	assert.Equal(t, "Counter", newStmt.Class.Name)

	initCall, ok := run.CFG.At(2).(*ir.Invoke)
	require.True(t, ok)
	assert.Equal(t, ir.InvokeSpecial, initCall.Kind_)
	assert.Nil(t, initCall.LHS)
	assert.Equal(t, "Counter", initCall.Method.Declaring.Name)

	bumpCall, ok := run.CFG.At(4).(*ir.Invoke)
	require.True(t, ok)
	assert.NotNil(t, bumpCall.LHS)
	assert.Equal(t, bump.Subsignature, bumpCall.Method.Subsig)
	require.Len(t, bumpCall.Args, 1)
}

func TestLowerRejectsUndeclaredSuperclass(t *testing.T) {
	const src = `
class Orphan extends Missing {
}
`
	_, err := irtext.ParseString("test.irtxt", src)
	assert.Error(t, err)
}

func TestLowerRejectsUnresolvedLabel(t *testing.T) {
	const src = `
class C {
    method m(): int {
        L0: if 1 == 1 goto L5 else L0;
    }
}
`
	_, err := irtext.ParseString("test.irtxt", src)
	assert.Error(t, err)
}
