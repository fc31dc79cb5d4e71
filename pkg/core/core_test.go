package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_StringAndParse(t *testing.T) {
	for _, k := range append(ConcreteKinds(), KindFunction) {
		got, err := ParseKind(k.String())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("typedefault")
	require.NoError(t, err)
	assert.Equal(t, KindTypeDefault, got)

	_, err = ParseKind("event")
	assert.Error(t, err)
	assert.Equal(t, "Invalid", KindInvalid.String())
}

func TestKind_Concrete(t *testing.T) {
	assert.Equal(t, []Kind{KindCondition, KindAction, KindCall}, KindFunction.Concrete())
	assert.Equal(t, []Kind{KindType}, KindType.Concrete())
	assert.Nil(t, KindInvalid.Concrete())

	assert.True(t, KindCall.IsFunction())
	assert.False(t, KindFunction.IsFunction())
	assert.True(t, KindCategory.Referenceable())
	assert.True(t, KindType.Referenceable())
	assert.False(t, KindAction.Referenceable())
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "1", []string{"1"}},
		{"plain", "1,integer,real", []string{"1", "integer", "real"}},
		{"empty field", "1,,real", []string{"1", "", "real"}},
		{"trailing comma", "a,", []string{"a", ""}},
		{"double quoted comma", `0,"Hello, world",x`, []string{"0", `"Hello, world"`, "x"}},
		{"single quoted comma", `'a,b',c`, []string{`'a,b'`, "c"}},
		{"nested other quote", `"it's,fine",z`, []string{`"it's,fine"`, "z"}},
		{"unmatched single quote", `Player'sStuff,icon.png`, []string{`Player'sStuff`, "icon.png"}},
		{"unmatched double quote", `a"b,c,d`, []string{`a"b`, "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFields(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.want != nil {
				assert.Equal(t, tt.in, JoinFields(got))
			}
		})
	}
}

func TestFlag(t *testing.T) {
	f, err := ParseFlag("0")
	require.NoError(t, err)
	assert.Equal(t, Flag(false), f)
	assert.Equal(t, "0", f.String())

	f, err = ParseFlag("2")
	require.NoError(t, err)
	assert.Equal(t, Flag(true), f)
	assert.Equal(t, "1", f.String())

	_, err = ParseFlag("yes")
	assert.Error(t, err)
}

func TestGameVersion(t *testing.T) {
	v, err := ParseGameVersion("1")
	require.NoError(t, err)
	assert.Equal(t, TheFrozenThrone, v)
	assert.Equal(t, "The Frozen Throne", v.Title())
	assert.Equal(t, "1", v.String())

	assert.Equal(t, "Unknown", GameVersion(7).Title())

	_, err = ParseGameVersion("-1")
	assert.Error(t, err)
	_, err = ParseGameVersion("x")
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	src := Source{Document: "a.txt", Section: "TriggerActions", Line: 3}
	a := NewAction("DoThing", src)
	assert.Equal(t, "DoThing", a.Name())
	assert.Equal(t, KindAction, a.Kind())
	assert.Equal(t, src, a.Origin())
	assert.Equal(t, KindAction, a.Params.Kind())

	fn, ok := FunctionOf(a)
	require.True(t, ok)
	assert.Same(t, &a.Function, fn)

	_, ok = FunctionOf(NewCategory("TC", src))
	assert.False(t, ok)

	SetName(a, "DoOtherThing")
	assert.Equal(t, "DoOtherThing", a.Name())

	d := NewTypeDefault("integer", src)
	assert.Equal(t, "integer_DEFAULT_", d.Name())
	assert.Equal(t, "integer", d.TypeName())
}
