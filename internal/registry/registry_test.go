package registry

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/trigdata/internal/testutil"
	"github.com/leapstack-labs/trigdata/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var src = core.Source{Document: "test.txt"}

func category(name string) *core.Category {
	return core.NewCategory(name, src)
}

func typ(name string) *core.Type {
	return core.NewType(name, src)
}

func action(t *testing.T, name, cat string, args ...string) *core.Action {
	t.Helper()
	a := core.NewAction(name, src)
	a.ArgTypes = args
	if cat != "" {
		require.NoError(t, a.Params.Set(core.ParamCategory, core.CategoryRef(cat)))
	}
	return a
}

func call(name, ret string, args ...string) *core.Call {
	c := core.NewCall(name, src)
	c.ReturnType = ret
	c.ArgTypes = args
	return c
}

// populate builds a small table:
//
//	TC_GAME ← DoThing, Other
//	integer ← DoThing, GetInt, integer_DEFAULT_
func populate(t *testing.T) *Registry {
	t.Helper()
	r := New(WithLogger(testutil.NewTestLogger(t)))
	for _, rec := range []core.Record{
		category("TC_GAME"),
		category("TC_EMPTY"),
		typ("integer"),
		typ("unit"),
		core.NewTypeDefault("integer", src),
		action(t, "DoThing", "TC_GAME", "integer"),
		action(t, "Other", "TC_GAME"),
		call("GetInt", "integer", "unit"),
	} {
		require.NoError(t, r.Insert(rec))
	}
	return r
}

func TestRegistry_Insert(t *testing.T) {
	r := New()

	require.NoError(t, r.Insert(category("TC_GAME")))
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Contains("TC_GAME"))

	got, err := r.Lookup("TC_GAME")
	require.NoError(t, err)
	assert.Equal(t, core.KindCategory, got.Kind())
}

func TestRegistry_InsertDuplicateAcrossKinds(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(category("Thing")))

	err := r.Insert(core.NewAction("Thing", src))
	var dup *core.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Thing", dup.Name)
	assert.Equal(t, core.KindCategory, dup.Existing)
	assert.ErrorIs(t, err, core.ErrDuplicateName)

	// The second insertion leaves the table unchanged.
	assert.Equal(t, 1, r.Len())
	assert.Empty(t, r.Names(core.KindAction))
	got, _ := r.Lookup("Thing")
	assert.Equal(t, core.KindCategory, got.Kind())
}

func TestRegistry_Lookup(t *testing.T) {
	r := populate(t)

	tests := []struct {
		name    string
		lookup  string
		kind    core.Kind
		wantErr bool
		wantGot core.Kind
	}{
		{"exact kind", "TC_GAME", core.KindCategory, false, core.KindInvalid},
		{"family matches action", "DoThing", core.KindFunction, false, core.KindInvalid},
		{"family matches call", "GetInt", core.KindFunction, false, core.KindInvalid},
		{"wrong kind", "DoThing", core.KindCategory, true, core.KindAction},
		{"missing", "Nope", core.KindCategory, true, core.KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := r.LookupKind(tt.lookup, tt.kind)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.lookup, rec.Name())
				return
			}
			var symErr *core.UnknownSymbolError
			require.ErrorAs(t, err, &symErr)
			assert.Equal(t, tt.kind, symErr.Want)
			assert.Equal(t, tt.wantGot, symErr.Got)
		})
	}

	_, err := r.Lookup("Nope")
	assert.ErrorIs(t, err, core.ErrUnknownSymbol)
}

func TestRegistry_Names(t *testing.T) {
	r := populate(t)

	assert.Equal(t, []string{"TC_GAME", "TC_EMPTY"}, r.Names(core.KindCategory))
	assert.Equal(t, []string{"DoThing", "Other"}, r.Names(core.KindAction))
	assert.Equal(t, []string{"DoThing", "Other", "GetInt"}, r.Names(core.KindFunction))
	assert.Empty(t, r.Names(core.KindCondition))
	assert.Empty(t, r.Names(core.KindInvalid))

	all := r.All()
	require.Len(t, all, r.Len())
	assert.Equal(t, "TC_GAME", all[0].Name())

	recs := r.Records(core.KindType)
	require.Len(t, recs, 2)
	assert.Equal(t, "unit", recs[1].Name())
}

func TestRegistry_References(t *testing.T) {
	r := populate(t)

	tests := []struct {
		name string
		want []string
	}{
		{"TC_GAME", []string{"DoThing", "Other"}},
		{"TC_EMPTY", nil},
		{"integer", []string{"integer_DEFAULT_", "DoThing", "GetInt"}},
		{"unit", []string{"GetInt"}},
		{"DoThing", nil},
		{"Nope", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.References(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(got) > 0, r.IsReferenced(tt.name))
		})
	}
}

func TestRegistry_ReferenceKindMustMatch(t *testing.T) {
	r := New()
	// An argument type that happens to name a Category is not a reference.
	require.NoError(t, r.Insert(category("TC_GAME")))
	require.NoError(t, r.Insert(action(t, "Odd", "", "TC_GAME")))

	assert.False(t, r.IsReferenced("TC_GAME"))
	assert.NoError(t, r.Delete("TC_GAME"))
}

func TestRegistry_SameTargetAsCategoryAndType(t *testing.T) {
	r := New()
	require.NoError(t, r.Insert(category("TC_X")))
	require.NoError(t, r.Insert(action(t, "F", "TC_X", "TC_X")))

	assert.True(t, r.IsReferenced("TC_X"))
	assert.Equal(t, []string{"F"}, r.References("TC_X"))

	var refErr *core.ReferencedObjectError
	require.ErrorAs(t, r.Delete("TC_X"), &refErr)
	assert.Equal(t, []string{"F"}, refErr.References)

	// Only the field naming a Category follows the rename.
	require.NoError(t, r.Rename("TC_X", "TC_Y"))
	rec, err := r.Lookup("F")
	require.NoError(t, err)
	fn, _ := core.FunctionOf(rec)
	cat, _ := fn.Params.Category()
	assert.Equal(t, "TC_Y", cat)
	assert.Equal(t, []string{"TC_X"}, fn.ArgTypes)
	assert.Equal(t, []string{"F"}, r.References("TC_Y"))
	assert.Equal(t, []string{"TC_Y", "TC_X"}, r.Targets("F"))
}

func TestRegistry_DeleteGuarded(t *testing.T) {
	r := populate(t)

	err := r.Delete("TC_GAME")
	var refErr *core.ReferencedObjectError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "TC_GAME", refErr.Name)
	assert.Equal(t, r.References("TC_GAME"), refErr.References)
	assert.ErrorIs(t, err, core.ErrReferencedObject)
	assert.True(t, r.Contains("TC_GAME"))

	require.NoError(t, r.Delete("DoThing"))
	require.ErrorAs(t, r.Delete("TC_GAME"), &refErr)
	assert.Equal(t, []string{"Other"}, refErr.References)

	require.NoError(t, r.Delete("Other"))
	require.NoError(t, r.Delete("TC_GAME"))
	assert.False(t, r.Contains("TC_GAME"))
	assert.Equal(t, []string{"TC_EMPTY"}, r.Names(core.KindCategory))
}

func TestRegistry_DeleteAll(t *testing.T) {
	r := populate(t)

	// GetInt still refers to integer from outside the set.
	err := r.DeleteAll("integer", "integer_DEFAULT_", "DoThing")
	var refErr *core.ReferencedObjectError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, []string{"GetInt"}, refErr.References)
	assert.True(t, r.Contains("DoThing"), "nothing is removed on failure")

	require.NoError(t, r.DeleteAll("integer", "integer_DEFAULT_", "DoThing", "GetInt"))
	assert.False(t, r.Contains("integer"))
	assert.False(t, r.IsReferenced("unit"))

	err = r.DeleteAll("Nope")
	assert.ErrorIs(t, err, core.ErrUnknownSymbol)
}

func TestRegistry_RemoveUnconditional(t *testing.T) {
	r := populate(t)

	require.NoError(t, r.Remove("TC_GAME"))
	assert.False(t, r.Contains("TC_GAME"))
	assert.NotContains(t, r.Names(core.KindCategory), "TC_GAME")

	assert.ErrorIs(t, r.Remove("TC_GAME"), core.ErrUnknownSymbol)
}

func TestRegistry_RenameCategory(t *testing.T) {
	r := populate(t)

	require.NoError(t, r.Rename("TC_GAME", "TC_PLAY"))

	assert.False(t, r.Contains("TC_GAME"))
	assert.Equal(t, []string{"TC_PLAY", "TC_EMPTY"}, r.Names(core.KindCategory), "position is kept")
	assert.Equal(t, []string{"DoThing", "Other"}, r.References("TC_PLAY"))
	assert.Nil(t, r.References("TC_GAME"))

	rec, err := r.Lookup("DoThing")
	require.NoError(t, err)
	fn, _ := core.FunctionOf(rec)
	cat, _ := fn.Params.Category()
	assert.Equal(t, "TC_PLAY", cat)
}

func TestRegistry_RenameType(t *testing.T) {
	r := populate(t)

	require.NoError(t, r.Rename("integer", "int"))

	assert.True(t, r.Contains("int_DEFAULT_"))
	assert.False(t, r.Contains("integer_DEFAULT_"))
	assert.Equal(t, []string{"int_DEFAULT_", "DoThing", "GetInt"}, r.References("int"))

	rec, _ := r.Lookup("GetInt")
	assert.Equal(t, "int", rec.(*core.Call).ReturnType)
	rec, _ = r.Lookup("DoThing")
	assert.Equal(t, []string{"int"}, rec.(*core.Action).ArgTypes)

	def, _ := r.Lookup("int_DEFAULT_")
	assert.Equal(t, "int", def.(*core.TypeDefault).TypeName())
}

func TestRegistry_RenameReferrer(t *testing.T) {
	r := populate(t)

	require.NoError(t, r.Rename("DoThing", "DoStuff"))
	assert.Equal(t, []string{"DoStuff", "Other"}, r.References("TC_GAME"))
	assert.Equal(t, []string{"DoStuff", "Other"}, r.Names(core.KindAction))
	assert.Equal(t, []string{"TC_GAME", "integer"}, r.Targets("DoStuff"))
}

func TestRegistry_RenameErrors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"collision", "TC_GAME", "TC_EMPTY", core.ErrDuplicateName},
		{"existing type", "integer", "unit", core.ErrDuplicateName},
		{"missing", "Nope", "Other", core.ErrUnknownSymbol},
		{"type default", "integer_DEFAULT_", "x", core.ErrInvalidValue},
		{"empty", "TC_GAME", "", core.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := populate(t)
			err := r.Rename(tt.from, tt.to)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 8, r.Len())
		})
	}
}

func TestRegistry_RenameTypeDefaultCollision(t *testing.T) {
	r := populate(t)
	require.NoError(t, r.Insert(core.NewUnknown("real_DEFAULT_", src, nil)))

	err := r.Rename("integer", "real")
	var dup *core.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "real_DEFAULT_", dup.Name)

	// Nothing moved.
	assert.True(t, r.Contains("integer"))
	assert.True(t, r.Contains("integer_DEFAULT_"))
	assert.False(t, r.Contains("real"))
}

func TestRegistry_SetParam(t *testing.T) {
	r := populate(t)

	require.NoError(t, r.SetParam("Other", core.ParamCategory, core.CategoryRef("TC_EMPTY")))
	assert.Equal(t, []string{"DoThing"}, r.References("TC_GAME"))
	assert.Equal(t, []string{"Other"}, r.References("TC_EMPTY"))

	require.NoError(t, r.SetParam("Other", core.ParamScriptName, core.ScriptName("OtherBJ")))

	err := r.SetParam("GetInt", core.ParamScriptName, core.ScriptName("X"))
	assert.ErrorIs(t, err, core.ErrInvalidBlockParameter)

	err = r.SetParam("Other", core.ParamCategory, core.CategoryRef("DoThing"))
	assert.ErrorIs(t, err, core.ErrUnknownSymbol)

	err = r.SetParam("TC_GAME", core.ParamLimits, core.List{"1"})
	var ibp *core.InvalidBlockParameterError
	require.ErrorAs(t, err, &ibp)
	assert.Equal(t, core.KindCategory, ibp.Kind)

	err = r.SetParam("Nope", core.ParamLimits, core.List{"1"})
	assert.ErrorIs(t, err, core.ErrUnknownSymbol)

	err = r.SetParam("Other", core.ParamLimits, core.ScriptName("x"))
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func TestRegistry_DeleteParam(t *testing.T) {
	r := populate(t)

	require.NoError(t, r.DeleteParam("Other", core.ParamCategory))
	assert.Equal(t, []string{"DoThing"}, r.References("TC_GAME"))

	err := r.DeleteParam("GetInt", core.ParamScriptName)
	var ibp *core.InvalidBlockParameterError
	require.True(t, errors.As(err, &ibp))
	assert.Equal(t, "GetInt", ibp.Record)
}

func TestRegistry_Clear(t *testing.T) {
	r := populate(t)
	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Names(core.KindFunction))
	assert.False(t, r.IsReferenced("TC_GAME"))

	// The table can be rebuilt.
	require.NoError(t, r.Insert(category("TC_GAME")))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Independent(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, a.Insert(category("TC_GAME")))
	assert.False(t, b.Contains("TC_GAME"))
	assert.NoError(t, b.Insert(category("TC_GAME")))
}
