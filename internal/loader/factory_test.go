package loader

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leapstack-labs/trigdata/internal/parser"
	"github.com/leapstack-labs/trigdata/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTable is a minimal symbol table for factory tests.
type memTable struct {
	records map[string]core.Record
}

func newMemTable(seed ...core.Record) *memTable {
	m := &memTable{records: make(map[string]core.Record)}
	for _, r := range seed {
		m.records[r.Name()] = r
	}
	return m
}

func (m *memTable) Lookup(name string) (core.Record, error) {
	r, ok := m.records[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, core.ErrUnknownSymbol)
	}
	return r, nil
}

func (m *memTable) Insert(r core.Record) error {
	if existing, ok := m.records[r.Name()]; ok {
		return &core.DuplicateNameError{Name: r.Name(), Existing: existing.Kind()}
	}
	m.records[r.Name()] = r
	return nil
}

var testSource = core.Source{Document: "seed.txt", Section: "TriggerCategories", Line: 1}

// construct parses content and constructs every block of its first section.
func construct(t *testing.T, table *memTable, content string) ([]core.Record, []error) {
	t.Helper()
	doc, diags := parser.ParseString("test.txt", content)
	require.Empty(t, diags)
	require.NotEmpty(t, doc.Sections)

	f := New(table, "test.txt", Options{PreserveUnmodeled: true})
	section := doc.Sections[0]
	kind, err := f.KindFor(section)
	require.NoError(t, err)

	var records []core.Record
	var errs []error
	for _, b := range section.Blocks {
		r, err := f.Construct(section.Name, kind, b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, r)
	}
	return records, errs
}

func TestSectionKind(t *testing.T) {
	tests := []struct {
		section string
		want    core.Kind
		ok      bool
	}{
		{"TriggerCategories", core.KindCategory, true},
		{"TriggerTypes", core.KindType, true},
		{"TriggerTypeDefaults", core.KindTypeDefault, true},
		{"TriggerConditions", core.KindCondition, true},
		{"TriggerActions", core.KindAction, true},
		{"TriggerCalls", core.KindCall, true},
		{"TriggerEvents", core.KindInvalid, false},
		{"triggeractions", core.KindInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			got, ok := SectionKind(tt.section)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				name, found := SectionName(got)
				assert.True(t, found)
				assert.Equal(t, tt.section, name)
			}
		})
	}
}

func TestKindFor(t *testing.T) {
	events := &parser.Section{Name: "TriggerEvents", Line: 3}
	custom := &parser.Section{Name: "MyStuff", Line: 9}

	tests := []struct {
		name    string
		opts    Options
		section *parser.Section
		want    core.Kind
		wantErr bool
	}{
		{"unmodeled preserved", Options{PreserveUnmodeled: true}, events, core.KindUnknown, false},
		{"unmodeled dropped", Options{}, events, core.KindInvalid, true},
		{"unrecognized dropped", Options{PreserveUnmodeled: true}, custom, core.KindInvalid, true},
		{"unrecognized preserved", Options{PreserveUnrecognized: true}, custom, core.KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(newMemTable(), "test.txt", tt.opts)
			got, err := f.KindFor(tt.section)
			assert.Equal(t, tt.want, got)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var secErr *core.UnrecognizedSectionError
			require.ErrorAs(t, err, &secErr)
			assert.Equal(t, tt.section.Name, secErr.Section)
			assert.Equal(t, tt.section.Line, secErr.Pos.Line)
			assert.ErrorIs(t, err, core.ErrSyntax)
		})
	}
}

func TestConstructCategory(t *testing.T) {
	table := newMemTable()
	records, errs := construct(t, table, `[TriggerCategories]
TC_GAME=WESTRING_TRIGCAT_GAME,ReplaceableTextures\CommandButtons\BTNSelectHeroOn.blp
TC_NOTHING=WESTRING_TRIGCAT_NOTHING,ReplaceableTextures\WorldEditUI\Actions-Nothing,1
TC_SHORT=OnlyText
TC_BADFLAG=Text,icon,yes
TC_PARAM=Text,icon
_TC_PARAM_Category=TC_GAME
`)
	require.Len(t, records, 2)
	require.Len(t, errs, 3)

	game := records[0].(*core.Category)
	assert.Equal(t, "TC_GAME", game.Name())
	assert.Equal(t, "WESTRING_TRIGCAT_GAME", game.DisplayText)
	assert.Equal(t, `ReplaceableTextures\CommandButtons\BTNSelectHeroOn.blp`, game.Icon)
	assert.False(t, bool(game.HideName))
	assert.Equal(t, 2, game.Origin().Line)
	assert.Equal(t, "TriggerCategories", game.Origin().Section)

	assert.True(t, bool(records[1].(*core.Category).HideName))

	assert.ErrorIs(t, errs[0], core.ErrInvalidValue)
	assert.ErrorIs(t, errs[1], core.ErrInvalidValue)
	assert.ErrorIs(t, errs[2], core.ErrInvalidBlockParameter)

	_, err := table.Lookup("TC_PARAM")
	assert.Error(t, err, "failed construction must not register the record")
}

func TestConstructFunctionParams(t *testing.T) {
	table := newMemTable(core.NewCategory("TC_UNIT", testSource))
	records, errs := construct(t, table, `[TriggerActions]
SetUnitLifeBJ=0,unit,real
_SetUnitLifeBJ_Defaults=GetTriggerUnit,100
_SetUnitLifeBJ_Limits=_,_,0,100
_SetUnitLifeBJ_Category=TC_UNIT
_SetUnitLifeBJ_ScriptName=SetUnitLifePercentBJ
`)
	require.Empty(t, errs)
	require.Len(t, records, 1)

	action := records[0].(*core.Action)
	assert.Equal(t, core.ReignOfChaos, action.MinVersion)
	assert.Equal(t, []string{"unit", "real"}, action.ArgTypes)
	assert.Equal(t, []core.Param{core.ParamDefaults, core.ParamLimits, core.ParamCategory, core.ParamScriptName}, action.Params.Params())

	defaults, err := action.Params.Get(core.ParamDefaults)
	require.NoError(t, err)
	assert.Equal(t, core.List{"GetTriggerUnit", "100"}, defaults)

	cat, ok := action.Params.Category()
	assert.True(t, ok)
	assert.Equal(t, "TC_UNIT", cat)
}

func TestConstructFunctionErrors(t *testing.T) {
	seed := []core.Record{
		core.NewCategory("TC_UNIT", testSource),
		core.NewAction("NotACategory", testSource),
	}

	tests := []struct {
		name    string
		content string
		want    error
		check   func(t *testing.T, err error)
	}{
		{
			name:    "script name on condition",
			content: "[TriggerConditions]\nCond=0\n_Cond_ScriptName=X\n",
			want:    core.ErrInvalidBlockParameter,
		},
		{
			name:    "unknown parameter",
			content: "[TriggerActions]\nAct=0\n_Act_UseWithAI=1\n",
			want:    core.ErrInvalidBlockParameter,
		},
		{
			name:    "parameter given twice",
			content: "[TriggerActions]\nAct=0\n_Act_Limits=1\n_Act_Limits=2\n",
			want:    core.ErrInvalidBlockParameter,
		},
		{
			name:    "undefined category",
			content: "[TriggerActions]\nAct=0\n_Act_Category=TC_NOPE\n",
			want:    core.ErrUnknownSymbol,
			check: func(t *testing.T, err error) {
				var symErr *core.UnknownSymbolError
				require.ErrorAs(t, err, &symErr)
				assert.Equal(t, "TC_NOPE", symErr.Name)
				assert.Equal(t, core.KindInvalid, symErr.Got)
				assert.Equal(t, 3, symErr.Pos.Line)
			},
		},
		{
			name:    "category names a non-category",
			content: "[TriggerActions]\nAct=0\n_Act_Category=NotACategory\n",
			want:    core.ErrUnknownSymbol,
			check: func(t *testing.T, err error) {
				var symErr *core.UnknownSymbolError
				require.ErrorAs(t, err, &symErr)
				assert.Equal(t, core.KindCategory, symErr.Want)
				assert.Equal(t, core.KindAction, symErr.Got)
			},
		},
		{
			name:    "empty category",
			content: "[TriggerActions]\nAct=0\n_Act_Category=\n",
			want:    core.ErrInvalidValue,
		},
		{
			name:    "member of another block",
			content: "[TriggerActions]\nAct=0\n_Other_Category=TC_UNIT\n",
			want:    core.ErrStructural,
		},
		{
			name:    "declaration without assignment",
			content: "[TriggerActions]\nAct\n",
			want:    core.ErrStructural,
		},
		{
			name:    "bad version",
			content: "[TriggerActions]\nAct=x,unit\n",
			want:    core.ErrInvalidValue,
		},
		{
			name:    "empty argument type",
			content: "[TriggerActions]\nAct=0,unit,,real\n",
			want:    core.ErrInvalidValue,
		},
		{
			name:    "call without return type",
			content: "[TriggerCalls]\nShortCall=1,0\n",
			want:    core.ErrInvalidValue,
		},
		{
			name:    "call with bad events flag",
			content: "[TriggerCalls]\nC=0,maybe,unit\n",
			want:    core.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newMemTable(seed...)
			records, errs := construct(t, table, tt.content)
			assert.Empty(t, records)
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], tt.want)
			assert.ErrorIs(t, errs[0], core.ErrSyntax)
			assert.Len(t, table.records, len(seed))
			if tt.check != nil {
				tt.check(t, errs[0])
			}
		})
	}
}

func TestConstructCall(t *testing.T) {
	records, errs := construct(t, newMemTable(), `[TriggerCalls]
GetUnitLifePercent=1,1,real,unit
GetTriggerUnit=0,0,unit
`)
	require.Empty(t, errs)
	require.Len(t, records, 2)

	call := records[0].(*core.Call)
	assert.Equal(t, core.TheFrozenThrone, call.MinVersion)
	assert.True(t, bool(call.EventsUsable))
	assert.Equal(t, "real", call.ReturnType)
	assert.Equal(t, []string{"unit"}, call.ArgTypes)

	assert.Empty(t, records[1].(*core.Call).ArgTypes)
}

func TestConstructType(t *testing.T) {
	records, errs := construct(t, newMemTable(), `[TriggerTypes]
integer=0,1,1,WESTRING_TRIGTYPE_integer
unitcode=0,0,1,WESTRING_TRIGTYPE_unitcode,integer,unitcode,1
partial=0,1,1,WESTRING_X,integer
badflag=0,x,1,Name
`)
	require.Len(t, records, 2)
	require.Len(t, errs, 2)

	integer := records[0].(*core.Type)
	assert.True(t, bool(integer.IsGlobal))
	assert.True(t, bool(integer.Comparable))
	assert.Equal(t, "WESTRING_TRIGTYPE_integer", integer.DisplayName)
	assert.Nil(t, integer.Custom)

	unitcode := records[1].(*core.Type)
	require.NotNil(t, unitcode.Custom)
	assert.Equal(t, "integer", unitcode.Custom.BaseType)
	assert.Equal(t, "unitcode", unitcode.Custom.ImportType)
	assert.True(t, bool(unitcode.Custom.TreatAsBase))

	// Trailing group is all-or-none.
	assert.ErrorIs(t, errs[0], core.ErrInvalidValue)
	assert.ErrorIs(t, errs[1], core.ErrInvalidValue)
}

func TestConstructTypeDefault(t *testing.T) {
	records, errs := construct(t, newMemTable(), `[TriggerTypeDefaults]
integer=0
string="",WESTRING_TRIGTYPEDEFAULT_STRING
`)
	require.Empty(t, errs)
	require.Len(t, records, 2)

	integer := records[0].(*core.TypeDefault)
	assert.Equal(t, core.TypeDefaultName("integer"), integer.Name())
	assert.Equal(t, "integer", integer.TypeName())
	assert.Equal(t, "0", integer.ScriptText)
	assert.Empty(t, integer.DisplayText)

	str := records[1].(*core.TypeDefault)
	assert.Equal(t, `""`, str.ScriptText)
	assert.Equal(t, "WESTRING_TRIGTYPEDEFAULT_STRING", str.DisplayText)
}

func TestConstructUnknown(t *testing.T) {
	records, errs := construct(t, newMemTable(), `[TriggerEvents]
TriggerRegisterTimerEventSingle=0,real  // one-shot
_TriggerRegisterTimerEventSingle_Category=TC_TIME
`)
	require.Empty(t, errs)
	require.Len(t, records, 1)

	u := records[0].(*core.Unknown)
	assert.Equal(t, "TriggerRegisterTimerEventSingle", u.Name())
	assert.Equal(t, []string{
		"TriggerRegisterTimerEventSingle=0,real  // one-shot",
		"_TriggerRegisterTimerEventSingle_Category=TC_TIME",
	}, u.Lines)
}

func TestConstructDuplicateName(t *testing.T) {
	table := newMemTable(core.NewAction("DoNothing", testSource))
	records, errs := construct(t, table, "[TriggerCategories]\nDoNothing=Text,icon\n")
	assert.Empty(t, records)
	require.Len(t, errs, 1)

	var dup *core.DuplicateNameError
	require.True(t, errors.As(errs[0], &dup))
	assert.Equal(t, "DoNothing", dup.Name)
	assert.Equal(t, core.KindAction, dup.Existing)
	assert.Equal(t, core.Position{File: "test.txt", Line: 2}, dup.Pos)

	// The original record is untouched.
	r, err := table.Lookup("DoNothing")
	require.NoError(t, err)
	assert.Equal(t, core.KindAction, r.Kind())
}
