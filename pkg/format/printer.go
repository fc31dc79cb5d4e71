package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/trigdata/pkg/core"
)

// Printer accumulates canonical trigger data text.
type Printer struct {
	output      *bytes.Buffer
	atLineStart bool
}

func newPrinter() *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	if p.output.Len() == 0 {
		return ""
	}
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

// blank separates two groups of lines.
func (p *Printer) blank() {
	if !p.atLineStart {
		p.writeln()
	}
	p.writeln()
}

// declaration writes "Key=v0,v1,...".
func (p *Printer) declaration(key string, fields ...string) {
	p.write(key)
	p.write("=")
	p.write(core.JoinFields(fields))
	p.writeln()
}

// continuation writes "_Key_Param=value".
func (p *Printer) continuation(key string, param core.Param, value core.Value) {
	p.write("_")
	p.write(key)
	p.write("_")
	p.write(string(param))
	p.write("=")
	p.write(value.String())
	p.writeln()
}

func (p *Printer) header(section string) {
	p.write("[")
	p.write(section)
	p.write("]")
	p.writeln()
}

func (p *Printer) formatRecord(r core.Record) {
	switch r := r.(type) {
	case *core.Category:
		fields := []string{r.DisplayText, r.Icon}
		if r.HideName {
			fields = append(fields, r.HideName.String())
		}
		p.declaration(r.Name(), fields...)

	case *core.Condition:
		p.formatFunction(&r.Function)

	case *core.Action:
		p.formatFunction(&r.Function)

	case *core.Call:
		fields := []string{r.MinVersion.String(), r.EventsUsable.String(), r.ReturnType}
		p.declaration(r.Name(), append(fields, r.ArgTypes...)...)
		p.formatParams(&r.Function)

	case *core.Type:
		fields := []string{
			r.MinVersion.String(),
			r.IsGlobal.String(),
			r.Comparable.String(),
			r.DisplayName,
		}
		if c := r.Custom; c != nil {
			fields = append(fields, c.BaseType, c.ImportType, c.TreatAsBase.String())
		}
		p.declaration(r.Name(), fields...)

	case *core.TypeDefault:
		fields := []string{r.ScriptText}
		if r.DisplayText != "" {
			fields = append(fields, r.DisplayText)
		}
		p.declaration(r.TypeName(), fields...)

	case *core.Unknown:
		for _, line := range r.Lines {
			p.write(line)
			p.writeln()
		}
	}
}

func (p *Printer) formatFunction(fn *core.Function) {
	p.declaration(fn.Name(), append([]string{fn.MinVersion.String()}, fn.ArgTypes...)...)
	p.formatParams(fn)
}

func (p *Printer) formatParams(fn *core.Function) {
	for _, param := range fn.Params.Params() {
		v, err := fn.Params.Get(param)
		if err != nil || !v.IsSet() {
			continue
		}
		p.continuation(fn.Name(), param, v)
	}
}
