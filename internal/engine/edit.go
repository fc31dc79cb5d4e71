package engine

import "github.com/leapstack-labs/trigdata/pkg/core"

// Remove deletes the named records. References among them do not block
// the removal; references from any other record do, and then nothing is
// removed.
func (e *Engine) Remove(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if err := e.registry.DeleteAll(names...); err != nil {
		return err
	}
	e.logger.Info("records removed", "names", names)
	return nil
}

// Rename renames a record and updates every record referring to it.
func (e *Engine) Rename(oldName, newName string) error {
	if err := e.registry.Rename(oldName, newName); err != nil {
		return err
	}
	e.logger.Info("record renamed", "from", oldName, "to", newName)
	return nil
}

// SetParam parses raw as the value of block parameter p and sets it on
// the named Function-family record.
func (e *Engine) SetParam(name string, p core.Param, raw string) error {
	v, err := core.ParseValue(p, raw)
	if err != nil {
		return &core.InvalidValueError{Record: name, Field: string(p), Value: raw, Reason: err.Error()}
	}
	if err := e.registry.SetParam(name, p, v); err != nil {
		return err
	}
	e.logger.Debug("parameter set", "record", name, "param", p, "value", raw)
	return nil
}

// DeleteParam clears block parameter p on the named Function-family record.
func (e *Engine) DeleteParam(name string, p core.Param) error {
	if err := e.registry.DeleteParam(name, p); err != nil {
		return err
	}
	e.logger.Debug("parameter deleted", "record", name, "param", p)
	return nil
}

// Param returns block parameter p of the named Function-family record, or
// core.Unset.
func (e *Engine) Param(name string, p core.Param) (core.Value, error) {
	return e.registry.Param(name, p)
}
