package publish

import (
	"openpublish/internal/ordergroups"
	"openpublish/internal/plugin"
)

// Observer receives run signals. Methods are called synchronously on the
// goroutine driving the run and must not block for long.
type Observer interface {
	AboutToProcess(p *plugin.Plugin, inst *plugin.Instance)
	WasProcessed(result plugin.Result)
	WasReset()
	PassedGroup(group ordergroups.Group)
	SwitchToggleability(enabled bool)
	WasActed(result plugin.Result)
	WasStopped()
	WasFinished()
	WasSkipped(p *plugin.Plugin)
	UnexpectedError(err error)
}

// Events adapts plain functions to Observer. Nil fields are ignored.
type Events struct {
	OnAboutToProcess      func(p *plugin.Plugin, inst *plugin.Instance)
	OnWasProcessed        func(result plugin.Result)
	OnWasReset            func()
	OnPassedGroup         func(group ordergroups.Group)
	OnSwitchToggleability func(enabled bool)
	OnWasActed            func(result plugin.Result)
	OnWasStopped          func()
	OnWasFinished         func()
	OnWasSkipped          func(p *plugin.Plugin)
	OnUnexpectedError     func(err error)
}

func (e Events) AboutToProcess(p *plugin.Plugin, inst *plugin.Instance) {
	if e.OnAboutToProcess != nil {
		e.OnAboutToProcess(p, inst)
	}
}

func (e Events) WasProcessed(result plugin.Result) {
	if e.OnWasProcessed != nil {
		e.OnWasProcessed(result)
	}
}

func (e Events) WasReset() {
	if e.OnWasReset != nil {
		e.OnWasReset()
	}
}

func (e Events) PassedGroup(group ordergroups.Group) {
	if e.OnPassedGroup != nil {
		e.OnPassedGroup(group)
	}
}

func (e Events) SwitchToggleability(enabled bool) {
	if e.OnSwitchToggleability != nil {
		e.OnSwitchToggleability(enabled)
	}
}

func (e Events) WasActed(result plugin.Result) {
	if e.OnWasActed != nil {
		e.OnWasActed(result)
	}
}

func (e Events) WasStopped() {
	if e.OnWasStopped != nil {
		e.OnWasStopped()
	}
}

func (e Events) WasFinished() {
	if e.OnWasFinished != nil {
		e.OnWasFinished()
	}
}

func (e Events) WasSkipped(p *plugin.Plugin) {
	if e.OnWasSkipped != nil {
		e.OnWasSkipped(p)
	}
}

func (e Events) UnexpectedError(err error) {
	if e.OnUnexpectedError != nil {
		e.OnUnexpectedError(err)
	}
}

// Multi fans signals out to every observer in order.
type Multi []Observer

func (m Multi) AboutToProcess(p *plugin.Plugin, inst *plugin.Instance) {
	for _, o := range m {
		o.AboutToProcess(p, inst)
	}
}

func (m Multi) WasProcessed(result plugin.Result) {
	for _, o := range m {
		o.WasProcessed(result)
	}
}

func (m Multi) WasReset() {
	for _, o := range m {
		o.WasReset()
	}
}

func (m Multi) PassedGroup(group ordergroups.Group) {
	for _, o := range m {
		o.PassedGroup(group)
	}
}

func (m Multi) SwitchToggleability(enabled bool) {
	for _, o := range m {
		o.SwitchToggleability(enabled)
	}
}

func (m Multi) WasActed(result plugin.Result) {
	for _, o := range m {
		o.WasActed(result)
	}
}

func (m Multi) WasStopped() {
	for _, o := range m {
		o.WasStopped()
	}
}

func (m Multi) WasFinished() {
	for _, o := range m {
		o.WasFinished()
	}
}

func (m Multi) WasSkipped(p *plugin.Plugin) {
	for _, o := range m {
		o.WasSkipped(p)
	}
}

func (m Multi) UnexpectedError(err error) {
	for _, o := range m {
		o.UnexpectedError(err)
	}
}
