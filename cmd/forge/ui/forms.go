package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"agentforge/internal/catalog"
	"agentforge/internal/wizard"
)

// newInput builds a textinput in the house style.
func newInput(styles Styles, placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.Placeholder = placeholder
	ti.Width = width
	return ti
}

// basicsForm is the name/description pair every tool type starts with.
type basicsForm struct {
	styles Styles
	inputs []textinput.Model
	labels []string
	focus  int
}

func newBasicsForm(styles Styles, st *wizard.State) basicsForm {
	name := newInput(styles, "My weather tool", 48)
	name.SetValue(st.Name())
	name.CharLimit = 120

	desc := newInput(styles, "What this tool is for (optional)", 64)
	desc.SetValue(st.Description())

	return basicsForm{
		styles: styles,
		inputs: []textinput.Model{name, desc},
		labels: []string{"Name", "Description"},
	}
}

func (f *basicsForm) sync(st *wizard.State) {
	st.SetField("name", f.inputs[0].Value())
	st.SetField("description", f.inputs[1].Value())
}

func (f *basicsForm) focusCmd() tea.Cmd {
	return focusIndex(f.inputs, &f.focus, f.focus)
}

func (f *basicsForm) cycle(back bool) tea.Cmd {
	return cycleFocus(f.inputs, &f.focus, back)
}

func (f *basicsForm) update(msg tea.Msg) tea.Cmd {
	return updateInputs(f.inputs, msg)
}

// configForm renders the catalog-declared fields for the selected type.
// Secret fields echo as asterisks.
type configForm struct {
	styles Styles
	fields []catalog.Field
	inputs []textinput.Model
	focus  int
}

func newConfigForm(styles Styles, st *wizard.State) configForm {
	fields := st.Meta.Fields
	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		ti := newInput(styles, field.Placeholder, 56)
		ti.SetValue(st.Field(field.Key))
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		inputs[i] = ti
	}
	return configForm{styles: styles, fields: fields, inputs: inputs}
}

func (f *configForm) sync(st *wizard.State) {
	for i, field := range f.fields {
		st.SetField(field.Key, f.inputs[i].Value())
	}
}

func (f *configForm) focusCmd() tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	return focusIndex(f.inputs, &f.focus, f.focus)
}

func (f *configForm) cycle(back bool) tea.Cmd {
	return cycleFocus(f.inputs, &f.focus, back)
}

func (f *configForm) update(msg tea.Msg) tea.Cmd {
	return updateInputs(f.inputs, msg)
}

// focusIndex focuses input i and blurs the rest.
func focusIndex(inputs []textinput.Model, focus *int, i int) tea.Cmd {
	if len(inputs) == 0 {
		return nil
	}
	if i < 0 || i >= len(inputs) {
		i = 0
	}
	*focus = i
	var cmd tea.Cmd
	for j := range inputs {
		if j == i {
			cmd = inputs[j].Focus()
		} else {
			inputs[j].Blur()
		}
	}
	return cmd
}

// cycleFocus moves focus to the next (or previous) input, wrapping.
func cycleFocus(inputs []textinput.Model, focus *int, back bool) tea.Cmd {
	if len(inputs) == 0 {
		return nil
	}
	next := *focus + 1
	if back {
		next = *focus - 1
	}
	if next >= len(inputs) {
		next = 0
	}
	if next < 0 {
		next = len(inputs) - 1
	}
	return focusIndex(inputs, focus, next)
}

func updateInputs(inputs []textinput.Model, msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(inputs))
	for i := range inputs {
		inputs[i], cmds[i] = inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}
