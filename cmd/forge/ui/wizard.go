package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"agentforge/internal/access"
	"agentforge/internal/api"
	"agentforge/internal/catalog"
	"agentforge/internal/logging"
	"agentforge/internal/submit"
	"agentforge/internal/wizard"
)

// Messages exchanged with background commands.
type (
	directoryMsg struct {
		dir access.Directory
		err error
	}
	progressTickMsg submit.Progress
	submitDoneMsg   struct {
		result submit.Result
		err    error
	}
	urlTitleMsg struct{ url, title string }
)

// typeItem adapts a catalog entry to the bubbles list.
type typeItem struct{ meta catalog.Meta }

func (i typeItem) Title() string       { return i.meta.DisplayName }
func (i typeItem) Description() string { return i.meta.Description }
func (i typeItem) FilterValue() string { return i.meta.DisplayName }

type typeDelegate struct{ styles Styles }

func (d typeDelegate) Height() int                             { return 2 }
func (d typeDelegate) Spacing() int                            { return 0 }
func (d typeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d typeDelegate) Render(w io.Writer, m list.Model, index int, it list.Item) {
	i, ok := it.(typeItem)
	if !ok {
		return
	}
	line := fmt.Sprintf("%s\n  %s", i.meta.DisplayName, i.meta.Description)
	if index == m.Index() {
		fmt.Fprint(w, d.styles.Selected.Render("> "+i.meta.DisplayName)+"\n  "+d.styles.Muted.Render(i.meta.Description))
		return
	}
	fmt.Fprint(w, d.styles.Unselected.PaddingLeft(2).Render(line))
}

// Model is the top-level bubbletea model for the tool wizard. All wizard
// semantics live in the machine; the model only owns widgets and key routing.
type Model struct {
	styles  Styles
	machine *wizard.Machine
	client  *api.Client

	width  int
	height int

	typeList list.Model
	basics   basicsForm
	config   configForm
	sources  sourcesPanel
	access   accessPanel

	reviewBody string

	errMsg     string
	confirming bool

	spin       spinner.Model
	prog       progress.Model
	progressCh chan submit.Progress
	lastProg   submit.Progress
	result     submit.Result
	doneMsg    string
}

// NewModel builds the wizard starting at type selection.
func NewModel(client *api.Client, styles Styles) *Model {
	items := make([]list.Item, 0, len(catalog.All()))
	for _, meta := range catalog.All() {
		items = append(items, typeItem{meta})
	}
	tl := list.New(items, typeDelegate{styles}, 60, 20)
	tl.Title = "What kind of tool do you want to create?"
	tl.SetShowStatusBar(false)
	tl.SetFilteringEnabled(false)
	tl.Styles.Title = styles.Title

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return &Model{
		styles:   styles,
		machine:  wizard.NewMachine(),
		client:   client,
		typeList: tl,
		access:   newAccessPanel(styles),
		sources:  newSourcesPanel(styles),
		spin:     sp,
		prog:     progress.New(progress.WithDefaultGradient()),
	}
}

// NewEditModel builds the wizard resumed at step 1 of an existing tool.
func NewEditModel(client *api.Client, styles Styles, st *wizard.State) *Model {
	m := NewModel(client, styles)
	m.machine.Resume(st)
	m.basics = newBasicsForm(styles, st)
	m.config = newConfigForm(styles, st)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchDirectory(), m.spin.Tick)
}

// fetchDirectory loads users and groups for the access panel up front so
// search is instant once the user gets there.
func (m *Model) fetchDirectory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()
		dir, err := m.client.FetchDirectory(ctx)
		return directoryMsg{dir: dir, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.typeList.SetSize(max(40, msg.Width-8), max(10, msg.Height-8))
		m.prog.Width = max(20, msg.Width-12)
		return m, nil

	case directoryMsg:
		if msg.err != nil {
			logging.AccessDebug("directory fetch failed: %v", msg.err)
			// The access panel degrades to manual entry of nothing;
			// searching an empty directory simply yields no results.
			return m, nil
		}
		m.access.setDirectory(msg.dir)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd

	case progressTickMsg:
		m.lastProg = submit.Progress(msg)
		return m, tea.Batch(m.prog.SetPercent(m.lastProg.Percent/100), waitProgress(m.progressCh))

	case submitDoneMsg:
		m.machine.FinishSubmit(msg.err)
		if msg.err != nil {
			m.errMsg = serverErrorText(msg.err)
			return m, nil
		}
		m.result = msg.result
		m.doneMsg = msg.result.Summary()
		return m, nil

	case urlTitleMsg:
		// Applied here, on the update goroutine. SetTitle matches by URL
		// and ignores results for entries removed while the lookup ran.
		if st := m.machine.State(); st != nil {
			st.Sources.URLs.SetTitle(msg.url, msg.title)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.routeToPanel(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The quit confirmation overlay swallows everything.
	if m.confirming {
		switch msg.String() {
		case "y", "Y":
			m.machine.Cancel(true)
			return m, tea.Quit
		case "n", "N", "esc":
			m.machine.Cancel(false)
			m.confirming = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		if m.machine.Phase() == wizard.PhaseStep {
			m.confirming = true
			return m, nil
		}
		return m, tea.Quit
	}

	switch m.machine.Phase() {
	case wizard.PhaseTypeSelection:
		return m.updateTypeSelection(msg)
	case wizard.PhaseStep:
		return m.updateStep(msg)
	case wizard.PhaseSubmitting:
		// Submission cannot be interrupted short of ctrl+c.
		return m, nil
	case wizard.PhaseSubmitted, wizard.PhaseCancelled:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateTypeSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		item, ok := m.typeList.SelectedItem().(typeItem)
		if !ok {
			return m, nil
		}
		if err := m.machine.SelectType(item.meta.Type); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		st := m.machine.State()
		m.basics = newBasicsForm(m.styles, st)
		m.config = newConfigForm(m.styles, st)
		m.sources.reset()
		m.access.reset()
		m.errMsg = ""
		return m, m.basics.focusCmd()
	}
	var cmd tea.Cmd
	m.typeList, cmd = m.typeList.Update(msg)
	return m, cmd
}

func (m *Model) updateStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.machine.State()

	// Panel-local editing modes (sources sub-editors, access search) own
	// most keys; esc and the explicit nav chords stay global.
	switch msg.String() {
	case "esc":
		if m.sources.inEditor() && st.CurrentPanel() == wizard.PanelSources {
			m.sources.closeEditor()
			return m, nil
		}
		m.errMsg = ""
		m.machine.Back()
		if m.machine.Phase() == wizard.PhaseStep {
			return m, m.focusPanel()
		}
		return m, nil

	case "ctrl+n":
		return m.advance()

	case "ctrl+k":
		if st.CurrentPanel() == wizard.PanelSources {
			if err := m.machine.Skip(); err == nil {
				m.errMsg = ""
				return m, m.focusPanel()
			}
		}
		return m, nil
	}

	switch st.CurrentPanel() {
	case wizard.PanelBasics:
		return m.updateBasics(msg)
	case wizard.PanelConfig:
		return m.updateConfig(msg)
	case wizard.PanelSources:
		return m.updateSources(msg)
	case wizard.PanelAccess:
		return m.updateAccess(msg)
	case wizard.PanelReview:
		return m.updateReview(msg)
	}
	return m, nil
}

// advance copies panel inputs into the state and asks the machine to move
// forward. Validation failures surface inline and stay on the panel.
func (m *Model) advance() (tea.Model, tea.Cmd) {
	m.syncPanel()
	err := m.machine.Next()
	if err == nil {
		m.errMsg = ""
		if m.machine.State().CurrentPanel() == wizard.PanelReview {
			m.renderReview()
		}
		return m, m.focusPanel()
	}
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		m.errMsg = verr.Message
		return m, nil
	}
	if errors.Is(err, wizard.ErrAtFinalStep) {
		return m.beginSubmit()
	}
	m.errMsg = err.Error()
	return m, nil
}

// syncPanel flushes the active panel's widget values into the wizard state.
func (m *Model) syncPanel() {
	st := m.machine.State()
	switch st.CurrentPanel() {
	case wizard.PanelBasics:
		m.basics.sync(st)
	case wizard.PanelConfig:
		m.config.sync(st)
	}
}

// focusPanel gives keyboard focus to whatever the new current panel needs.
func (m *Model) focusPanel() tea.Cmd {
	switch m.machine.State().CurrentPanel() {
	case wizard.PanelBasics:
		return m.basics.focusCmd()
	case wizard.PanelConfig:
		return m.config.focusCmd()
	}
	return nil
}

func (m *Model) beginSubmit() (tea.Model, tea.Cmd) {
	if err := m.machine.BeginSubmit(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	st := m.machine.State()
	ch := make(chan submit.Progress, 16)
	m.progressCh = ch
	pipe := submit.New(m.client, func(p submit.Progress) { ch <- p })
	run := func() tea.Msg {
		res, err := pipe.Run(context.Background(), st)
		close(ch)
		return submitDoneMsg{result: res, err: err}
	}
	return m, tea.Batch(m.spin.Tick, waitProgress(ch), run)
}

func waitProgress(ch chan submit.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressTickMsg(p)
	}
}

// routeToPanel forwards non-key messages (blink ticks etc.) to the active
// widgets so cursors keep blinking.
func (m *Model) routeToPanel(msg tea.Msg) tea.Cmd {
	if m.machine.Phase() != wizard.PhaseStep {
		return nil
	}
	switch m.machine.State().CurrentPanel() {
	case wizard.PanelBasics:
		return m.basics.update(msg)
	case wizard.PanelConfig:
		return m.config.update(msg)
	case wizard.PanelSources:
		return m.sources.update(msg)
	case wizard.PanelAccess:
		return m.access.update(msg)
	}
	return nil
}

// serverErrorText keeps submission errors short enough for the footer.
func serverErrorText(err error) string {
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i > 0 {
		s = s[:i]
	}
	return s
}
