package ui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"agentforge/internal/sources"
)

// sourceMode is the active sub-editor on the sources panel.
type sourceMode int

const (
	modeMenu sourceMode = iota
	modeFile
	modeURL
	modeText
	modeTableName
	modeTableContent
	modeTableAdjust
)

// menu actions, in display order.
var sourceActions = []string{
	"Add file",
	"Add URL",
	"Add text entry",
	"Add table",
	"Continue",
}

// entryRef points at one staged item across the four collectors.
type entryRef struct {
	kind  string // file, url, text, table
	index int
	label string
}

// sourcesPanel drives the source collectors. The buffered data itself lives
// in the session's sources.Set; this struct owns widgets and cursors.
type sourcesPanel struct {
	styles Styles
	mode   sourceMode

	actionCursor int
	entryCursor  int
	onEntries    bool

	filePath textinput.Model

	urlInput   textinput.Model
	pagesInput textinput.Model
	recursive  bool
	urlFocus   int

	textTitle   textinput.Model
	textContent textarea.Model
	textFocus   int

	tableName    textinput.Model
	tablePath    textinput.Model
	tableContent textarea.Model
	tableFocus   int

	errMsg string
}

func newSourcesPanel(styles Styles) sourcesPanel {
	content := textarea.New()
	content.Placeholder = "Paste or type the content"
	content.SetWidth(60)
	content.SetHeight(6)

	tableContent := textarea.New()
	tableContent.Placeholder = "name,price\nWidget,9.99"
	tableContent.SetWidth(60)
	tableContent.SetHeight(6)

	return sourcesPanel{
		styles:       styles,
		filePath:     newInput(styles, "/path/to/document.pdf", 56),
		urlInput:     newInput(styles, "https://docs.example.com", 56),
		pagesInput:   newInput(styles, "10", 6),
		textTitle:    newInput(styles, "Entry title", 48),
		textContent:  content,
		tableName:    newInput(styles, "Price list", 48),
		tablePath:    newInput(styles, "Import from .csv or .xlsx (optional)", 56),
		tableContent: tableContent,
	}
}

func (p *sourcesPanel) reset() {
	fresh := newSourcesPanel(p.styles)
	*p = fresh
}

func (p *sourcesPanel) inEditor() bool { return p.mode != modeMenu }

func (p *sourcesPanel) closeEditor() {
	p.mode = modeMenu
	p.errMsg = ""
}

// entries flattens the staged items for list navigation.
func entries(set *sources.Set) []entryRef {
	var out []entryRef
	for i, line := range set.Files.RenderList() {
		out = append(out, entryRef{kind: "file", index: i, label: line})
	}
	for i, line := range set.URLs.RenderList() {
		out = append(out, entryRef{kind: "url", index: i, label: line})
	}
	for i, line := range set.Texts.RenderList() {
		out = append(out, entryRef{kind: "text", index: i, label: line})
	}
	for i, line := range set.Tables.RenderList() {
		out = append(out, entryRef{kind: "table", index: i, label: line})
	}
	return out
}

// handleKey processes one key. Returns done=true when the user chose
// Continue and the wizard should advance.
func (p *sourcesPanel) handleKey(msg tea.KeyMsg, set *sources.Set) (bool, tea.Cmd) {
	switch p.mode {
	case modeMenu:
		return p.handleMenuKey(msg.String(), set)
	case modeFile:
		return false, p.handleFileKey(msg, set)
	case modeURL:
		return false, p.handleURLKey(msg, set)
	case modeText:
		return false, p.handleTextKey(msg, set)
	case modeTableName, modeTableContent, modeTableAdjust:
		return false, p.handleTableKey(msg, set)
	}
	return false, nil
}

func (p *sourcesPanel) handleMenuKey(key string, set *sources.Set) (bool, tea.Cmd) {
	staged := entries(set)

	switch key {
	case "up", "k":
		if p.onEntries {
			if p.entryCursor > 0 {
				p.entryCursor--
			} else {
				p.onEntries = false
			}
		} else if p.actionCursor > 0 {
			p.actionCursor--
		}
	case "down", "j":
		if !p.onEntries {
			if p.actionCursor < len(sourceActions)-1 {
				p.actionCursor++
			} else if len(staged) > 0 {
				p.onEntries = true
				p.entryCursor = 0
			}
		} else if p.entryCursor < len(staged)-1 {
			p.entryCursor++
		}
	case "d", "delete", "backspace":
		if p.onEntries && p.entryCursor < len(staged) {
			ref := staged[p.entryCursor]
			switch ref.kind {
			case "file":
				set.Files.Remove(ref.index)
			case "url":
				set.URLs.Remove(ref.index)
			case "text":
				set.Texts.Remove(ref.index)
			case "table":
				set.Tables.Remove(ref.index)
			}
			if p.entryCursor > 0 {
				p.entryCursor--
			} else if len(entries(set)) == 0 {
				p.onEntries = false
			}
		}
	case "enter":
		if p.onEntries {
			return false, nil
		}
		return p.runAction(p.actionCursor)
	}
	return false, nil
}

func (p *sourcesPanel) runAction(i int) (bool, tea.Cmd) {
	p.errMsg = ""
	switch sourceActions[i] {
	case "Add file":
		p.mode = modeFile
		p.filePath.SetValue("")
		return false, p.filePath.Focus()
	case "Add URL":
		p.mode = modeURL
		p.urlInput.SetValue("")
		p.pagesInput.SetValue("")
		p.recursive = false
		p.urlFocus = 0
		p.pagesInput.Blur()
		return false, p.urlInput.Focus()
	case "Add text entry":
		p.mode = modeText
		p.textTitle.SetValue("")
		p.textContent.SetValue("")
		p.textFocus = 0
		p.textContent.Blur()
		return false, p.textTitle.Focus()
	case "Add table":
		p.mode = modeTableName
		p.tableName.SetValue("")
		p.tablePath.SetValue("")
		p.tableContent.SetValue("")
		return false, p.tableName.Focus()
	case "Continue":
		return true, nil
	}
	return false, nil
}

func (p *sourcesPanel) handleFileKey(msg tea.KeyMsg, set *sources.Set) tea.Cmd {
	if msg.String() == "enter" {
		if _, err := set.Files.Add(p.filePath.Value()); err != nil {
			p.errMsg = err.Error()
			return nil
		}
		p.closeEditor()
		return nil
	}
	var cmd tea.Cmd
	p.filePath, cmd = p.filePath.Update(msg)
	return cmd
}

func (p *sourcesPanel) handleURLKey(msg tea.KeyMsg, set *sources.Set) tea.Cmd {
	switch msg.String() {
	case "tab":
		p.urlFocus = (p.urlFocus + 1) % 3
		p.urlInput.Blur()
		p.pagesInput.Blur()
		switch p.urlFocus {
		case 0:
			return p.urlInput.Focus()
		case 2:
			return p.pagesInput.Focus()
		}
		return nil
	case " ":
		if p.urlFocus == 1 {
			p.recursive = !p.recursive
			return nil
		}
	case "enter":
		maxPages := 0
		if v := strings.TrimSpace(p.pagesInput.Value()); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				p.errMsg = "Max pages must be a positive number"
				return nil
			}
			maxPages = n
		}
		entry, err := set.URLs.Add(p.urlInput.Value(), p.recursive, maxPages)
		if err != nil {
			p.errMsg = err.Error()
			return nil
		}
		p.closeEditor()
		// Title lookup is cosmetic and runs in the background. The command
		// captures only the URL string; the result is applied in Update so
		// the staged list is never touched off the UI goroutine.
		return func() tea.Msg {
			return urlTitleMsg{url: entry.URL, title: sources.FetchTitle(context.Background(), entry.URL)}
		}
	}
	var cmd tea.Cmd
	switch p.urlFocus {
	case 0:
		p.urlInput, cmd = p.urlInput.Update(msg)
	case 2:
		p.pagesInput, cmd = p.pagesInput.Update(msg)
	}
	return cmd
}

func (p *sourcesPanel) handleTextKey(msg tea.KeyMsg, set *sources.Set) tea.Cmd {
	switch msg.String() {
	case "tab":
		p.textFocus = (p.textFocus + 1) % 2
		if p.textFocus == 0 {
			p.textContent.Blur()
			return p.textTitle.Focus()
		}
		p.textTitle.Blur()
		return p.textContent.Focus()
	case "ctrl+d":
		if _, err := set.Texts.Add(p.textTitle.Value(), p.textContent.Value()); err != nil {
			p.errMsg = err.Error()
			return nil
		}
		p.closeEditor()
		return nil
	case "enter":
		// Enter inside the content area is a newline; on the title it
		// moves to the content.
		if p.textFocus == 0 {
			p.textFocus = 1
			p.textTitle.Blur()
			return p.textContent.Focus()
		}
	}
	var cmd tea.Cmd
	if p.textFocus == 0 {
		p.textTitle, cmd = p.textTitle.Update(msg)
	} else {
		p.textContent, cmd = p.textContent.Update(msg)
	}
	return cmd
}

func (p *sourcesPanel) handleTableKey(msg tea.KeyMsg, set *sources.Set) tea.Cmd {
	switch p.mode {
	case modeTableName:
		if msg.String() == "enter" {
			if strings.TrimSpace(p.tableName.Value()) == "" {
				p.errMsg = "Table name is required"
				return nil
			}
			p.errMsg = ""
			p.mode = modeTableContent
			p.tableFocus = 0
			p.tableContent.Blur()
			return p.tablePath.Focus()
		}
		var cmd tea.Cmd
		p.tableName, cmd = p.tableName.Update(msg)
		return cmd

	case modeTableContent:
		switch msg.String() {
		case "tab":
			p.tableFocus = (p.tableFocus + 1) % 2
			if p.tableFocus == 0 {
				p.tableContent.Blur()
				return p.tablePath.Focus()
			}
			p.tablePath.Blur()
			return p.tableContent.Focus()
		case "ctrl+d":
			data, err := p.loadTableData()
			if err != nil {
				p.errMsg = err.Error()
				return nil
			}
			if err := set.Tables.ImportDraft(data); err != nil {
				p.errMsg = err.Error()
				return nil
			}
			p.errMsg = ""
			p.mode = modeTableAdjust
			return nil
		case "enter":
			if p.tableFocus == 0 {
				// Enter on the path field confirms the import.
				data, err := p.loadTableData()
				if err != nil {
					p.errMsg = err.Error()
					return nil
				}
				if err := set.Tables.ImportDraft(data); err != nil {
					p.errMsg = err.Error()
					return nil
				}
				p.errMsg = ""
				p.mode = modeTableAdjust
				return nil
			}
		}
		var cmd tea.Cmd
		if p.tableFocus == 0 {
			p.tablePath, cmd = p.tablePath.Update(msg)
		} else {
			p.tableContent, cmd = p.tableContent.Update(msg)
		}
		return cmd

	case modeTableAdjust:
		var err error
		switch msg.String() {
		case "c":
			err = set.Tables.AddColumn()
		case "C":
			err = set.Tables.RemoveColumn()
		case "r":
			err = set.Tables.AddRow()
		case "R":
			err = set.Tables.RemoveRow()
		case "enter":
			if _, err := set.Tables.Add(p.tableName.Value()); err != nil {
				p.errMsg = err.Error()
				return nil
			}
			p.closeEditor()
			return nil
		}
		if err != nil {
			p.errMsg = err.Error()
		} else {
			p.errMsg = ""
		}
	}
	return nil
}

// loadTableData resolves the table content. An import file wins over pasted
// text; anything that is not .xlsx is treated as CSV.
func (p *sourcesPanel) loadTableData() (sources.TableData, error) {
	path := strings.TrimSpace(p.tablePath.Value())
	if path != "" {
		if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
			return sources.ImportXLSX(path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return sources.TableData{}, fmt.Errorf("cannot read %s: %w", path, err)
		}
		return sources.ParseCSV(string(raw))
	}
	return sources.ParseCSV(p.tableContent.Value())
}

func (p *sourcesPanel) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.filePath, cmd = p.filePath.Update(msg)
	cmds = append(cmds, cmd)
	p.urlInput, cmd = p.urlInput.Update(msg)
	cmds = append(cmds, cmd)
	p.textContent, cmd = p.textContent.Update(msg)
	cmds = append(cmds, cmd)
	p.tableContent, cmd = p.tableContent.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// view renders the sources panel for the current mode.
func (p *sourcesPanel) view(set *sources.Set) string {
	s := p.styles
	var b strings.Builder

	switch p.mode {
	case modeFile:
		b.WriteString(s.Label.Render("File path") + "\n" + p.filePath.View() + "\n\n")
		b.WriteString(s.Muted.Render("enter add · esc cancel"))

	case modeURL:
		b.WriteString(s.Label.Render("URL") + "\n" + p.urlInput.View() + "\n\n")
		check := "[ ]"
		if p.recursive {
			check = "[x]"
		}
		recLine := fmt.Sprintf("%s Crawl linked pages", check)
		if p.urlFocus == 1 {
			recLine = s.Selected.Render("> " + recLine)
		} else {
			recLine = "  " + recLine
		}
		b.WriteString(recLine + "\n")
		b.WriteString(s.Label.Render("Max pages") + " " + p.pagesInput.View() + "\n\n")
		b.WriteString(s.Muted.Render("tab fields · space toggle crawl · enter add · esc cancel"))

	case modeText:
		b.WriteString(s.Label.Render("Title") + "\n" + p.textTitle.View() + "\n\n")
		b.WriteString(s.Label.Render("Content") + "\n" + p.textContent.View() + "\n\n")
		b.WriteString(s.Muted.Render("tab switch · ctrl+d save · esc cancel"))

	case modeTableName:
		b.WriteString(s.Label.Render("Table name") + "\n" + p.tableName.View() + "\n\n")
		b.WriteString(s.Muted.Render("enter continue · esc cancel"))

	case modeTableContent:
		b.WriteString(s.Label.Render("Import file") + "\n" + p.tablePath.View() + "\n\n")
		b.WriteString(s.Label.Render("Or paste CSV") + "\n" + p.tableContent.View() + "\n\n")
		b.WriteString(s.Muted.Render("tab switch · ctrl+d parse · esc cancel"))

	case modeTableAdjust:
		if draft := set.Tables.Draft(); draft != nil {
			b.WriteString(s.Label.Render("Table preview") + "  " + s.Badge.Render(draft.Summary()) + "\n\n")
			b.WriteString(draft.Markdown() + "\n\n")
		}
		b.WriteString(s.Muted.Render("c/C add/remove column · r/R add/remove row · enter save · esc cancel"))

	default:
		b.WriteString(s.Label.Render("Knowledge sources") + "\n\n")
		for i, action := range sourceActions {
			if !p.onEntries && i == p.actionCursor {
				b.WriteString(s.Selected.Render("> "+action) + "\n")
			} else {
				b.WriteString("  " + action + "\n")
			}
		}
		staged := entries(set)
		if len(staged) > 0 {
			b.WriteString("\n" + s.Label.Render("Staged") + "\n")
			for i, ref := range staged {
				if p.onEntries && i == p.entryCursor {
					b.WriteString(s.Selected.Render("> "+ref.label) + "\n")
				} else {
					b.WriteString("  " + ref.label + "\n")
				}
			}
		}
		b.WriteString("\n" + s.Muted.Render("enter choose · d remove staged · ctrl+k skip step"))
	}

	if p.errMsg != "" {
		b.WriteString("\n" + s.Error.Render(p.errMsg))
	}
	return b.String()
}
