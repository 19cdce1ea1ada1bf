// Package submit drains a finalized wizard session into the backend. The
// tool record goes first and must succeed; every staged source item after it
// is best-effort: failures are collected per item and reported as a summary,
// never silently swallowed, and never rolled back.
package submit

import (
	"context"
	"fmt"
	"strings"

	"agentforge/internal/api"
	"agentforge/internal/logging"
	"agentforge/internal/wizard"
)

// Phase names as shown in progress reporting.
const (
	PhaseTool   = "tool"
	PhaseFiles  = "files"
	PhaseURLs   = "urls"
	PhaseTexts  = "texts"
	PhaseTables = "tables"
)

// Progress is one progress tick. Percent is monotonic across the whole run,
// weighted by item counts: the tool record is one unit, each source item one
// more.
type Progress struct {
	Percent float64
	Phase   string
	Detail  string
}

// ProgressFunc receives progress ticks. May be nil.
type ProgressFunc func(Progress)

// ItemError records one failed source item.
type ItemError struct {
	Phase string
	Item  string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Phase, e.Item, e.Err)
}

// Result is the pipeline outcome. A non-nil Result with ItemErrors means the
// tool record exists but some sources did not make it.
type Result struct {
	ToolID     string
	Created    bool // false when updating an existing tool
	ItemErrors []ItemError
}

// Summary renders a human-readable outcome for the final screen.
func (r Result) Summary() string {
	var b strings.Builder
	if r.Created {
		fmt.Fprintf(&b, "Tool %s created.", r.ToolID)
	} else {
		fmt.Fprintf(&b, "Tool %s updated.", r.ToolID)
	}
	if len(r.ItemErrors) == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, " %d source item(s) failed:", len(r.ItemErrors))
	for _, ie := range r.ItemErrors {
		fmt.Fprintf(&b, "\n  - %s", ie.Error())
	}
	return b.String()
}

// Pipeline submits wizard sessions through one API client.
type Pipeline struct {
	client *api.Client
	report ProgressFunc
}

// New creates a pipeline. report may be nil.
func New(client *api.Client, report ProgressFunc) *Pipeline {
	return &Pipeline{client: client, report: report}
}

// Run persists the session: tool record, then files, urls, texts and tables
// strictly in that order, items in insertion order within each phase. The
// returned error is non-nil only when the tool record itself failed; partial
// source failures come back inside the Result.
func (p *Pipeline) Run(ctx context.Context, st *wizard.State) (Result, error) {
	timer := logging.StartTimer(logging.CategorySubmit, "submission")
	defer timer.Stop()

	total := 1 + st.Sources.TotalCount()
	done := 0
	tick := func(phase, detail string) {
		done++
		if p.report != nil {
			p.report(Progress{
				Percent: float64(done) / float64(total) * 100,
				Phase:   phase,
				Detail:  detail,
			})
		}
	}

	result := Result{Created: st.EditingID == ""}

	req := buildRequest(st)
	if st.EditingID == "" {
		id, err := p.client.CreateTool(ctx, req)
		if err != nil {
			logging.SubmitError("tool create failed: %v", err)
			return Result{}, err
		}
		result.ToolID = id
	} else {
		if err := p.client.UpdateTool(ctx, st.EditingID, req); err != nil {
			logging.SubmitError("tool update failed: %v", err)
			return Result{}, err
		}
		result.ToolID = st.EditingID
	}
	tick(PhaseTool, st.Name())

	fail := func(phase, item string, err error) {
		logging.SubmitError("%s %q failed: %v", phase, item, err)
		result.ItemErrors = append(result.ItemErrors, ItemError{Phase: phase, Item: item, Err: err})
	}

	for _, f := range st.Sources.Files.Items() {
		if err := p.client.UploadDocument(ctx, result.ToolID, f.Path); err != nil {
			fail(PhaseFiles, f.Name, err)
		}
		tick(PhaseFiles, f.Name)
	}
	for _, u := range st.Sources.URLs.Items() {
		if err := p.client.Scrape(ctx, result.ToolID, u.URL, u.Recursive, u.MaxPages); err != nil {
			fail(PhaseURLs, u.URL, err)
		}
		tick(PhaseURLs, u.URL)
	}
	for _, t := range st.Sources.Texts.Items() {
		if err := p.client.AddTextEntry(ctx, result.ToolID, t.Title, t.Content); err != nil {
			fail(PhaseTexts, t.Title, err)
		}
		tick(PhaseTexts, t.Title)
	}
	for _, t := range st.Sources.Tables.Items() {
		payload := api.TablePayload{Headers: t.Data.Headers, Rows: t.Data.Rows}
		if err := p.client.AddTableEntry(ctx, result.ToolID, t.Name, t.Data.Markdown(), payload); err != nil {
			fail(PhaseTables, t.Name, err)
		}
		tick(PhaseTables, t.Name)
	}

	logging.Submit("submission finished: tool=%s item_errors=%d", result.ToolID, len(result.ItemErrors))
	return result, nil
}

// buildRequest flattens the session into the tool record body.
func buildRequest(st *wizard.State) api.ToolRequest {
	payload := st.Access.Save()
	return api.ToolRequest{
		Type:              string(st.Type),
		Name:              st.Name(),
		Description:       st.Description(),
		Config:            st.Config(),
		AccessType:        string(payload.AccessType),
		AllowedUserIDs:    payload.AllowedUserIDs,
		AllowedGroupIDs:   payload.AllowedGroupIDs,
		CanEditUserIDs:    payload.CanEditIDs,
		CanDeleteUserIDs:  payload.CanDeleteIDs,
		CanExecuteUserIDs: payload.CanExecuteIDs,
	}
}
