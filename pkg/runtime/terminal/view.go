package terminal

import (
	"fmt"
	"io"

	"github.com/de-tools/policy-report/pkg/services/render"
)

const processingMessage = "⏳ Processing policy file..."

// View writes uploader state to a terminal. Status lines go to status and
// the rendered page goes through the reporter.
type View struct {
	status   io.Writer
	reporter PageReporter
	tabs     *render.Tabs
	allTabs  bool

	spinner   bool
	renderErr error
}

// NewView prints a single panel when tab is set, otherwise every panel.
func NewView(status io.Writer, reporter PageReporter, tab render.Tab) (*View, error) {
	v := &View{
		status:   status,
		reporter: reporter,
		tabs:     render.NewTabs(),
		allTabs:  tab == "",
	}
	if tab != "" {
		if err := v.tabs.Activate(tab); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (v *View) ShowProcessing() {
	v.spinner = true
	fmt.Fprintln(v.status, processingMessage)
}

func (v *View) HideSpinner() {
	v.spinner = false
}

func (v *View) ShowError(msg string) {
	fmt.Fprintln(v.status, msg)
}

func (v *View) ShowSuccess(msg string) {
	fmt.Fprintln(v.status, msg)
}

func (v *View) ShowResults(page render.Page) {
	tab := v.tabs.Active()
	if v.allTabs {
		tab = ""
	}
	v.renderErr = v.reporter.Handle(&page, tab)
}

// SpinnerVisible reports whether a request is still being shown as running.
func (v *View) SpinnerVisible() bool {
	return v.spinner
}

// Err returns the error, if any, from printing the last page.
func (v *View) Err() error {
	return v.renderErr
}
