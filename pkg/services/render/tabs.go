package render

import "fmt"

type Tab string

const (
	TabResults      Tab = "results"
	TabMetrics      Tab = "metrics"
	TabFormulas     Tab = "formulas"
	TabExtracted    Tab = "extracted"
	TabParsed       Tab = "parsed"
	TabCalculated   Tab = "calculated"
	TabExplanations Tab = "explanations"
)

var allTabs = []Tab{
	TabResults,
	TabMetrics,
	TabFormulas,
	TabExtracted,
	TabParsed,
	TabCalculated,
	TabExplanations,
}

// Tabs tracks which of the mutually exclusive panels is active.
type Tabs struct {
	active Tab
}

func NewTabs() *Tabs {
	return &Tabs{active: TabResults}
}

func AllTabs() []Tab {
	return append([]Tab(nil), allTabs...)
}

func ParseTab(name string) (Tab, error) {
	for _, t := range allTabs {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q (must be one of %v)", name, allTabs)
}

// Activate makes tab the only active panel.
func (t *Tabs) Activate(tab Tab) error {
	if _, err := ParseTab(string(tab)); err != nil {
		return err
	}
	t.active = tab
	return nil
}

func (t *Tabs) Active() Tab {
	return t.active
}

func (t *Tabs) IsActive(tab Tab) bool {
	return t.active == tab
}
