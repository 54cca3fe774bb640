package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"fortest/internal/domain"
	"fortest/internal/storage"
)

// FailureViewer displays the last run's failures in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// View shows a failure list with details. Enter toggles a failure's
// resolved state (persisted back to storage), q quits.
func (v *FailureViewer) View(results *domain.RunOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetBorder(true).SetTitle(" Failed tests ")
	list.SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	itemText := func(i int) string {
		failure := results.Details[i]
		name := failure.TestName
		if name == "" {
			name = fmt.Sprintf("Test %d", i+1)
		}
		if failure.Resolved {
			return fmt.Sprintf("[gray]✓ %d. %s[white]", i+1, name)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", i+1, name)
	}
	for i := range results.Details {
		list.AddItem(itemText(i), "", 0, nil)
	}

	details := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	details.SetBorder(true).SetTitle(" Details ")

	showDetails := func(i int) {
		if i < 0 || i >= len(results.Details) {
			return
		}
		failure := results.Details[i]
		details.SetText(fmt.Sprintf(
			"[yellow]Test:[white] %s\n[yellow]File:[white] %s\n\n%s",
			failure.TestName, failure.FilePath, tview.Escape(failure.Message),
		))
	}
	list.SetChangedFunc(func(i int, _, _ string, _ rune) {
		showDetails(i)
	})
	showDetails(0)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(details, 0, 2, false)

	var viewErr error
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEnter:
			i := list.GetCurrentItem()
			if i >= 0 && i < len(results.Details) {
				results.Details[i].Resolved = !results.Details[i].Resolved
				list.SetItemText(i, itemText(i), "")
				if err := v.storage.SaveOutput(results); err != nil {
					viewErr = err
					app.Stop()
				}
			}
			return nil
		case event.Rune() == 'q', event.Key() == tcell.KeyEscape:
			app.Stop()
			return nil
		}
		return event
	})

	if err := app.SetRoot(flex, true).Run(); err != nil {
		return fmt.Errorf("failure viewer: %w", err)
	}
	return viewErr
}
