package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// ListEntry is one row of a ListPanel.
type ListEntry struct {
	Index int
	Name  string
}

// ListPanel is a titled list whose selection follows the session. Selecting
// a row by hand calls onSelected; syncing it from the session does not.
type ListPanel struct {
	list     *widget.List
	entries  []any
	selected int

	// suppressEvents is set while the list is changed programmatically.
	suppressEvents bool
}

func addListPanel(parent *widget.Container, fontFace *text.Face, title string, names []string, minHeight int, onSelected func(idx int)) *ListPanel {
	lp := &ListPanel{selected: -1}

	label := widget.NewLabel(
		widget.LabelOpts.Text(title, fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	)
	parent.AddChild(label)

	lp.entries = make([]any, len(names))
	for i, name := range names {
		lp.entries[i] = ListEntry{Index: i, Name: name}
	}

	lp.list = widget.NewList(
		widget.ListOpts.Entries(lp.entries),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(ListEntry); ok {
				return fmt.Sprintf("%d. %s", entry.Index+1, entry.Name)
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(ListEntry)
			if !ok || lp.suppressEvents {
				return
			}
			lp.selected = entry.Index
			if onSelected != nil {
				onSelected(entry.Index)
			}
		}),
	)
	lp.list.GetWidget().MinHeight = minHeight
	parent.AddChild(lp.list)
	return lp
}

// SetSelected highlights row idx without reporting it back.
func (lp *ListPanel) SetSelected(idx int) {
	if lp == nil || lp.list == nil || idx == lp.selected {
		return
	}
	if idx < 0 || idx >= len(lp.entries) {
		return
	}
	lp.suppressEvents = true
	lp.list.SetSelectedEntry(lp.entries[idx])
	lp.suppressEvents = false
	lp.selected = idx
}
