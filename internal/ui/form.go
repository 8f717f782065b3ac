package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ritualdetail/slotbook/internal/catalog"
	"github.com/ritualdetail/slotbook/internal/intake"
)

// focus positions after the text inputs
const (
	focusSlot = iota + 1000
	focusPackage
	focusCategory
)

var placeholders = map[intake.Field]string{
	intake.FieldFirstName:    "Asha",
	intake.FieldLastName:     "Rao",
	intake.FieldMobile:       "98450 12345",
	intake.FieldEmail:        "you@example.com",
	intake.FieldAddress:      "Flat, street, area",
	intake.FieldVehicleMake:  "Honda",
	intake.FieldVehicleModel: "City",
	intake.FieldVehicleYear:  "2019",
}

// detailsForm is the input surface for the details step. The record it edits
// lives in the workflow machine; the form only holds widgets and focus.
type detailsForm struct {
	inputs  []textinput.Model
	focus   int
	missing map[intake.Field]bool

	slot     intake.TimeSlot
	pkg      int // index into catalog packages, -1 for none
	category int // index into catalog.Categories, -1 for none
}

func newDetailsForm(r intake.Record, cat *catalog.Catalog) *detailsForm {
	f := &detailsForm{
		missing:  map[intake.Field]bool{},
		slot:     r.TimeSlot,
		pkg:      -1,
		category: -1,
	}

	for _, field := range intake.TextFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[field]
		in.CharLimit = 120
		in.Width = 32
		in.SetValue(r.Get(field))
		if field == intake.FieldVehicleYear {
			in.CharLimit = 4
		}
		f.inputs = append(f.inputs, in)
	}

	for i, p := range cat.Packages {
		if p.ID == r.Package {
			f.pkg = i
		}
	}
	for i, c := range catalog.Categories {
		if string(c) == r.Category {
			f.category = i
		}
	}

	f.setFocus(0)
	return f
}

func (f *detailsForm) order() []int {
	order := make([]int, 0, len(f.inputs)+3)
	for i := range f.inputs {
		order = append(order, i)
	}
	return append(order, focusSlot, focusPackage, focusCategory)
}

func (f *detailsForm) setFocus(target int) tea.Cmd {
	f.focus = target
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == target {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *detailsForm) move(delta int) tea.Cmd {
	order := f.order()
	pos := 0
	for i, o := range order {
		if o == f.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(order)) % len(order)
	return f.setFocus(order[pos])
}

// focusField moves focus to the text input for field.
func (f *detailsForm) focusField(field intake.Field) tea.Cmd {
	for i, tf := range intake.TextFields {
		if tf == field {
			return f.setFocus(i)
		}
	}
	return nil
}

// focusedField returns the text field with focus, if any.
func (f *detailsForm) focusedField() (intake.Field, bool) {
	if f.focus >= 0 && f.focus < len(f.inputs) {
		return intake.TextFields[f.focus], true
	}
	return "", false
}

// updateInput forwards a key to the focused input and reports the new value
// when it changed.
func (f *detailsForm) updateInput(msg tea.Msg) (string, bool, tea.Cmd) {
	if f.focus < 0 || f.focus >= len(f.inputs) {
		return "", false, nil
	}
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	after := f.inputs[f.focus].Value()
	if after == before {
		return "", false, cmd
	}
	delete(f.missing, intake.TextFields[f.focus])
	return after, true, cmd
}

// cycle steps the package or category choice; -1 means none.
func cycle(current, n, delta int) int {
	next := current + delta
	if next < -1 {
		return n - 1
	}
	if next >= n {
		return -1
	}
	return next
}

func (f *detailsForm) packageID(cat *catalog.Catalog) string {
	if f.pkg < 0 || f.pkg >= len(cat.Packages) {
		return ""
	}
	return cat.Packages[f.pkg].ID
}

func (f *detailsForm) categoryName() string {
	if f.category < 0 || f.category >= len(catalog.Categories) {
		return ""
	}
	return string(catalog.Categories[f.category])
}

func (f *detailsForm) markMissing(fields []intake.Field) {
	f.missing = map[intake.Field]bool{}
	for _, field := range fields {
		f.missing[field] = true
	}
}

func fieldLabels(fields []intake.Field) string {
	labels := make([]string, len(fields))
	for i, field := range fields {
		labels[i] = field.Label()
	}
	return strings.Join(labels, ", ")
}
