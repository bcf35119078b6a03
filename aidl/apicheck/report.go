package apicheck

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/aidl/aidl"
)

// Item is one incompatibility.
type Item struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

func (i Item) String() string {
	if i.Location == "" {
		return i.Message
	}
	return i.Location + ": " + i.Message
}

// Report is the outcome of Check in a form that can be written out.
type Report struct {
	Compatible        bool   `json:"compatible"`
	Incompatibilities []Item `json:"incompatibilities,omitempty"`
}

// NewReport turns the error returned by Check into a report.
func NewReport(err error) Report {
	r := Report{Compatible: err == nil}
	for _, d := range aidl.Diagnostics(err) {
		item := Item{Message: d.Message}
		if d.Location.File != "" {
			item.Location = d.Location.String()
		}
		r.Incompatibilities = append(r.Incompatibilities, item)
	}
	return r
}

// WriteText writes one line per incompatibility.
func (r Report) WriteText(w io.Writer) error {
	for _, item := range r.Incompatibilities {
		if _, err := fmt.Fprintln(w, item.String()); err != nil {
			return err
		}
	}
	return nil
}

func (r Report) WriteJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	e.SetEscapeHTML(false)
	e.SetIndent("", "  ")
	if err := e.Encode(r); err != nil {
		return fmt.Errorf("while writing JSON: %w", err)
	}
	return nil
}
