package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/hylla/datefield/internal/calendar"
)

// Submission is one persisted snapshot of a submitted form.
type Submission struct {
	ID          string
	FormName    string
	Values      []FieldValue
	SubmittedAt time.Time
}

// NewSubmission validates captured values: each must be empty or a canonical date.
func NewSubmission(id, formName string, values []FieldValue, now time.Time) (Submission, error) {
	id = strings.TrimSpace(id)
	formName = strings.TrimSpace(formName)
	if id == "" {
		return Submission{}, ErrInvalidID
	}
	if formName == "" {
		return Submission{}, ErrInvalidName
	}
	out := make([]FieldValue, 0, len(values))
	for _, v := range values {
		v.Name = strings.TrimSpace(v.Name)
		v.Value = strings.TrimSpace(v.Value)
		if v.Name == "" {
			return Submission{}, ErrInvalidFieldName
		}
		if v.Value != "" {
			if _, ok := calendar.ParseISO(v.Value); !ok {
				return Submission{}, fmt.Errorf("%w: %s = %q", ErrInvalidDate, v.Name, v.Value)
			}
		}
		out = append(out, v)
	}
	return Submission{
		ID:          id,
		FormName:    formName,
		Values:      out,
		SubmittedAt: now.UTC(),
	}, nil
}

// Value returns the captured value for name.
func (s Submission) Value(name string) (string, bool) {
	for _, v := range s.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}
