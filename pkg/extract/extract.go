package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/identity-intake/pkg/model"
)

// Field labels as they appear in intake text. They are matched verbatim.
const (
	LabelName       = "Numele"
	LabelGivenName  = "Prenumele"
	LabelBirthDate  = "Data nașterii"
	LabelAddress    = "Adresa"
	LabelNationalID = "CNP"
)

// Labels lists the required labels in the order they are extracted.
var Labels = []string{
	LabelName,
	LabelGivenName,
	LabelBirthDate,
	LabelAddress,
	LabelNationalID,
}

var (
	// ErrMissingDelimiter is returned when a line carries a label but no colon.
	ErrMissingDelimiter = errors.New("label line has no ':' delimiter")

	// ErrIncomplete is returned by Record when a required field is absent or empty.
	ErrIncomplete = errors.New("failed to extract all required fields")
)

// FieldError identifies the label that failed extraction.
type FieldError struct {
	Label string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Label, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Field returns the value of the first line in text containing label.
// found is false when no line contains the label.
func Field(text, label string) (value string, found bool, err error) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, label) {
			continue
		}
		_, after, ok := strings.Cut(line, ":")
		if !ok {
			return "", true, &FieldError{Label: label, Err: ErrMissingDelimiter}
		}
		return strings.TrimSpace(after), true, nil
	}
	return "", false, nil
}

// Record extracts all required fields from text.
func Record(text string) (model.Record, error) {
	values := make(map[string]string, len(Labels))
	for _, label := range Labels {
		value, found, err := Field(text, label)
		if err != nil {
			return model.Record{}, err
		}
		if !found || value == "" {
			return model.Record{}, &FieldError{Label: label, Err: ErrIncomplete}
		}
		values[label] = value
	}

	return model.Record{
		Name:       values[LabelName],
		GivenName:  values[LabelGivenName],
		BirthDate:  values[LabelBirthDate],
		Address:    values[LabelAddress],
		NationalID: values[LabelNationalID],
	}, nil
}
