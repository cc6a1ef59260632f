package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/identity-intake/pkg/model"
)

const sampleText = "Numele: Popescu\nPrenumele: Ion\nData nașterii: 1990-01-01\nAdresa: Str. X\nCNP: 1234567890123"

func TestField(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		label     string
		wantValue string
		wantFound bool
		wantErr   error
	}{
		{
			name:      "simple value",
			text:      sampleText,
			label:     LabelName,
			wantValue: "Popescu",
			wantFound: true,
		},
		{
			name:      "label with diacritics",
			text:      sampleText,
			label:     LabelBirthDate,
			wantValue: "1990-01-01",
			wantFound: true,
		},
		{
			name:      "surrounding whitespace is trimmed",
			text:      "CNP:    1234567890123   \r\n",
			label:     LabelNationalID,
			wantValue: "1234567890123",
			wantFound: true,
		},
		{
			name:      "everything after the first colon is kept",
			text:      "Adresa: Str. X nr. 5: ap. 3",
			label:     LabelAddress,
			wantValue: "Str. X nr. 5: ap. 3",
			wantFound: true,
		},
		{
			name:      "first matching line wins",
			text:      "CNP: 111\nCNP: 222",
			label:     LabelNationalID,
			wantValue: "111",
			wantFound: true,
		},
		{
			name:      "label matched anywhere in the line",
			text:      "Seria si CNP-ul: 999",
			label:     LabelNationalID,
			wantValue: "999",
			wantFound: true,
		},
		{
			name:      "name label does not match inside given name label",
			text:      "Prenumele: Ion",
			label:     LabelName,
			wantFound: false,
		},
		{
			name:      "absent label",
			text:      "Prenumele: Ion",
			label:     LabelAddress,
			wantFound: false,
		},
		{
			name:      "empty value",
			text:      "Adresa:   ",
			label:     LabelAddress,
			wantValue: "",
			wantFound: true,
		},
		{
			name:      "missing delimiter",
			text:      "CNP 1234567890123",
			label:     LabelNationalID,
			wantFound: true,
			wantErr:   ErrMissingDelimiter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found, err := Field(tt.text, tt.label)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				var fieldErr *FieldError
				require.True(t, errors.As(err, &fieldErr))
				assert.Equal(t, tt.label, fieldErr.Label)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestRecord(t *testing.T) {
	rec, err := Record(sampleText)
	require.NoError(t, err)
	assert.Equal(t, model.Record{
		Name:       "Popescu",
		GivenName:  "Ion",
		BirthDate:  "1990-01-01",
		Address:    "Str. X",
		NationalID: "1234567890123",
	}, rec)
}

func TestRecord_Incomplete(t *testing.T) {
	for _, label := range Labels {
		t.Run("without "+label, func(t *testing.T) {
			text := ""
			for _, other := range Labels {
				if other != label {
					text += other + ": value\n"
				}
			}

			_, err := Record(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIncomplete))

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, label, fieldErr.Label)
		})
	}
}

func TestRecord_EmptyValue(t *testing.T) {
	text := "Numele: Popescu\nPrenumele:\nData nașterii: 1990-01-01\nAdresa: Str. X\nCNP: 1"

	_, err := Record(text)
	assert.True(t, errors.Is(err, ErrIncomplete))
}

func TestRecord_MissingDelimiter(t *testing.T) {
	text := "Numele: Popescu\nPrenumele: Ion\nData nașterii 1990-01-01\nAdresa: Str. X\nCNP: 1"

	_, err := Record(text)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDelimiter))
	assert.Contains(t, err.Error(), LabelBirthDate)
}
