package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/identity-intake/pkg/extract"
)

func TestRunExtract(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runExtract(strings.NewReader(sampleText), &out))

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]string{
		"numele":        "Popescu",
		"prenumele":     "Ion",
		"data_nasterii": "01.01.1990",
		"adresa":        "Str. Lunga nr. 1, Cluj",
		"cnp":           "1900101123456",
	}, got)
}

func TestRunExtract_Incomplete(t *testing.T) {
	var out bytes.Buffer
	err := runExtract(strings.NewReader("Numele: Popescu\n"), &out)

	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrIncomplete))

	var fieldErr *extract.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, extract.LabelGivenName, fieldErr.Label)
	assert.Empty(t, out.String())
}
