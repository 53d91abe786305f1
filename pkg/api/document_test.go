package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/convoy-tracker/pkg/apperrors"
)

func TestParseDocumentSelectsFirstRootField(t *testing.T) {
	doc, err := parseDocument(`query Ranking { ranking(convoy_id: $convoy_id, limit: $limit) { entries } }`, 10, 1000)
	require.Nil(t, err)
	assert.Equal(t, "ranking", doc.Operation)
	assert.Equal(t, 2, doc.Depth)
}

func TestParseDocumentBareSelection(t *testing.T) {
	doc, err := parseDocument(`{ health }`, 10, 1000)
	require.Nil(t, err)
	assert.Equal(t, "health", doc.Operation)
	assert.Equal(t, 1, doc.Depth)
	assert.Equal(t, 1, doc.Fields)
}

func TestParseDocumentMutationKeyword(t *testing.T) {
	doc, err := parseDocument(`mutation { recordEngagement(input: $input) { success } }`, 10, 1000)
	require.Nil(t, err)
	assert.Equal(t, "recordEngagement", doc.Operation)
}

func TestParseDocumentDepthLimit(t *testing.T) {
	query := strings.Repeat("{ a ", 11) + strings.Repeat("}", 11)
	_, err := parseDocument(query, 10, 1000)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, err.Code)
	assert.Contains(t, err.Message, "depth")
}

func TestParseDocumentComplexityLimit(t *testing.T) {
	fields := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		fields = append(fields, "field")
	}
	query := "{ " + strings.Join(fields, " ") + " }"
	_, err := parseDocument(query, 10, 10)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "complexity")
}

func TestParseDocumentRejectsEmptyAndUnbalanced(t *testing.T) {
	_, err := parseDocument(``, 10, 1000)
	require.NotNil(t, err)

	_, err = parseDocument(`{ health `, 10, 1000)
	require.NotNil(t, err)

	_, err = parseDocument(`health }`, 10, 1000)
	require.NotNil(t, err)
}

func TestParseDocumentIgnoresCommentsAndStrings(t *testing.T) {
	doc, err := parseDocument("# leading comment with { braces\n{ convoy(convoy_id: \"not { a field\") }", 10, 1000)
	require.Nil(t, err)
	assert.Equal(t, "convoy", doc.Operation)
	assert.Equal(t, 1, doc.Fields)
}
