package api

import (
	"fmt"
	"unicode"

	"github.com/picogrid/convoy-tracker/pkg/apperrors"
)

// document is the parsed summary of an operation document: the root
// field that selects the operation, plus the guard metrics.
type document struct {
	Operation string
	Depth     int
	Fields    int
}

// parseDocument scans an operation document and extracts the first root
// field along with selection depth and field count. The scanner
// understands braces, argument lists, string literals, and comments; it
// does not validate selection sets beyond the guard limits.
func parseDocument(query string, maxDepth, maxComplexity int) (*document, *apperrors.Error) {
	doc := &document{}

	runes := []rune(query)
	braceDepth := 0
	parenDepth := 0
	i := 0

	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '"':
			i++
			for i < len(runes) && runes[i] != '"' {
				if runes[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case r == '{':
			braceDepth++
			if braceDepth > doc.Depth {
				doc.Depth = braceDepth
			}
			i++
		case r == '}':
			braceDepth--
			if braceDepth < 0 {
				return nil, apperrors.InvalidInput("unbalanced braces in query document")
			}
			i++
		case r == '(':
			parenDepth++
			i++
		case r == ')':
			parenDepth--
			i++
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			// Identifiers inside argument lists are argument names or
			// enum values, not fields. Identifiers before the first
			// brace are the operation keyword and operation name.
			if parenDepth == 0 && braceDepth >= 1 {
				doc.Fields++
				if doc.Operation == "" && braceDepth == 1 {
					doc.Operation = string(runes[start:i])
				}
			}
		default:
			i++
		}
	}

	if braceDepth != 0 {
		return nil, apperrors.InvalidInput("unbalanced braces in query document")
	}
	if doc.Operation == "" {
		return nil, apperrors.InvalidInput("query document has no operation")
	}
	if doc.Depth > maxDepth {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("query depth %d exceeds the limit of %d", doc.Depth, maxDepth))
	}
	if doc.Fields > maxComplexity {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("query complexity %d exceeds the limit of %d", doc.Fields, maxComplexity))
	}
	return doc, nil
}
