// Package functions holds the map and reduce functions run by the pipeline.
package functions

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"lettercount/mapreduce/types"
)

// isSpace reports whether r separates words. Only ASCII whitespace counts;
// a no-break space stays inside its word.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ClassifyLetters implements the map function for leading-letter counting.
// Every whitespace-delimited word whose first rune is a letter in A-Z
// (after upper-casing) produces one emission for the record. Other words
// are skipped.
func ClassifyLetters(record types.Record) []types.Emission {
	words := strings.FieldsFunc(record.Content, isSpace)

	emissions := make([]types.Emission, 0, len(words))
	for _, w := range words {
		first, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsLetter(first) {
			continue
		}
		// only the latin capitals form categories
		upper := unicode.ToUpper(first)
		if upper < 'A' || upper > 'Z' {
			continue
		}
		emissions = append(emissions, types.Emission{Category: string(upper), Name: record.Name})
	}
	return emissions
}

// LetterMap adapts ClassifyLetters to types.MapFunc.
func LetterMap(record types.Record) ([]types.Emission, error) {
	return ClassifyLetters(record), nil
}

// CountNames implements the reduce function: a frequency count of the
// record names collected for one category.
func CountNames(category string, names []string) types.Tally {
	tally := make(types.Tally)
	for _, name := range names {
		tally[name]++
	}
	return tally
}

// NameReduce adapts CountNames to types.ReduceFunc.
func NameReduce(category string, names []string) (types.Tally, error) {
	return CountNames(category, names), nil
}
