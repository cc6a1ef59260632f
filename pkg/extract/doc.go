// Package extract pulls labeled identity fields out of free-form text.
//
// Text is split into lines. For a given label the first line that contains
// the label is used, and its value is everything after the first colon,
// trimmed of surrounding whitespace:
//
//	value, found, err := extract.Field(text, extract.LabelCNP)
//
// Record applies Field to the five labels an intake request must carry.
//
// # Known Limitations
//
// Labels are matched as plain substrings, not as anchored line prefixes. A
// line that mentions a label anywhere (for example an address that happens
// to contain "CNP") matches it, and a label that is a substring of another
// label would match the longer one too. Matching is case-sensitive, so the
// shipped labels do not collide: "Numele" does not occur in "Prenumele".
// When several lines match, the first one wins and no ambiguity is reported.
package extract
