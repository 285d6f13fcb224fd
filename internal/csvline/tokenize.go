// Package csvline splits single CSV lines into fields and escapes fields for output.
//
// The rules are the loose RFC 4180 subset the contact exports use: fields are
// comma separated, a field containing a comma is wrapped in double quotes, and
// a literal double quote is written as two double quotes.
package csvline

import "strings"

type scanState int

const (
	stateNormal scanState = iota
	stateInQuotes
)

// Tokenize splits one line into its fields.
//
// A doubled quote is always read as one literal quote, in or out of a quoted
// section. Any other quote toggles quoting and is dropped. A comma outside
// quotes ends the current field. An unterminated quote runs to the end of the
// line. The result always has at least one field, and empty fields are kept.
func Tokenize(line string) []string {
	runes := []rune(line)
	fields := make([]string, 0, strings.Count(line, ",")+1)

	var field strings.Builder
	state := stateNormal

	for i := 0; i < len(runes); i++ {
		cur := runes[i]
		switch cur {
		case '"':
			if i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			if state == stateNormal {
				state = stateInQuotes
			} else {
				state = stateNormal
			}
		case ',':
			if state == stateInQuotes {
				field.WriteRune(cur)
				continue
			}
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(cur)
		}
	}

	return append(fields, field.String())
}
