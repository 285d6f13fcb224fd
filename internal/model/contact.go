package model

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contacts-dedupe/internal/csvline"
)

// Column positions in the contact export.
const (
	ColContactID = iota
	ColFirstName
	ColLastName
	ColStreet
	ColCity
	ColState
	ColZip
	ColCountry
	ColIsMeditator
	ColNCOAAddressChange
	ColNCOAComment
)

// RequiredColumns is the column count a row needs to pass the strict check.
// NCOA Comment is optional.
const RequiredColumns = ColNCOAComment

// flagSet is the literal marker for a true boolean column.
const flagSet = "1"

// ErrMalformedRow is returned by ParseContact in strict mode when a row is
// missing required columns.
var ErrMalformedRow = eris.New("malformed row")

// Contact is one parsed row of the contact export.
type Contact struct {
	ContactID           string `json:"contact_id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Street              string `json:"street"`
	City                string `json:"city"`
	State               string `json:"state"`
	Zip                 string `json:"zip"`
	Country             string `json:"country"`
	IsMeditator         bool   `json:"is_meditator"`
	IsNCOAAddressChange bool   `json:"is_ncoa_address_change"`
	NCOAComment         string `json:"ncoa_comment,omitempty"`
	Line                int    `json:"line"` // 1-based input line number
}

// ParseOptions controls ParseContact.
type ParseOptions struct {
	// StrictColumns rejects rows with fewer than RequiredColumns fields
	// instead of filling the missing ones with "".
	StrictColumns bool
}

// ParseContact tokenizes line and maps its fields onto a Contact.
func ParseContact(line string, lineNo int, opts ParseOptions) (Contact, error) {
	fields := csvline.Tokenize(line)
	if opts.StrictColumns && len(fields) < RequiredColumns {
		return Contact{}, eris.Wrapf(ErrMalformedRow, "line %d: got %d columns, want at least %d",
			lineNo, len(fields), RequiredColumns)
	}
	return ContactFromFields(fields, lineNo), nil
}

// ContactFromFields builds a Contact from already tokenized fields. Absent
// trailing fields resolve to "".
func ContactFromFields(fields []string, lineNo int) Contact {
	return Contact{
		ContactID:           field(fields, ColContactID),
		FirstName:           field(fields, ColFirstName),
		LastName:            field(fields, ColLastName),
		Street:              field(fields, ColStreet),
		City:                field(fields, ColCity),
		State:               field(fields, ColState),
		Zip:                 field(fields, ColZip),
		Country:             field(fields, ColCountry),
		IsMeditator:         field(fields, ColIsMeditator) == flagSet,
		IsNCOAAddressChange: field(fields, ColNCOAAddressChange) == flagSet,
		NCOAComment:         field(fields, ColNCOAComment),
		Line:                lineNo,
	}
}

// HasStreet reports whether the contact has a non-blank street.
func (c Contact) HasStreet() bool {
	return strings.TrimSpace(c.Street) != ""
}

// field safely retrieves a column value from a tokenized row.
func field(fields []string, idx int) string {
	if idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

// unkeyedNamespace seeds the tokens handed to contacts without a street.
var unkeyedNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("contacts-dedupe/unkeyed-address"))

// unkeyedPrefix marks keys issued to contacts without a street.
const unkeyedPrefix = "\x00unkeyed:"

// AddressKeyer derives grouping keys for contacts. Contacts without a street
// each get a fresh key from a counter, so they never share a group. A keyer
// belongs to a single run; the same input always yields the same keys.
type AddressKeyer struct {
	next uint64
}

// NewAddressKeyer returns a keyer whose counter starts at zero.
func NewAddressKeyer() *AddressKeyer {
	return &AddressKeyer{}
}

// Key returns street+city+state+zip, or a never-reused opaque token when the
// street is blank.
func (k *AddressKeyer) Key(c Contact) string {
	if c.HasStreet() {
		return c.Street + c.City + c.State + c.Zip
	}
	n := k.next
	k.next++
	return unkeyedPrefix + uuid.NewSHA1(unkeyedNamespace, []byte(strconv.FormatUint(n, 10))).String()
}
