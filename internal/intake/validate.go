package intake

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MsgEmail       = "Please enter a valid email address."
	MsgMobile      = "Please enter a valid mobile number (min 10 digits)."
	MsgVehicleYear = "Please enter a valid 4-digit vehicle year."
)

const (
	minMobileDigits = 10
	minVehicleYear  = 1900
)

var (
	// \s in RE2 is ASCII only; \v, the Unicode separators and BOM are
	// whitespace too.
	emailRe = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)
	yearRe  = regexp.MustCompile(`^[0-9]{4}$`)
)

// Errors maps a field to its user-facing message.
type Errors map[Field]string

func (e Errors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

func (e Errors) Len() int {
	return len(e)
}

// Clear drops the error for one field. Safe on a nil map.
func (e Errors) Clear(f Field) {
	delete(e, f)
}

// Fields returns the fields with errors in form order.
func (e Errors) Fields() []Field {
	var out []Field
	for _, f := range TextFields {
		if e.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Validate applies the email, mobile and vehicle year rules. Every rule runs
// on every call and all failures are reported together. now supplies the
// current calendar year for the upper bound on vehicle year.
//
// Names, address, make, model and time slot are not checked here; presence
// is the input boundary's job (see Missing).
func Validate(r Record, now time.Time) Errors {
	errs := Errors{}

	if !emailRe.MatchString(r.Email) {
		errs[FieldEmail] = MsgEmail
	}

	if len(Digits(r.Mobile)) < minMobileDigits {
		errs[FieldMobile] = MsgMobile
	}

	if !validYear(r.VehicleYear, now.Year()) {
		errs[FieldVehicleYear] = MsgVehicleYear
	}

	return errs
}

func validYear(raw string, currentYear int) bool {
	if !yearRe.MatchString(raw) {
		return false
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return false
	}
	return year >= minVehicleYear && year <= currentYear+1
}

// Digits strips every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Missing returns the text fields left empty, in form order. It models the
// form's required-field check, which runs before Validate is ever reached.
func Missing(r Record) []Field {
	var out []Field
	for _, f := range TextFields {
		if r.Get(f) == "" {
			out = append(out, f)
		}
	}
	return out
}
