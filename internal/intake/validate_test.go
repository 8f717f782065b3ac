package intake

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validationNow = time.Date(2023, 10, 10, 15, 4, 0, 0, time.UTC)

func validRecord() Record {
	return Record{
		FirstName:    "Asha",
		LastName:     "Rao",
		Mobile:       "555-123-4567",
		Email:        "a@b.com",
		Address:      "12 Lake Road",
		VehicleMake:  "Honda",
		VehicleModel: "City",
		VehicleYear:  "2019",
		TimeSlot:     Morning,
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"a@b.com", false},
		{"first.last@sub.example.co", false},
		{"not-an-email", true},
		{"bad", true},
		{"", true},
		{"a@b", true},
		{"a@@b.com", true},
		{"a@b@c.com", true},
		{"a b@c.com", true},
		{"@b.com", true},
		{"a@.com", true},
		{"a@b.", true},
		{" a@b.com", true},
		{"a\u00a0b@c.com", true},
		{"a\vb@c.com", true},
		{"a@b.c\u2003om", true},
		{"a@b.com\u2028", true},
		{"\ufeffa@b.com", true},
		{"müller@exämple.de", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			r := validRecord()
			r.Email = tt.email
			errs := Validate(r, validationNow)

			if errs.Has(FieldEmail) != tt.wantErr {
				t.Errorf("email %q: error = %v, want %v", tt.email, errs.Has(FieldEmail), tt.wantErr)
			}
			if tt.wantErr && errs[FieldEmail] != "Please enter a valid email address." {
				t.Errorf("message = %q", errs[FieldEmail])
			}
		})
	}
}

func TestValidateMobile(t *testing.T) {
	tests := []struct {
		mobile  string
		wantErr bool
	}{
		{"555-123-4567", false},
		{"(555) 123 4567", false},
		{"+91 98765 43210", false},
		{"5551234567", false},
		{"12345", true},
		{"555-123-456", true},
		{"phone number", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.mobile, func(t *testing.T) {
			r := validRecord()
			r.Mobile = tt.mobile
			errs := Validate(r, validationNow)

			if errs.Has(FieldMobile) != tt.wantErr {
				t.Errorf("mobile %q: error = %v, want %v", tt.mobile, errs.Has(FieldMobile), tt.wantErr)
			}
			if tt.wantErr && errs[FieldMobile] != MsgMobile {
				t.Errorf("message = %q", errs[FieldMobile])
			}
		})
	}
}

func TestValidateVehicleYear(t *testing.T) {
	current := validationNow.Year()

	tests := []struct {
		year    string
		wantErr bool
	}{
		{"1900", false},
		{"2019", false},
		{strconv.Itoa(current), false},
		{strconv.Itoa(current + 1), false},
		{"1899", true},
		{strconv.Itoa(current + 2), true},
		{"19", true},
		{"20190", true},
		{"２０１９", true},
		{"201a", true},
		{" 2019", true},
		{"+201", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			r := validRecord()
			r.VehicleYear = tt.year
			errs := Validate(r, validationNow)

			if errs.Has(FieldVehicleYear) != tt.wantErr {
				t.Errorf("year %q: error = %v, want %v", tt.year, errs.Has(FieldVehicleYear), tt.wantErr)
			}
		})
	}
}

func TestValidateEveryYearInRange(t *testing.T) {
	for year := 1900; year <= validationNow.Year()+1; year++ {
		r := validRecord()
		r.VehicleYear = strconv.Itoa(year)
		if errs := Validate(r, validationNow); errs.Has(FieldVehicleYear) {
			t.Fatalf("year %d rejected", year)
		}
	}
}

func TestValidateReportsAllErrorsTogether(t *testing.T) {
	r := validRecord()
	r.Email = "bad"
	r.Mobile = "12345"
	r.VehicleYear = "1899"

	errs := Validate(r, validationNow)

	require.Equal(t, 3, errs.Len())
	assert.Equal(t, MsgEmail, errs[FieldEmail])
	assert.Equal(t, MsgMobile, errs[FieldMobile])
	assert.Equal(t, MsgVehicleYear, errs[FieldVehicleYear])
	assert.Equal(t, []Field{FieldMobile, FieldEmail, FieldVehicleYear}, errs.Fields())
}

func TestValidateIgnoresUncheckedFields(t *testing.T) {
	r := validRecord()
	r.FirstName = ""
	r.LastName = ""
	r.Address = ""
	r.VehicleMake = ""
	r.VehicleModel = ""
	r.Package = "no-such-package"

	errs := Validate(r, validationNow)
	assert.Zero(t, errs.Len())
}

func TestValidateIsPure(t *testing.T) {
	r := validRecord()
	r.Email = "bad"
	before := r

	first := Validate(r, validationNow)
	for i := 0; i < 50; i++ {
		again := Validate(r, validationNow)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, before, r)
}

func TestMissing(t *testing.T) {
	assert.Empty(t, Missing(validRecord()))

	r := validRecord()
	r.FirstName = ""
	r.Address = ""
	assert.Equal(t, []Field{FieldFirstName, FieldAddress}, Missing(r))

	assert.Len(t, Missing(Record{}), len(TextFields))
}

func TestErrorsClear(t *testing.T) {
	errs := Errors{FieldEmail: MsgEmail, FieldMobile: MsgMobile}
	errs.Clear(FieldEmail)
	assert.False(t, errs.Has(FieldEmail))
	assert.True(t, errs.Has(FieldMobile))

	var none Errors
	none.Clear(FieldEmail)
	assert.Zero(t, none.Len())
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "5551234567", Digits("(555) 123-4567"))
	assert.Equal(t, "", Digits("call me"))
}
