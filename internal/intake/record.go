package intake

import (
	"fmt"
	"strings"
)

// TimeSlot is the customer's preferred arrival window.
type TimeSlot int

const (
	Morning TimeSlot = iota
	Afternoon
)

func (s TimeSlot) String() string {
	switch s {
	case Afternoon:
		return "Afternoon"
	default:
		return "Morning"
	}
}

// Window describes the arrival range shown next to the slot name.
func (s TimeSlot) Window() string {
	switch s {
	case Afternoon:
		return "1 PM - 5 PM"
	default:
		return "9 AM - 12 PM"
	}
}

// Toggle flips between the two slots.
func (s TimeSlot) Toggle() TimeSlot {
	if s == Morning {
		return Afternoon
	}
	return Morning
}

func (s TimeSlot) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

func (s *TimeSlot) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeSlot(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseTimeSlot accepts "morning"/"am" and "afternoon"/"pm" in any case.
func ParseTimeSlot(s string) (TimeSlot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "am":
		return Morning, nil
	case "afternoon", "pm":
		return Afternoon, nil
	default:
		return Morning, fmt.Errorf("invalid time slot: %s", s)
	}
}

// Field names the inputs of the details form.
type Field string

const (
	FieldFirstName    Field = "firstName"
	FieldLastName     Field = "lastName"
	FieldMobile       Field = "mobile"
	FieldEmail        Field = "email"
	FieldAddress      Field = "address"
	FieldVehicleMake  Field = "vehicleMake"
	FieldVehicleModel Field = "vehicleModel"
	FieldVehicleYear  Field = "vehicleYear"
	FieldTimeSlot     Field = "timeSlot"
)

// TextFields lists the free-text inputs in form order.
var TextFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldMobile,
	FieldEmail,
	FieldAddress,
	FieldVehicleMake,
	FieldVehicleModel,
	FieldVehicleYear,
}

// Label is the human-facing name of a field.
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First name"
	case FieldLastName:
		return "Last name"
	case FieldMobile:
		return "Mobile"
	case FieldEmail:
		return "Email"
	case FieldAddress:
		return "Address"
	case FieldVehicleMake:
		return "Vehicle make"
	case FieldVehicleModel:
		return "Vehicle model"
	case FieldVehicleYear:
		return "Vehicle year"
	case FieldTimeSlot:
		return "Time slot"
	default:
		return string(f)
	}
}

// Record is the contact and vehicle data collected in the details step.
// Package and Category are optional service choices and are never validated.
type Record struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Mobile       string   `json:"mobile"`
	Email        string   `json:"email"`
	Address      string   `json:"address"`
	VehicleMake  string   `json:"vehicleMake"`
	VehicleModel string   `json:"vehicleModel"`
	VehicleYear  string   `json:"vehicleYear"`
	TimeSlot     TimeSlot `json:"timeSlot"`

	Package  string `json:"package,omitempty"`
	Category string `json:"category,omitempty"`
}

// Get returns the raw value of a text field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldMobile:
		return r.Mobile
	case FieldEmail:
		return r.Email
	case FieldAddress:
		return r.Address
	case FieldVehicleMake:
		return r.VehicleMake
	case FieldVehicleModel:
		return r.VehicleModel
	case FieldVehicleYear:
		return r.VehicleYear
	case FieldTimeSlot:
		return r.TimeSlot.String()
	}
	return ""
}

// Set stores a raw value into a text field. Values are kept verbatim.
func (r *Record) Set(f Field, value string) error {
	switch f {
	case FieldFirstName:
		r.FirstName = value
	case FieldLastName:
		r.LastName = value
	case FieldMobile:
		r.Mobile = value
	case FieldEmail:
		r.Email = value
	case FieldAddress:
		r.Address = value
	case FieldVehicleMake:
		r.VehicleMake = value
	case FieldVehicleModel:
		r.VehicleModel = value
	case FieldVehicleYear:
		r.VehicleYear = value
	case FieldTimeSlot:
		slot, err := ParseTimeSlot(value)
		if err != nil {
			return err
		}
		r.TimeSlot = slot
	default:
		return fmt.Errorf("unknown field: %s", f)
	}
	return nil
}

// FullName joins first and last name for display.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
