package registration

import (
	"errors"
	"sort"
)

var ErrUnknownEventType = errors.New("unknown event type")

type Field string

const (
	FieldFirstName        Field = "firstName"
	FieldLastName         Field = "lastName"
	FieldCompany          Field = "company"
	FieldDivision         Field = "division"
	FieldJobTitle         Field = "jobTitle"
	FieldNationality      Field = "nationality"
	FieldCountry          Field = "country"
	FieldAddress          Field = "address"
	FieldCountryCode      Field = "countryCode"
	FieldPhoneNumber      Field = "phoneNumber"
	FieldEmail            Field = "email"
	FieldBusinessType     Field = "businessType"
	FieldCompanySize      Field = "companySize"
	FieldYearsInBusiness  Field = "yearsInBusiness"
	FieldProductsServices Field = "productsServices"
	FieldTargetMarkets    Field = "targetMarkets"
	FieldExhibitionGoals  Field = "exhibitionGoals"
)

var labels = map[Field]string{
	FieldFirstName:        "First Name",
	FieldLastName:         "Last Name",
	FieldCompany:          "Company",
	FieldDivision:         "Division",
	FieldJobTitle:         "Job Title",
	FieldNationality:      "Nationality",
	FieldCountry:          "Country",
	FieldAddress:          "Address",
	FieldCountryCode:      "Country Code",
	FieldPhoneNumber:      "Phone Number",
	FieldEmail:            "Email",
	FieldBusinessType:     "Business Type",
	FieldCompanySize:      "Company Size",
	FieldYearsInBusiness:  "Years in Business",
	FieldProductsServices: "Products/Services",
	FieldTargetMarkets:    "Target Markets",
	FieldExhibitionGoals:  "Exhibition Goals",
}

// Label is the human-readable name shown to visitors.
func (f Field) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// EventType describes one registration profile. Required is kept in form
// order; missing-field messages follow it.
type EventType struct {
	Key                 string
	Prefix              string
	Required            []Field
	ConfirmationMessage string
}

var visitorFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldCompany,
	FieldNationality,
	FieldCountry,
	FieldAddress,
	FieldCountryCode,
	FieldPhoneNumber,
	FieldBusinessType,
}

var (
	Visitor = EventType{
		Key:                 "visitor",
		Prefix:              "GEM",
		Required:            visitorFields,
		ConfirmationMessage: "Registration successful! Please save your entry code for exhibition access.",
	}

	TradeExpo = EventType{
		Key:    "trade_expo",
		Prefix: "TRADE",
		Required: append(append([]Field{}, visitorFields...),
			FieldCompanySize,
			FieldYearsInBusiness,
			FieldProductsServices,
			FieldExhibitionGoals,
		),
		ConfirmationMessage: "Registration successful! Please save your entry code for Trade Expo access.",
	}
)

// Catalogue maps event type keys to their profiles.
type Catalogue map[string]EventType

func DefaultCatalogue() Catalogue {
	return Catalogue{
		Visitor.Key:   Visitor,
		TradeExpo.Key: TradeExpo,
	}
}

func (c Catalogue) Lookup(key string) (EventType, error) {
	et, ok := c[key]
	if !ok {
		return EventType{}, ErrUnknownEventType
	}
	return et, nil
}

func (c Catalogue) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
