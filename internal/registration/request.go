package registration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a form value that arrives either as a JSON string or a JSON number
// (years in business is sent as a number by some forms). Numbers keep their
// literal text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Request is the body of a registration form submission.
type Request struct {
	FirstName        Text `json:"firstName"`
	LastName         Text `json:"lastName"`
	Company          Text `json:"company"`
	Division         Text `json:"division"`
	JobTitle         Text `json:"jobTitle"`
	Nationality      Text `json:"nationality"`
	Country          Text `json:"country"`
	Address          Text `json:"address"`
	CountryCode      Text `json:"countryCode"`
	PhoneNumber      Text `json:"phoneNumber"`
	Email            Text `json:"email"`
	BusinessType     Text `json:"businessType"`
	CompanySize      Text `json:"companySize"`
	YearsInBusiness  Text `json:"yearsInBusiness"`
	ProductsServices Text `json:"productsServices"`
	TargetMarkets    Text `json:"targetMarkets"`
	ExhibitionGoals  Text `json:"exhibitionGoals"`
}

// Value returns the trimmed value of f.
func (r *Request) Value(f Field) string {
	switch f {
	case FieldFirstName:
		return r.FirstName.String()
	case FieldLastName:
		return r.LastName.String()
	case FieldCompany:
		return r.Company.String()
	case FieldDivision:
		return r.Division.String()
	case FieldJobTitle:
		return r.JobTitle.String()
	case FieldNationality:
		return r.Nationality.String()
	case FieldCountry:
		return r.Country.String()
	case FieldAddress:
		return r.Address.String()
	case FieldCountryCode:
		return r.CountryCode.String()
	case FieldPhoneNumber:
		return r.PhoneNumber.String()
	case FieldEmail:
		return r.Email.String()
	case FieldBusinessType:
		return r.BusinessType.String()
	case FieldCompanySize:
		return r.CompanySize.String()
	case FieldYearsInBusiness:
		return r.YearsInBusiness.String()
	case FieldProductsServices:
		return r.ProductsServices.String()
	case FieldTargetMarkets:
		return r.TargetMarkets.String()
	case FieldExhibitionGoals:
		return r.ExhibitionGoals.String()
	}
	return ""
}
