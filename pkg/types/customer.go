package types

import "strings"

// CustomerInfo is the checkout contact snapshot. Presence of every field is
// required at submission; format is not enforced beyond that.
type CustomerInfo struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// MissingFields lists the required fields that are blank.
func (c CustomerInfo) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"email", c.Email},
		{"first_name", c.FirstName},
		{"last_name", c.LastName},
		{"address", c.Address},
		{"city", c.City},
		{"country", c.Country},
		{"postal_code", c.PostalCode},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}
