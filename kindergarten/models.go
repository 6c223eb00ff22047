package kindergarten

import "time"

// Kindergarten mirrors the kindergartens table: the facility-side role
// row linked 1:1 to a user profile.
type Kindergarten struct {
	ID              string
	UserID          string
	FacilityName    string
	HomepageURL     *string
	BusinessEmail   *string
	AddressFull     string
	AddressSido     string
	AddressSigungu  string
	AddressDetail   *string
	RegionID        *string
	Phone           string
	ProfileImageURL *string
	Introduction    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateParams contains write parameters for new facility rows.
type CreateParams struct {
	UserID          string
	FacilityName    string
	HomepageURL     *string
	BusinessEmail   *string
	AddressFull     string
	AddressSido     string
	AddressSigungu  string
	AddressDetail   *string
	RegionID        *string
	Phone           string
	ProfileImageURL *string
	Introduction    *string
}

// UpdateParams carries the mutable fields. Nil means "leave unchanged".
type UpdateParams struct {
	FacilityName    *string
	HomepageURL     *string
	BusinessEmail   *string
	AddressFull     *string
	AddressSido     *string
	AddressSigungu  *string
	AddressDetail   *string
	RegionID        *string
	Phone           *string
	ProfileImageURL *string
	Introduction    *string
}
