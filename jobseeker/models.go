package jobseeker

import "time"

// JobSeeker mirrors the job_seekers table: the seeker-side role row
// linked 1:1 to a user profile.
type JobSeeker struct {
	ID              string
	UserID          string
	FullName        string
	Phone           string
	Email           *string
	AddressFull     *string
	AddressSido     *string
	AddressSigungu  *string
	AddressDetail   *string
	RegionID        *string
	ProfileImageURL *string
	FinalEducation  *string
	Introduction    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateParams contains write parameters for new seeker rows.
type CreateParams struct {
	UserID          string
	FullName        string
	Phone           string
	Email           *string
	AddressFull     *string
	AddressSido     *string
	AddressSigungu  *string
	AddressDetail   *string
	RegionID        *string
	ProfileImageURL *string
	FinalEducation  *string
	Introduction    *string
}

// UpdateParams carries the mutable fields. Nil means "leave unchanged".
type UpdateParams struct {
	FullName        *string
	Phone           *string
	Email           *string
	AddressFull     *string
	AddressSido     *string
	AddressSigungu  *string
	AddressDetail   *string
	RegionID        *string
	ProfileImageURL *string
	FinalEducation  *string
	Introduction    *string
}
