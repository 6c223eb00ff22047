package resume

import "time"

// Resume mirrors the resumes table. DesiredRegions is a JSON array of
// region codes chosen by the seeker.
type Resume struct {
	ID                      string
	JobSeekerID             string
	Title                   string
	IsPrimary               bool
	FullName                string
	Phone                   *string
	Email                   *string
	AddressFull             *string
	ProfileImageURL         *string
	DesiredFacilityType     *string
	DesiredJobCategoryID    *string
	DesiredSalaryMin        *int64
	DesiredSalaryMax        *int64
	DesiredSalaryNegotiable bool
	DesiredRegions          []byte
	ContentHTML             *string
	ViewCount               int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// CreateParams contains write parameters for new resumes.
type CreateParams struct {
	JobSeekerID             string
	Title                   string
	IsPrimary               bool
	FullName                string
	Phone                   *string
	Email                   *string
	AddressFull             *string
	ProfileImageURL         *string
	DesiredFacilityType     *string
	DesiredJobCategoryID    *string
	DesiredSalaryMin        *int64
	DesiredSalaryMax        *int64
	DesiredSalaryNegotiable bool
	DesiredRegions          []byte
	ContentHTML             *string
}

// UpdateParams carries the mutable fields. Nil means "leave unchanged".
// IsPrimary is handled by SetPrimary, not here.
type UpdateParams struct {
	Title                   *string
	FullName                *string
	Phone                   *string
	Email                   *string
	AddressFull             *string
	ProfileImageURL         *string
	DesiredFacilityType     *string
	DesiredJobCategoryID    *string
	DesiredSalaryMin        *int64
	DesiredSalaryMax        *int64
	DesiredSalaryNegotiable *bool
	DesiredRegions          []byte
	ContentHTML             *string
}
