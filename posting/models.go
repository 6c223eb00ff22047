package posting

import "time"

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusHidden Status = "hidden"
)

type EmploymentType string

const (
	EmploymentFullTime  EmploymentType = "full_time"
	EmploymentPartTime  EmploymentType = "part_time"
	EmploymentContract  EmploymentType = "contract"
	EmploymentTemporary EmploymentType = "temporary"
)

type CareerLevel string

const (
	CareerNewcomer    CareerLevel = "newcomer"
	CareerExperienced CareerLevel = "experienced"
	CareerIrrelevant  CareerLevel = "irrelevant"
)

// Posting mirrors the job_postings table.
type Posting struct {
	ID               string
	KindergartenID   string
	Title            string
	Status           Status
	FacilityName     string
	ContactEmail     *string
	ContactPhone     *string
	AddressFull      string
	AddressSido      *string
	AddressSigungu   *string
	RegionID         *string
	JobCategoryID    *string
	EmploymentType   *EmploymentType
	SalaryType       *string
	SalaryMin        *int64
	SalaryMax        *int64
	SalaryNegotiable bool
	CareerLevel      *CareerLevel
	DeadlineDate     *time.Time
	ContentHTML      *string
	ViewCount        int
	ApplicationCount int
	IsRecommended    bool
	IsFeatured       bool
	HiddenReason     *string
	HiddenAt         *time.Time
	HiddenBy         *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Filters narrows List results. Zero values mean "no constraint".
type Filters struct {
	KindergartenID string
	Status         Status
	RegionID       string
	JobCategoryID  string
	Sido           string
	Sigungu        string
	IsRecommended  *bool
	IsFeatured     *bool

	Page      int
	PageSize  int
	SortKey   string
	SortOrder string
}
