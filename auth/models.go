package auth

import "time"

type UserType string

const (
	UserTypeKindergarten UserType = "kindergarten"
	UserTypeJobSeeker    UserType = "job_seeker"
	UserTypeAdmin        UserType = "admin"
)

// User is the domain representation of a user_profiles row.
// It mirrors the table and should not include JSON annotations so it
// can be reused by different presentation layers. PasswordHash never
// leaves the auth boundary.
type User struct {
	ID           string
	UserType     UserType
	Email        string
	PasswordHash string
	Nickname     string
	Phone        *string
	SignupSource *string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the view returned to callers after sign-in and sign-up.
type PublicUser struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	UserType UserType `json:"user_type"`
	Nickname string   `json:"nickname"`
}

// PublicView strips everything a client must not see.
func (u User) PublicView() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		UserType: u.UserType,
		Nickname: u.Nickname,
	}
}

// KindergartenDetails holds the facility-side fields collected at sign-up.
type KindergartenDetails struct {
	FacilityName    string  `json:"facility_name"`
	HomepageURL     *string `json:"homepage_url"`
	BusinessEmail   *string `json:"business_email"`
	AddressFull     string  `json:"address_full"`
	AddressSido     string  `json:"address_sido"`
	AddressSigungu  string  `json:"address_sigungu"`
	AddressDetail   *string `json:"address_detail"`
	Phone           string  `json:"phone"`
	ProfileImageURL *string `json:"profile_image_url"`
	Introduction    *string `json:"introduction"`
}

// JobSeekerDetails holds the seeker-side fields collected at sign-up.
type JobSeekerDetails struct {
	FullName        string  `json:"full_name"`
	Phone           string  `json:"phone"`
	ContactEmail    *string `json:"contact_email"`
	AddressFull     *string `json:"address_full"`
	AddressSido     *string `json:"address_sido"`
	AddressSigungu  *string `json:"address_sigungu"`
	ProfileImageURL *string `json:"profile_image_url"`
	FinalEducation  *string `json:"final_education"`
	Introduction    *string `json:"introduction"`
}

// SignUpData carries one registration. Exactly one of Kindergarten or
// JobSeeker must be set and must match UserType. Consumed once by
// SignUp and not retained.
type SignUpData struct {
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Nickname     string   `json:"nickname"`
	UserType     UserType `json:"user_type"`
	SignupSource *string  `json:"signup_source"`

	Kindergarten *KindergartenDetails `json:"kindergarten,omitempty"`
	JobSeeker    *JobSeekerDetails    `json:"job_seeker,omitempty"`
}

func isValidUserType(t UserType) bool {
	switch t {
	case UserTypeKindergarten, UserTypeJobSeeker, UserTypeAdmin:
		return true
	default:
		return false
	}
}
