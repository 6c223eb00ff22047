package httpapi

import (
	"encoding/json"
	"time"

	"kinderwork/application"
	"kinderwork/jobseeker"
	"kinderwork/kindergarten"
	"kinderwork/lookup"
	"kinderwork/posting"
	"kinderwork/resume"
	"kinderwork/storage"
)

// Wire views. Domain structs carry no JSON tags so the shapes clients
// see are decided here.

type postingView struct {
	ID               string                  `json:"id"`
	KindergartenID   string                  `json:"kindergarten_id"`
	Title            string                  `json:"title"`
	Status           posting.Status          `json:"status"`
	FacilityName     string                  `json:"facility_name"`
	ContactEmail     *string                 `json:"contact_email"`
	ContactPhone     *string                 `json:"contact_phone"`
	AddressFull      string                  `json:"address_full"`
	AddressSido      *string                 `json:"address_sido"`
	AddressSigungu   *string                 `json:"address_sigungu"`
	RegionID         *string                 `json:"region_id"`
	JobCategoryID    *string                 `json:"job_category_id"`
	EmploymentType   *posting.EmploymentType `json:"employment_type"`
	SalaryType       *string                 `json:"salary_type"`
	SalaryMin        *int64                  `json:"salary_min"`
	SalaryMax        *int64                  `json:"salary_max"`
	SalaryNegotiable bool                    `json:"salary_negotiable"`
	CareerLevel      *posting.CareerLevel    `json:"career_level"`
	DeadlineDate     *time.Time              `json:"deadline_date"`
	ContentHTML      *string                 `json:"content_html"`
	ViewCount        int                     `json:"view_count"`
	ApplicationCount int                     `json:"application_count"`
	IsRecommended    bool                    `json:"is_recommended"`
	IsFeatured       bool                    `json:"is_featured"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

func toPostingView(p posting.Posting) postingView {
	return postingView{
		ID:               p.ID,
		KindergartenID:   p.KindergartenID,
		Title:            p.Title,
		Status:           p.Status,
		FacilityName:     p.FacilityName,
		ContactEmail:     p.ContactEmail,
		ContactPhone:     p.ContactPhone,
		AddressFull:      p.AddressFull,
		AddressSido:      p.AddressSido,
		AddressSigungu:   p.AddressSigungu,
		RegionID:         p.RegionID,
		JobCategoryID:    p.JobCategoryID,
		EmploymentType:   p.EmploymentType,
		SalaryType:       p.SalaryType,
		SalaryMin:        p.SalaryMin,
		SalaryMax:        p.SalaryMax,
		SalaryNegotiable: p.SalaryNegotiable,
		CareerLevel:      p.CareerLevel,
		DeadlineDate:     p.DeadlineDate,
		ContentHTML:      p.ContentHTML,
		ViewCount:        p.ViewCount,
		ApplicationCount: p.ApplicationCount,
		IsRecommended:    p.IsRecommended,
		IsFeatured:       p.IsFeatured,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toPostingViews(items []posting.Posting) []postingView {
	views := make([]postingView, len(items))
	for i, p := range items {
		views[i] = toPostingView(p)
	}
	return views
}

type resumeView struct {
	ID                      string          `json:"id"`
	JobSeekerID             string          `json:"job_seeker_id"`
	Title                   string          `json:"title"`
	IsPrimary               bool            `json:"is_primary"`
	FullName                string          `json:"full_name"`
	Phone                   *string         `json:"phone"`
	Email                   *string         `json:"email"`
	AddressFull             *string         `json:"address_full"`
	ProfileImageURL         *string         `json:"profile_image_url"`
	DesiredFacilityType     *string         `json:"desired_facility_type"`
	DesiredJobCategoryID    *string         `json:"desired_job_category_id"`
	DesiredSalaryMin        *int64          `json:"desired_salary_min"`
	DesiredSalaryMax        *int64          `json:"desired_salary_max"`
	DesiredSalaryNegotiable bool            `json:"desired_salary_negotiable"`
	DesiredRegions          json.RawMessage `json:"desired_regions"`
	ContentHTML             *string         `json:"content_html"`
	ViewCount               int             `json:"view_count"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

func toResumeView(r resume.Resume) resumeView {
	regions := json.RawMessage(r.DesiredRegions)
	if len(regions) == 0 {
		regions = json.RawMessage("[]")
	}
	return resumeView{
		ID:                      r.ID,
		JobSeekerID:             r.JobSeekerID,
		Title:                   r.Title,
		IsPrimary:               r.IsPrimary,
		FullName:                r.FullName,
		Phone:                   r.Phone,
		Email:                   r.Email,
		AddressFull:             r.AddressFull,
		ProfileImageURL:         r.ProfileImageURL,
		DesiredFacilityType:     r.DesiredFacilityType,
		DesiredJobCategoryID:    r.DesiredJobCategoryID,
		DesiredSalaryMin:        r.DesiredSalaryMin,
		DesiredSalaryMax:        r.DesiredSalaryMax,
		DesiredSalaryNegotiable: r.DesiredSalaryNegotiable,
		DesiredRegions:          regions,
		ContentHTML:             r.ContentHTML,
		ViewCount:               r.ViewCount,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}

func toResumeViews(items []resume.Resume) []resumeView {
	views := make([]resumeView, len(items))
	for i, r := range items {
		views[i] = toResumeView(r)
	}
	return views
}

type applicationView struct {
	ID              string             `json:"id"`
	JobPostingID    string             `json:"job_posting_id"`
	ResumeID        string             `json:"resume_id"`
	JobSeekerID     string             `json:"job_seeker_id"`
	KindergartenID  string             `json:"kindergarten_id"`
	Status          application.Status `json:"status"`
	CoverLetter     *string            `json:"cover_letter"`
	SnapshotPosting json.RawMessage    `json:"snapshot_posting"`
	SnapshotResume  json.RawMessage    `json:"snapshot_resume"`
	ReviewedAt      *time.Time         `json:"reviewed_at"`
	ReviewedBy      *string            `json:"reviewed_by"`
	ReviewNote      *string            `json:"review_note"`
	CancelledAt     *time.Time         `json:"cancelled_at"`
	CancelReason    *string            `json:"cancel_reason"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func toApplicationView(a application.Application) applicationView {
	return applicationView{
		ID:              a.ID,
		JobPostingID:    a.JobPostingID,
		ResumeID:        a.ResumeID,
		JobSeekerID:     a.JobSeekerID,
		KindergartenID:  a.KindergartenID,
		Status:          a.Status,
		CoverLetter:     a.CoverLetter,
		SnapshotPosting: json.RawMessage(a.SnapshotPosting),
		SnapshotResume:  json.RawMessage(a.SnapshotResume),
		ReviewedAt:      a.ReviewedAt,
		ReviewedBy:      a.ReviewedBy,
		ReviewNote:      a.ReviewNote,
		CancelledAt:     a.CancelledAt,
		CancelReason:    a.CancelReason,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toApplicationViews(items []application.Application) []applicationView {
	views := make([]applicationView, len(items))
	for i, a := range items {
		views[i] = toApplicationView(a)
	}
	return views
}

type regionView struct {
	ID           string  `json:"id"`
	ParentID     *string `json:"parent_id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Level        int     `json:"level"`
	DisplayOrder int     `json:"display_order"`
}

func toRegionView(r lookup.Region) regionView {
	return regionView{
		ID:           r.ID,
		ParentID:     r.ParentID,
		Code:         r.Code,
		Name:         r.Name,
		Level:        r.Level,
		DisplayOrder: r.DisplayOrder,
	}
}

func toRegionViews(items []lookup.Region) []regionView {
	views := make([]regionView, len(items))
	for i, r := range items {
		views[i] = toRegionView(r)
	}
	return views
}

type categoryView struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order"`
}

func toCategoryView(c lookup.JobCategory) categoryView {
	return categoryView{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
	}
}

func toCategoryViews(items []lookup.JobCategory) []categoryView {
	views := make([]categoryView, len(items))
	for i, c := range items {
		views[i] = toCategoryView(c)
	}
	return views
}

type attachmentView struct {
	ID          string    `json:"id"`
	EntityType  *string   `json:"entity_type"`
	EntityID    *string   `json:"entity_id"`
	Bucket      string    `json:"bucket"`
	PublicURL   string    `json:"public_url"`
	ContentType *string   `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAttachmentView(a storage.Attachment) attachmentView {
	return attachmentView{
		ID:          a.ID,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Bucket:      a.Bucket,
		PublicURL:   a.PublicURL,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}

func toAttachmentViews(items []storage.Attachment) []attachmentView {
	views := make([]attachmentView, len(items))
	for i, a := range items {
		views[i] = toAttachmentView(a)
	}
	return views
}

type kindergartenView struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	FacilityName    string  `json:"facility_name"`
	HomepageURL     *string `json:"homepage_url"`
	BusinessEmail   *string `json:"business_email"`
	AddressFull     string  `json:"address_full"`
	AddressSido     string  `json:"address_sido"`
	AddressSigungu  string  `json:"address_sigungu"`
	AddressDetail   *string `json:"address_detail"`
	RegionID        *string `json:"region_id"`
	Phone           string  `json:"phone"`
	ProfileImageURL *string `json:"profile_image_url"`
	Introduction    *string `json:"introduction"`
}

func toKindergartenView(kg kindergarten.Kindergarten) kindergartenView {
	return kindergartenView{
		ID:              kg.ID,
		UserID:          kg.UserID,
		FacilityName:    kg.FacilityName,
		HomepageURL:     kg.HomepageURL,
		BusinessEmail:   kg.BusinessEmail,
		AddressFull:     kg.AddressFull,
		AddressSido:     kg.AddressSido,
		AddressSigungu:  kg.AddressSigungu,
		AddressDetail:   kg.AddressDetail,
		RegionID:        kg.RegionID,
		Phone:           kg.Phone,
		ProfileImageURL: kg.ProfileImageURL,
		Introduction:    kg.Introduction,
	}
}

type jobSeekerView struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	FullName        string  `json:"full_name"`
	Phone           string  `json:"phone"`
	Email           *string `json:"email"`
	AddressFull     *string `json:"address_full"`
	AddressSido     *string `json:"address_sido"`
	AddressSigungu  *string `json:"address_sigungu"`
	AddressDetail   *string `json:"address_detail"`
	RegionID        *string `json:"region_id"`
	ProfileImageURL *string `json:"profile_image_url"`
	FinalEducation  *string `json:"final_education"`
	Introduction    *string `json:"introduction"`
}

func toJobSeekerView(js jobseeker.JobSeeker) jobSeekerView {
	return jobSeekerView{
		ID:              js.ID,
		UserID:          js.UserID,
		FullName:        js.FullName,
		Phone:           js.Phone,
		Email:           js.Email,
		AddressFull:     js.AddressFull,
		AddressSido:     js.AddressSido,
		AddressSigungu:  js.AddressSigungu,
		AddressDetail:   js.AddressDetail,
		RegionID:        js.RegionID,
		ProfileImageURL: js.ProfileImageURL,
		FinalEducation:  js.FinalEducation,
		Introduction:    js.Introduction,
	}
}
