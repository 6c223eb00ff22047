package lookup

import "time"

// Region is one node of the administrative hierarchy: level 1 is a
// sido, level 2 a sigungu under its parent.
type Region struct {
	ID           string
	ParentID     *string
	Code         string
	Name         string
	Level        int
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobCategory is one selectable posting category.
type JobCategory struct {
	ID           string
	Code         string
	Name         string
	Description  *string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Bootstrap bundles the reference data the sign-up wizard needs in one
// response.
type Bootstrap struct {
	Sidos      []Region
	Categories []JobCategory
}
