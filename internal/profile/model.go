package profile

import "time"

// Profile holds the user's core profile fields.
type Profile struct {
	UserID    string
	FullName  string
	Email     string
	Phone     string
	Location  string
	Headline  string
	Summary   string
	LinkedIn  string
	Website   string
	UpdatedAt time.Time
}

// Employment is one employment history entry.
type Employment struct {
	ID          int64
	UserID      string
	Company     string
	Role        string
	Location    string
	StartDate   string
	EndDate     string
	Description string
}

// Education is one education history entry.
type Education struct {
	ID          int64
	UserID      string
	Institution string
	Degree      string
	Field       string
	StartDate   string
	EndDate     string
}

// Skill is one skill entry with a rough proficiency label.
type Skill struct {
	ID          int64
	UserID      string
	Name        string
	Proficiency string
}

// Project is one portfolio project entry.
type Project struct {
	ID          int64
	UserID      string
	Name        string
	Description string
	URL         string
}

// Certification is one certification entry.
type Certification struct {
	ID       int64
	UserID   string
	Name     string
	Issuer   string
	IssuedAt string
}

// Comprehensive bundles everything the generation prompts draw on.
type Comprehensive struct {
	Profile        Profile
	Employment     []Employment
	Education      []Education
	Skills         []Skill
	Projects       []Project
	Certifications []Certification
}
