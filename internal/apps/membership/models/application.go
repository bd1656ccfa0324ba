package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, stored as a Postgres date
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Scan implements the sql.Scanner interface for Date
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// Value implements the driver.Valuer interface for Date
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// MarshalJSON renders the date as "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date must be a string in %s format", DateLayout)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AgeOn returns full years elapsed between dob and today, counting a
// birthday only once its month and day have been reached.
func AgeOn(dob Date, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// Gender values
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Education values
const (
	EducationArtsScience = "Arts & Science"
	EducationEngineering = "Engineering"
	EducationLaw         = "Law"
	EducationMedicine    = "Medicine"
	EducationManagement  = "Management"
)

// Occupation values
const (
	OccupationStudent      = "Student"
	OccupationPrivate      = "Private"
	OccupationGovernment   = "Government"
	OccupationSelfEmployed = "Self Employed"
	OccupationBusiness     = "Business"
	OccupationHomeMaker    = "Home Maker"
)

// ApplicationStatus is the review state of an application
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
)

var (
	Genders     = []string{GenderMale, GenderFemale, GenderOther}
	Educations  = []string{EducationArtsScience, EducationEngineering, EducationLaw, EducationMedicine, EducationManagement}
	Occupations = []string{OccupationStudent, OccupationPrivate, OccupationGovernment, OccupationSelfEmployed, OccupationBusiness, OccupationHomeMaker}
	Statuses    = []ApplicationStatus{StatusPending, StatusUnderReview, StatusApproved, StatusRejected}
)

// Valid reports whether s is a known status
func (s ApplicationStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// MinimumAge is the youngest an applicant may be
const MinimumAge = 18

// MembershipApplication is a submitted membership form
type MembershipApplication struct {
	ID                     uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PhoneNumber            string            `gorm:"size:20;not null;uniqueIndex" json:"phone_number"`
	AlternatePhoneNumber   *string           `gorm:"size:20" json:"alternate_phone_number,omitempty"`
	Name                   string            `gorm:"size:255;not null" json:"name"`
	Email                  *string           `gorm:"size:255" json:"email,omitempty"`
	Gender                 string            `gorm:"size:10;not null" json:"gender"`
	DateOfBirth            Date              `gorm:"type:date;not null" json:"date_of_birth"`
	RevenueDistrict        string            `gorm:"size:100;not null;index" json:"revenue_district"`
	AssemblyConstituency   string            `gorm:"size:100;not null" json:"assembly_constituency"`
	Education              string            `gorm:"size:50;not null" json:"education"`
	Specialization         *string           `gorm:"size:255" json:"specialization,omitempty"`
	Occupation             string            `gorm:"size:50;not null" json:"occupation"`
	Address                *string           `gorm:"type:text" json:"address,omitempty"`
	IsAlreadyMember        bool              `gorm:"not null;default:false" json:"is_already_member"`
	WantToVolunteer        bool              `gorm:"not null;default:false" json:"want_to_volunteer"`
	WantToJoinAndVolunteer bool              `gorm:"not null;default:false" json:"want_to_join_and_volunteer"`
	Motivation             string            `gorm:"type:text;not null" json:"motivation"`
	ApplicationStatus      ApplicationStatus `gorm:"size:20;not null;default:pending;index" json:"application_status"`
	SubmittedAt            time.Time         `gorm:"type:timestamptz;not null;index" json:"submitted_at"`
	UpdatedAt              time.Time         `gorm:"type:timestamptz;not null" json:"updated_at"`
}

// TableName sets the table name to 'membership_applications'
func (MembershipApplication) TableName() string { return "membership_applications" }

// BeforeCreate hook to generate UUID before creating record
func (a *MembershipApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ApplicationStatus == "" {
		a.ApplicationStatus = StatusPending
	}
	return nil
}

// SubmitApplicationRequest is the public membership form payload
type SubmitApplicationRequest struct {
	PhoneNumber            string  `json:"phone_number" binding:"required,min=10,max=20"`
	AlternatePhoneNumber   *string `json:"alternate_phone_number,omitempty" binding:"omitempty,min=10,max=20"`
	Name                   string  `json:"name" binding:"required,min=2,max=255"`
	Email                  *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	Gender                 string  `json:"gender" binding:"required,gender"`
	DateOfBirth            string  `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	RevenueDistrict        string  `json:"revenue_district" binding:"required,district"`
	AssemblyConstituency   string  `json:"assembly_constituency" binding:"required,max=100"`
	Education              string  `json:"education" binding:"required,education"`
	Specialization         *string `json:"specialization,omitempty" binding:"omitempty,max=255"`
	Occupation             string  `json:"occupation" binding:"required,occupation"`
	Address                *string `json:"address,omitempty" binding:"omitempty,max=1000"`
	IsAlreadyMember        *bool   `json:"is_already_member" binding:"required"`
	WantToVolunteer        *bool   `json:"want_to_volunteer" binding:"required"`
	WantToJoinAndVolunteer *bool   `json:"want_to_join_and_volunteer" binding:"required"`
	Motivation             string  `json:"motivation" binding:"required,min=1,max=2000"`
}

// Normalize trims surrounding whitespace from every text field and drops
// optional fields that are left empty.
func (r *SubmitApplicationRequest) Normalize() {
	for _, f := range []*string{
		&r.PhoneNumber, &r.Name, &r.Gender, &r.DateOfBirth, &r.RevenueDistrict,
		&r.AssemblyConstituency, &r.Education, &r.Occupation, &r.Motivation,
	} {
		*f = strings.TrimSpace(*f)
	}
	r.AlternatePhoneNumber = trimOptional(r.AlternatePhoneNumber)
	r.Email = trimOptional(r.Email)
	r.Specialization = trimOptional(r.Specialization)
	r.Address = trimOptional(r.Address)
}

// UnmarshalJSON decodes the form and normalizes it, so binding validation
// sees trimmed values.
func (r *SubmitApplicationRequest) UnmarshalJSON(b []byte) error {
	type plain SubmitApplicationRequest
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = SubmitApplicationRequest(p)
	r.Normalize()
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// SubmitApplicationResponse is returned after a successful submission
type SubmitApplicationResponse struct {
	ID uuid.UUID `json:"id"`
}

// CheckRegistrationResponse answers whether a phone already applied
type CheckRegistrationResponse struct {
	Registered bool `json:"registered"`
}

// UpdateStatusRequest is the admin status change payload
type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" binding:"required,app_status"`
}

// ApplicationResponse is the admin view of an application
type ApplicationResponse struct {
	ID                     uuid.UUID         `json:"id"`
	PhoneNumber            string            `json:"phone_number"`
	AlternatePhoneNumber   *string           `json:"alternate_phone_number,omitempty"`
	Name                   string            `json:"name"`
	Email                  *string           `json:"email,omitempty"`
	Gender                 string            `json:"gender"`
	DateOfBirth            Date              `json:"date_of_birth"`
	RevenueDistrict        string            `json:"revenue_district"`
	AssemblyConstituency   string            `json:"assembly_constituency"`
	Education              string            `json:"education"`
	Specialization         *string           `json:"specialization,omitempty"`
	Occupation             string            `json:"occupation"`
	Address                *string           `json:"address,omitempty"`
	IsAlreadyMember        bool              `json:"is_already_member"`
	WantToVolunteer        bool              `json:"want_to_volunteer"`
	WantToJoinAndVolunteer bool              `json:"want_to_join_and_volunteer"`
	Motivation             string            `json:"motivation"`
	ApplicationStatus      ApplicationStatus `json:"application_status"`
	SubmittedAt            time.Time         `json:"submitted_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// ToResponse converts MembershipApplication model to ApplicationResponse
func (a *MembershipApplication) ToResponse() ApplicationResponse {
	return ApplicationResponse{
		ID:                     a.ID,
		PhoneNumber:            a.PhoneNumber,
		AlternatePhoneNumber:   a.AlternatePhoneNumber,
		Name:                   a.Name,
		Email:                  a.Email,
		Gender:                 a.Gender,
		DateOfBirth:            a.DateOfBirth,
		RevenueDistrict:        a.RevenueDistrict,
		AssemblyConstituency:   a.AssemblyConstituency,
		Education:              a.Education,
		Specialization:         a.Specialization,
		Occupation:             a.Occupation,
		Address:                a.Address,
		IsAlreadyMember:        a.IsAlreadyMember,
		WantToVolunteer:        a.WantToVolunteer,
		WantToJoinAndVolunteer: a.WantToJoinAndVolunteer,
		Motivation:             a.Motivation,
		ApplicationStatus:      a.ApplicationStatus,
		SubmittedAt:            a.SubmittedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}

// ApplicationFilter narrows the admin listing
type ApplicationFilter struct {
	Status   ApplicationStatus
	District string
	Search   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// PaginatedApplicationsResponse represents paginated applications response
type PaginatedApplicationsResponse struct {
	Data       []ApplicationResponse `json:"data"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	Total      int64                 `json:"total"`
	TotalPages int                   `json:"total_pages"`
	NextPage   *int                  `json:"next_page"`
	PrevPage   *int                  `json:"prev_page"`
}

// ApplicationStats counts applications by status
type ApplicationStats struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	UnderReview int64 `json:"under_review"`
	Approved    int64 `json:"approved"`
	Rejected    int64 `json:"rejected"`
}

// WebhookPayload is the submission notification body: the stored
// application plus its id under application_id.
type WebhookPayload struct {
	ApplicationResponse
	ApplicationID uuid.UUID `json:"application_id"`
}
