package models

import "time"

// Business is a directory listing
type Business struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	BusinessName string    `json:"business_name"`
	BusinessType string    `json:"business_type"`
	Description  string    `json:"description"`
	OwnerName    string    `json:"owner_name"`
	Village      string    `json:"village"`
	Taluka       string    `json:"taluka"`
	District     string    `json:"district"`
	Mobile       string    `json:"mobile"`
	Services     []string  `json:"services"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudentProfile is a student's education listing
type StudentProfile struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	FullName           string    `json:"full_name"`
	Age                int       `json:"age"`
	StudyLevel         string    `json:"study_level"`
	FieldOfStudy       string    `json:"field_of_study"`
	CurrentInstitution string    `json:"current_institution"`
	FutureGoal         string    `json:"future_goal"`
	IsFirstGraduate    bool      `json:"is_first_graduate"`
	Village            string    `json:"village"`
	Taluko             string    `json:"taluko"`
	District           string    `json:"district"`
	Gol                string    `json:"gol"`
	CreatedAt          time.Time `json:"created_at"`
}

// TrustEvent is a community event run by the trust
type TrustEvent struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	AttendeesCount int       `json:"attendees_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrustRegistration is a student's registration for a trust event
type TrustRegistration struct {
	ID            string    `json:"id"`
	EventID       *string   `json:"event_id,omitempty"`
	UserID        string    `json:"user_id"`
	FullName      string    `json:"full_name"`
	SubSurname    string    `json:"sub_surname"`
	Village       string    `json:"village"`
	Taluko        string    `json:"taluko"`
	District      string    `json:"district"`
	Gol           string    `json:"gol"`
	SchoolCollege string    `json:"school_college"`
	Percentage    string    `json:"percentage"`
	PassingYear   string    `json:"passing_year"`
	MarksheetURL  string    `json:"marksheet_url"`
	Mobile        string    `json:"mobile"`
	CreatedAt     time.Time `json:"created_at"`
}

// WeddingParty describes the groom or the bride in a group wedding registration
type WeddingParty struct {
	Name     string `json:"name"`
	Father   string `json:"father"`
	Mother   string `json:"mother"`
	PetaAtak string `json:"peta_atak"`
	Village  string `json:"village"`
	Taluka   string `json:"taluka"`
	District string `json:"district"`
	Gol      string `json:"gol"`
	Mobile   string `json:"mobile"`
	PhotoURL string `json:"photo_url"`
}

// WeddingRegistration is a couple registered for the samuh lagan (group wedding)
type WeddingRegistration struct {
	ID        string       `json:"id"`
	EventID   *string      `json:"event_id,omitempty"`
	UserID    string       `json:"user_id"`
	Groom     WeddingParty `json:"groom"`
	Bride     WeddingParty `json:"bride"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// TrustSuggestion is free-form feedback to the trust
type TrustSuggestion struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// FundStats holds the trust's headline numbers
type FundStats struct {
	TotalFund      string    `json:"total_fund"`
	TotalDonors    string    `json:"total_donors"`
	UpcomingEvents string    `json:"upcoming_events"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Notice is a notice-board post from an administrator
type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
