package opportunities

import "time"

type Opportunity struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	CompanyID   int64  `json:"companyId"`
	CompanyName string `json:"companyName"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Question1   string `json:"question1"`
	Question2   string `json:"question2"`
	Question3   string `json:"question3"`
	Question4   string `json:"question4"`
	Question5   string `json:"question5"`
	IsActive    bool   `json:"isActive"`
	// ApplicantCount is derived from applications at read time.
	ApplicantCount int       `json:"applicantCount"`
	CreatedAt      time.Time `json:"timestamp"`
}

type Input struct {
	CompanyID   int64  `json:"companyId" binding:"required,gt=0"`
	Position    string `json:"position" binding:"required,max=100"`
	Location    string `json:"location" binding:"max=100"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"imageUrl" binding:"max=200"`
	Question1   string `json:"question1" binding:"max=200"`
	Question2   string `json:"question2" binding:"max=200"`
	Question3   string `json:"question3" binding:"max=200"`
	Question4   string `json:"question4" binding:"max=200"`
	Question5   string `json:"question5" binding:"max=200"`
	IsActive    *bool  `json:"isActive"`
}

func (in Input) opportunity(posterID int64) Opportunity {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Opportunity{
		UserID:      posterID,
		CompanyID:   in.CompanyID,
		Position:    in.Position,
		Location:    in.Location,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Question1:   in.Question1,
		Question2:   in.Question2,
		Question3:   in.Question3,
		Question4:   in.Question4,
		Question5:   in.Question5,
		IsActive:    active,
	}
}

// Patch is a partial update. The company of an opportunity cannot change.
type Patch struct {
	Position    *string `json:"position" binding:"omitempty,min=1,max=100"`
	Location    *string `json:"location" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,max=200"`
	Question1   *string `json:"question1" binding:"omitempty,max=200"`
	Question2   *string `json:"question2" binding:"omitempty,max=200"`
	Question3   *string `json:"question3" binding:"omitempty,max=200"`
	Question4   *string `json:"question4" binding:"omitempty,max=200"`
	Question5   *string `json:"question5" binding:"omitempty,max=200"`
	IsActive    *bool   `json:"isActive"`
}

func (p Patch) apply(o Opportunity) Opportunity {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&o.Position, p.Position)
	set(&o.Location, p.Location)
	set(&o.Description, p.Description)
	set(&o.ImageURL, p.ImageURL)
	set(&o.Question1, p.Question1)
	set(&o.Question2, p.Question2)
	set(&o.Question3, p.Question3)
	set(&o.Question4, p.Question4)
	set(&o.Question5, p.Question5)
	if p.IsActive != nil {
		o.IsActive = *p.IsActive
	}
	return o
}

// Query narrows a listing by case-insensitive substring matches.
type Query struct {
	Position string
	Location string
}

type Saved struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	OpportunityID int64     `json:"opportunityId"`
	CreatedAt     time.Time `json:"timestamp"`
	// Opportunity is omitted when the saved opportunity is no longer visible.
	Opportunity *Opportunity `json:"opportunity,omitempty"`
}

type SavedInput struct {
	OpportunityID int64 `json:"opportunityId" binding:"required,gt=0"`
}
