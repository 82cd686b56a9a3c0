package applications

import (
	"time"

	"jobboard-backend/internal/opportunities"
	"jobboard-backend/internal/users"
)

type Application struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	OpportunityID int64     `json:"opportunityId"`
	ResumeID      *int64    `json:"resumeId"`
	Answer1       string    `json:"answer1"`
	Answer2       string    `json:"answer2"`
	Answer3       string    `json:"answer3"`
	Answer4       string    `json:"answer4"`
	Answer5       string    `json:"answer5"`
	CreatedAt     time.Time `json:"timestamp"`

	// Applicant is embedded in the poster's views.
	Applicant *users.Profile `json:"applicant,omitempty"`
	// Opportunity is embedded in the applicant's views while it stays visible.
	Opportunity *opportunities.Opportunity `json:"opportunity,omitempty"`
}

type Input struct {
	ResumeID *int64 `json:"resumeId" binding:"omitempty,gt=0"`
	Answer1  string `json:"answer1" binding:"max=1000"`
	Answer2  string `json:"answer2" binding:"max=1000"`
	Answer3  string `json:"answer3" binding:"max=1000"`
	Answer4  string `json:"answer4" binding:"max=1000"`
	Answer5  string `json:"answer5" binding:"max=1000"`
}

func (in Input) application(userID, opportunityID int64) Application {
	return Application{
		UserID:        userID,
		OpportunityID: opportunityID,
		ResumeID:      in.ResumeID,
		Answer1:       in.Answer1,
		Answer2:       in.Answer2,
		Answer3:       in.Answer3,
		Answer4:       in.Answer4,
		Answer5:       in.Answer5,
	}
}
