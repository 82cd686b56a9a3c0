package companies

import (
	"math"
	"time"
)

type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	// ReviewCount and ReviewAvg are computed from company_reviews at read
	// time. ReviewAvg is null while there are no reviews.
	ReviewCount int      `json:"reviewCount"`
	ReviewAvg   *float64 `json:"reviewAvg"`
}

type CompanyInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Industry    string `json:"industry" binding:"max=50"`
	Description string `json:"description" binding:"max=1000"`
	ImageURL    string `json:"imageUrl" binding:"max=200"`
}

type CompanyPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Industry    *string `json:"industry" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,max=200"`
}

func (p CompanyPatch) apply(c Company) Company {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Industry != nil {
		c.Industry = *p.Industry
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	return c
}

type Review struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"companyId"`
	UserID         int64     `json:"userId"`
	Identification string    `json:"identification"`
	Score          float64   `json:"score"`
	Review         string    `json:"review"`
	CreatedAt      time.Time `json:"timestamp"`
}

type ReviewInput struct {
	Identification string   `json:"identification" binding:"max=50"`
	Score          *float64 `json:"score" binding:"required,gte=0,lte=9.9"`
	Review         string   `json:"review" binding:"required,max=500"`
}

type ReviewPatch struct {
	Identification *string  `json:"identification" binding:"omitempty,max=50"`
	Score          *float64 `json:"score" binding:"omitempty,gte=0,lte=9.9"`
	Review         *string  `json:"review" binding:"omitempty,min=1,max=500"`
}

func (p ReviewPatch) apply(r Review) Review {
	if p.Identification != nil {
		r.Identification = *p.Identification
	}
	if p.Score != nil {
		r.Score = roundScore(*p.Score)
	}
	if p.Review != nil {
		r.Review = *p.Review
	}
	return r
}

// roundScore keeps one decimal place, matching NUMERIC(2,1).
func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}

type Question struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyId"`
	UserID    int64     `json:"userId"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"timestamp"`
}

type QuestionInput struct {
	Question string `json:"question" binding:"required,max=200"`
}

type Answer struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"questionId"`
	UserID     int64     `json:"userId"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"timestamp"`
}

type AnswerInput struct {
	Answer string `json:"answer" binding:"required,max=200"`
}
