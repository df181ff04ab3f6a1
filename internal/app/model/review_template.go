package model

import "time"

type TemplateSentiment string

const (
	SentimentPositive TemplateSentiment = "positive"
	SentimentNeutral  TemplateSentiment = "neutral"
)

type TemplateSource string

const (
	SourceAI       TemplateSource = "ai"
	SourceFallback TemplateSource = "fallback"
)

// ReviewTemplate is one AI-written (or fallback) customer review suggestion
type ReviewTemplate struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	BusinessID uint              `gorm:"index;not null" json:"business_id"`
	Content    string            `gorm:"type:text;not null" json:"content"`
	Sentiment  TemplateSentiment `gorm:"type:varchar(20);default:'positive'" json:"sentiment"`
	Category   string            `gorm:"type:varchar(50)" json:"category"`
	Source     TemplateSource    `gorm:"type:varchar(20);default:'ai'" json:"source"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (ReviewTemplate) TableName() string {
	return "review_templates"
}
