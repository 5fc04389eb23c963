package content

import (
	"time"

	"github.com/ScroogeKZ/CreativeStudio/internal/i18n"
)

// Service is a service direction shown on the public site.
type Service struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        i18n.Text       `json:"name"`
	Subtitle    i18n.Text       `json:"subtitle"`
	Description i18n.Text       `json:"description"`
	Color       string          `json:"color"`
	Features    i18n.StringList `json:"features"`
	Published   bool            `json:"published"`
	Order       int             `json:"order"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Case struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Title       i18n.Text       `json:"title"`
	Client      string          `json:"client"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Thumbnail   string          `json:"thumbnail"`
	ShortResult i18n.Text       `json:"shortResult"`
	Challenge   i18n.Text       `json:"challenge"`
	Solution    i18n.Text       `json:"solution"`
	Results     i18n.Text       `json:"results"`
	KPI         i18n.KPIList    `json:"kpi"`
	Screenshots i18n.StringList `json:"screenshots"`
	Published   bool            `json:"published"`
	Order       int             `json:"order"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Post struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      i18n.Text `json:"title"`
	Excerpt    i18n.Text `json:"excerpt"`
	Content    i18n.Text `json:"content"`
	CoverImage string    `json:"coverImage"`
	Category   string    `json:"category"`
	Author     string    `json:"author"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Testimonial struct {
	ID             string    `json:"id"`
	ClientName     string    `json:"clientName"`
	ClientPosition i18n.Text `json:"clientPosition"`
	CompanyName    string    `json:"companyName"`
	Avatar         *string   `json:"avatar"`
	Quote          i18n.Text `json:"quote"`
	Rating         int       `json:"rating"`
	Published      bool      `json:"published"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Paginated wraps a page of cases or posts together with totals.
type Paginated[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

type ServiceUpsertRequest struct {
	Slug        string          `json:"slug"`
	Name        i18n.Text       `json:"name" validate:"required"`
	Subtitle    i18n.Text       `json:"subtitle" validate:"required"`
	Description i18n.Text       `json:"description" validate:"required"`
	Color       string          `json:"color" validate:"required"`
	Features    i18n.StringList `json:"features"`
	Published   *bool           `json:"published"`
	Order       *int            `json:"order" validate:"omitempty,gte=0"`
}

type CaseUpsertRequest struct {
	Slug        string          `json:"slug"`
	Title       i18n.Text       `json:"title" validate:"required"`
	Client      string          `json:"client" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Image       string          `json:"image" validate:"required"`
	Thumbnail   string          `json:"thumbnail" validate:"required"`
	ShortResult i18n.Text       `json:"shortResult" validate:"required"`
	Challenge   i18n.Text       `json:"challenge" validate:"required"`
	Solution    i18n.Text       `json:"solution" validate:"required"`
	Results     i18n.Text       `json:"results" validate:"required"`
	KPI         i18n.KPIList    `json:"kpi"`
	Screenshots i18n.StringList `json:"screenshots"`
	Published   *bool           `json:"published"`
	Order       *int            `json:"order" validate:"omitempty,gte=0"`
}

type PostUpsertRequest struct {
	Slug       string    `json:"slug"`
	Title      i18n.Text `json:"title" validate:"required"`
	Excerpt    i18n.Text `json:"excerpt" validate:"required"`
	Content    i18n.Text `json:"content" validate:"required"`
	CoverImage string    `json:"coverImage" validate:"required"`
	Category   string    `json:"category" validate:"required"`
	Author     string    `json:"author"`
	Published  *bool     `json:"published"`
}

type TestimonialUpsertRequest struct {
	ClientName     string    `json:"clientName" validate:"required"`
	ClientPosition i18n.Text `json:"clientPosition" validate:"required"`
	CompanyName    string    `json:"companyName" validate:"required"`
	Avatar         *string   `json:"avatar"`
	Quote          i18n.Text `json:"quote" validate:"required"`
	Rating         *int      `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Published      *bool     `json:"published"`
	Order          *int      `json:"order" validate:"omitempty,gte=0"`
}
