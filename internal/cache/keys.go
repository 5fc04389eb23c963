package cache

import "fmt"

// Canonical cache keys. These are part of the deployment contract: existing
// Redis instances hold entries under exactly these names.
const (
	KeyAllServices     = "all_services"
	KeyAllCases        = "all_cases"
	KeyAllPosts        = "all_posts"
	KeyAllTestimonials = "all_testimonials"
)

func ServiceKey(slug string) string {
	return "service_" + slug
}

func CaseKey(slug string) string {
	return "case_" + slug
}

func PostKey(slug string) string {
	return "post_" + slug
}

func RecentPostsKey(limit int) string {
	return fmt.Sprintf("recent_posts_%d", limit)
}

func CasesPageKey(page, limit int) string {
	return fmt.Sprintf("cases_page_%d_limit_%d", page, limit)
}

func PostsPageKey(page, limit int) string {
	return fmt.Sprintf("posts_page_%d_limit_%d", page, limit)
}
