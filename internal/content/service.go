package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ScroogeKZ/CreativeStudio/internal/cache"
	"github.com/ScroogeKZ/CreativeStudio/internal/utils"
)

var (
	ErrNotFound    = errors.New("content not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

// ContentService wraps the repository with the content cache. Reads are
// populate-on-read: cache hit short-circuits the store entirely; a miss
// queries the store and fills the canonical key. Writes evict the list key
// and the by-slug key (old and new slug on updates). Paginated page keys
// are deliberately left alone on writes: they age out within the content
// TTL, which is the accepted staleness bound for paginated listings.
type ContentService struct {
	repo Repository
	c    cache.Cache
	ttl  time.Duration
	log  *slog.Logger
}

func NewService(repo Repository, c cache.Cache, ttl time.Duration, log *slog.Logger) *ContentService {
	if ttl <= 0 {
		ttl = cache.ContentTTL
	}
	return &ContentService{repo: repo, c: c, ttl: ttl, log: log}
}

// cached loads key into dest, reporting a hit. Cache errors degrade to a
// miss so a flaky backend never breaks reads.
func (s *ContentService) cached(ctx context.Context, key string, dest interface{}) bool {
	payload, ok, err := s.c.Get(ctx, key)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		s.log.Warn("cache entry corrupt", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *ContentService) store(ctx context.Context, key string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.c.Set(ctx, key, payload, s.ttl); err != nil {
		s.log.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// evict removes keys after a successful write. A failed eviction leaves a
// stale entry alive until TTL expiry, so it gets its own distinct log line.
func (s *ContentService) evict(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.c.Delete(ctx, key); err != nil {
			s.log.Error("cache invalidation failed, stale data may persist until TTL expiry",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

func normalizeSlug(slug, fallback string) string {
	raw := slug
	if raw == "" {
		raw = fallback
	}
	return utils.Slugify(raw)
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, errNoRows):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrSlugExists
	default:
		return err
	}
}

// --- Services ---

func (s *ContentService) ListServices(ctx context.Context) ([]Service, error) {
	var items []Service
	if s.cached(ctx, cache.KeyAllServices, &items) {
		return items, nil
	}
	items, err := s.repo.ListServices(ctx, false)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.KeyAllServices, items)
	return items, nil
}

func (s *ContentService) AdminListServices(ctx context.Context) ([]Service, error) {
	return s.repo.ListServices(ctx, true)
}

func (s *ContentService) GetServiceBySlug(ctx context.Context, slug string) (Service, error) {
	key := cache.ServiceKey(slug)
	var item Service
	if s.cached(ctx, key, &item) {
		return item, nil
	}
	item, err := s.repo.GetServiceBySlug(ctx, slug)
	if err != nil {
		return Service{}, mapRepoErr(err)
	}
	s.store(ctx, key, item)
	return item, nil
}

func (s *ContentService) CreateService(ctx context.Context, req ServiceUpsertRequest) (Service, error) {
	slug := normalizeSlug(req.Slug, req.Name.EN)
	if slug == "" {
		return Service{}, ErrInvalidSlug
	}

	item := Service{
		ID:          uuid.NewString(),
		Slug:        slug,
		Name:        req.Name,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Color:       req.Color,
		Features:    req.Features,
		Published:   true,
		CreatedAt:   time.Now().UTC(),
	}
	if req.Published != nil {
		item.Published = *req.Published
	}
	if req.Order != nil {
		item.Order = *req.Order
	}

	if err := s.repo.CreateService(ctx, item); err != nil {
		return Service{}, mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllServices, cache.ServiceKey(slug))
	return item, nil
}

func (s *ContentService) UpdateService(ctx context.Context, id string, req ServiceUpsertRequest) (Service, error) {
	slug := normalizeSlug(req.Slug, req.Name.EN)
	if slug == "" {
		return Service{}, ErrInvalidSlug
	}

	item := Service{
		ID:          id,
		Slug:        slug,
		Name:        req.Name,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Color:       req.Color,
		Features:    req.Features,
		Published:   true,
	}
	if req.Published != nil {
		item.Published = *req.Published
	}
	if req.Order != nil {
		item.Order = *req.Order
	}

	if existing, err := s.repo.GetServiceBySlug(ctx, slug); err == nil && existing.ID != id {
		return Service{}, ErrSlugExists
	}
	// The row may be cached under a different slug than the request carries.
	oldSlug := ""
	if before, err := s.repo.GetServiceByID(ctx, id); err == nil {
		oldSlug = before.Slug
	}

	updated, err := s.repo.UpdateService(ctx, item)
	if err != nil {
		return Service{}, mapRepoErr(err)
	}

	keys := []string{cache.KeyAllServices, cache.ServiceKey(updated.Slug)}
	if oldSlug != "" && oldSlug != updated.Slug {
		keys = append(keys, cache.ServiceKey(oldSlug))
	}
	s.evict(ctx, keys...)
	return updated, nil
}

func (s *ContentService) DeleteService(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteService(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllServices, cache.ServiceKey(deleted.Slug))
	return nil
}

// --- Cases ---

func (s *ContentService) ListCases(ctx context.Context) ([]Case, error) {
	var items []Case
	if s.cached(ctx, cache.KeyAllCases, &items) {
		return items, nil
	}
	items, err := s.repo.ListCases(ctx, false)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.KeyAllCases, items)
	return items, nil
}

func (s *ContentService) AdminListCases(ctx context.Context) ([]Case, error) {
	return s.repo.ListCases(ctx, true)
}

func (s *ContentService) ListCasesPage(ctx context.Context, page, limit int) (Paginated[Case], error) {
	key := cache.CasesPageKey(page, limit)
	var result Paginated[Case]
	if s.cached(ctx, key, &result) {
		return result, nil
	}

	items, total, err := s.repo.ListCasesPage(ctx, page, limit)
	if err != nil {
		return Paginated[Case]{}, err
	}
	result = Paginated[Case]{
		Data:       items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}
	s.store(ctx, key, result)
	return result, nil
}

func (s *ContentService) GetCaseBySlug(ctx context.Context, slug string) (Case, error) {
	key := cache.CaseKey(slug)
	var item Case
	if s.cached(ctx, key, &item) {
		return item, nil
	}
	item, err := s.repo.GetCaseBySlug(ctx, slug)
	if err != nil {
		return Case{}, mapRepoErr(err)
	}
	s.store(ctx, key, item)
	return item, nil
}

func (s *ContentService) CreateCase(ctx context.Context, req CaseUpsertRequest) (Case, error) {
	slug := normalizeSlug(req.Slug, req.Title.EN)
	if slug == "" {
		return Case{}, ErrInvalidSlug
	}

	item := Case{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       req.Title,
		Client:      req.Client,
		Category:    req.Category,
		Image:       req.Image,
		Thumbnail:   req.Thumbnail,
		ShortResult: req.ShortResult,
		Challenge:   req.Challenge,
		Solution:    req.Solution,
		Results:     req.Results,
		KPI:         req.KPI,
		Screenshots: req.Screenshots,
		Published:   true,
		CreatedAt:   time.Now().UTC(),
	}
	if req.Published != nil {
		item.Published = *req.Published
	}
	if req.Order != nil {
		item.Order = *req.Order
	}

	if err := s.repo.CreateCase(ctx, item); err != nil {
		return Case{}, mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllCases, cache.CaseKey(slug))
	return item, nil
}

func (s *ContentService) UpdateCase(ctx context.Context, id string, req CaseUpsertRequest) (Case, error) {
	slug := normalizeSlug(req.Slug, req.Title.EN)
	if slug == "" {
		return Case{}, ErrInvalidSlug
	}

	item := Case{
		ID:          id,
		Slug:        slug,
		Title:       req.Title,
		Client:      req.Client,
		Category:    req.Category,
		Image:       req.Image,
		Thumbnail:   req.Thumbnail,
		ShortResult: req.ShortResult,
		Challenge:   req.Challenge,
		Solution:    req.Solution,
		Results:     req.Results,
		KPI:         req.KPI,
		Screenshots: req.Screenshots,
		Published:   true,
	}
	if req.Published != nil {
		item.Published = *req.Published
	}
	if req.Order != nil {
		item.Order = *req.Order
	}

	if existing, err := s.repo.GetCaseBySlug(ctx, slug); err == nil && existing.ID != id {
		return Case{}, ErrSlugExists
	}
	oldSlug := ""
	if before, err := s.repo.GetCaseByID(ctx, id); err == nil {
		oldSlug = before.Slug
	}

	updated, err := s.repo.UpdateCase(ctx, item)
	if err != nil {
		return Case{}, mapRepoErr(err)
	}

	keys := []string{cache.KeyAllCases, cache.CaseKey(updated.Slug)}
	if oldSlug != "" && oldSlug != updated.Slug {
		keys = append(keys, cache.CaseKey(oldSlug))
	}
	s.evict(ctx, keys...)
	return updated, nil
}

func (s *ContentService) DeleteCase(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteCase(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllCases, cache.CaseKey(deleted.Slug))
	return nil
}

// --- Posts ---

func (s *ContentService) ListPosts(ctx context.Context) ([]Post, error) {
	var items []Post
	if s.cached(ctx, cache.KeyAllPosts, &items) {
		return items, nil
	}
	items, err := s.repo.ListPosts(ctx, false)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.KeyAllPosts, items)
	return items, nil
}

func (s *ContentService) AdminListPosts(ctx context.Context) ([]Post, error) {
	return s.repo.ListPosts(ctx, true)
}

func (s *ContentService) ListPostsPage(ctx context.Context, page, limit int) (Paginated[Post], error) {
	key := cache.PostsPageKey(page, limit)
	var result Paginated[Post]
	if s.cached(ctx, key, &result) {
		return result, nil
	}

	items, total, err := s.repo.ListPostsPage(ctx, page, limit)
	if err != nil {
		return Paginated[Post]{}, err
	}
	result = Paginated[Post]{
		Data:       items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}
	s.store(ctx, key, result)
	return result, nil
}

func (s *ContentService) ListRecentPosts(ctx context.Context, limit int) ([]Post, error) {
	key := cache.RecentPostsKey(limit)
	var items []Post
	if s.cached(ctx, key, &items) {
		return items, nil
	}
	items, err := s.repo.ListRecentPosts(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, items)
	return items, nil
}

func (s *ContentService) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	key := cache.PostKey(slug)
	var item Post
	if s.cached(ctx, key, &item) {
		return item, nil
	}
	item, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return Post{}, mapRepoErr(err)
	}
	s.store(ctx, key, item)
	return item, nil
}

func (s *ContentService) CreatePost(ctx context.Context, req PostUpsertRequest) (Post, error) {
	slug := normalizeSlug(req.Slug, req.Title.EN)
	if slug == "" {
		return Post{}, ErrInvalidSlug
	}

	now := time.Now().UTC()
	item := Post{
		ID:         uuid.NewString(),
		Slug:       slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Category:   req.Category,
		Author:     req.Author,
		Published:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if item.Author == "" {
		item.Author = "CreativeStudio"
	}
	if req.Published != nil {
		item.Published = *req.Published
	}

	if err := s.repo.CreatePost(ctx, item); err != nil {
		return Post{}, mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllPosts, cache.PostKey(slug))
	return item, nil
}

func (s *ContentService) UpdatePost(ctx context.Context, id string, req PostUpsertRequest) (Post, error) {
	slug := normalizeSlug(req.Slug, req.Title.EN)
	if slug == "" {
		return Post{}, ErrInvalidSlug
	}

	item := Post{
		ID:         id,
		Slug:       slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Category:   req.Category,
		Author:     req.Author,
		Published:  true,
		UpdatedAt:  time.Now().UTC(),
	}
	if item.Author == "" {
		item.Author = "CreativeStudio"
	}
	if req.Published != nil {
		item.Published = *req.Published
	}

	if existing, err := s.repo.GetPostBySlug(ctx, slug); err == nil && existing.ID != id {
		return Post{}, ErrSlugExists
	}
	oldSlug := ""
	if before, err := s.repo.GetPostByID(ctx, id); err == nil {
		oldSlug = before.Slug
	}

	updated, err := s.repo.UpdatePost(ctx, item)
	if err != nil {
		return Post{}, mapRepoErr(err)
	}

	keys := []string{cache.KeyAllPosts, cache.PostKey(updated.Slug)}
	if oldSlug != "" && oldSlug != updated.Slug {
		keys = append(keys, cache.PostKey(oldSlug))
	}
	s.evict(ctx, keys...)
	return updated, nil
}

func (s *ContentService) DeletePost(ctx context.Context, id string) error {
	deleted, err := s.repo.DeletePost(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllPosts, cache.PostKey(deleted.Slug))
	return nil
}

// --- Testimonials ---

func (s *ContentService) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	var items []Testimonial
	if s.cached(ctx, cache.KeyAllTestimonials, &items) {
		return items, nil
	}
	items, err := s.repo.ListTestimonials(ctx, false)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.KeyAllTestimonials, items)
	return items, nil
}

func (s *ContentService) AdminListTestimonials(ctx context.Context) ([]Testimonial, error) {
	return s.repo.ListTestimonials(ctx, true)
}

func (s *ContentService) CreateTestimonial(ctx context.Context, req TestimonialUpsertRequest) (Testimonial, error) {
	item := Testimonial{
		ID:             uuid.NewString(),
		ClientName:     req.ClientName,
		ClientPosition: req.ClientPosition,
		CompanyName:    req.CompanyName,
		Avatar:         req.Avatar,
		Quote:          req.Quote,
		Rating:         5,
		Published:      true,
		CreatedAt:      time.Now().UTC(),
	}
	if req.Rating != nil {
		item.Rating = *req.Rating
	}
	if req.Published != nil {
		item.Published = *req.Published
	}
	if req.Order != nil {
		item.Order = *req.Order
	}

	if err := s.repo.CreateTestimonial(ctx, item); err != nil {
		return Testimonial{}, mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllTestimonials)
	return item, nil
}

func (s *ContentService) UpdateTestimonial(ctx context.Context, id string, req TestimonialUpsertRequest) (Testimonial, error) {
	item := Testimonial{
		ID:             id,
		ClientName:     req.ClientName,
		ClientPosition: req.ClientPosition,
		CompanyName:    req.CompanyName,
		Avatar:         req.Avatar,
		Quote:          req.Quote,
		Rating:         5,
		Published:      true,
	}
	if req.Rating != nil {
		item.Rating = *req.Rating
	}
	if req.Published != nil {
		item.Published = *req.Published
	}
	if req.Order != nil {
		item.Order = *req.Order
	}

	updated, err := s.repo.UpdateTestimonial(ctx, item)
	if err != nil {
		return Testimonial{}, mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllTestimonials)
	return updated, nil
}

func (s *ContentService) DeleteTestimonial(ctx context.Context, id string) error {
	if _, err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.evict(ctx, cache.KeyAllTestimonials)
	return nil
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
