package content

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScroogeKZ/CreativeStudio/internal/cache"
	"github.com/ScroogeKZ/CreativeStudio/internal/i18n"
)

// memRepo is an in-memory Repository double. It counts calls per method so
// tests can tell whether a read was served from the cache or the store.
type memRepo struct {
	services     []Service
	cases        []Case
	posts        []Post
	testimonials []Testimonial
	calls        map[string]int
}

func newMemRepo() *memRepo {
	return &memRepo{calls: make(map[string]int)}
}

func (m *memRepo) hit(method string) { m.calls[method]++ }

func (m *memRepo) ListServices(ctx context.Context, includeUnpublished bool) ([]Service, error) {
	m.hit("ListServices")
	out := make([]Service, 0)
	for _, s := range m.services {
		if includeUnpublished || s.Published {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memRepo) GetServiceBySlug(ctx context.Context, slug string) (Service, error) {
	m.hit("GetServiceBySlug")
	for _, s := range m.services {
		if s.Slug == slug {
			return s, nil
		}
	}
	return Service{}, errNoRows
}

func (m *memRepo) GetServiceByID(ctx context.Context, id string) (Service, error) {
	for _, s := range m.services {
		if s.ID == id {
			return s, nil
		}
	}
	return Service{}, errNoRows
}

func (m *memRepo) CreateService(ctx context.Context, item Service) error {
	m.services = append(m.services, item)
	return nil
}

func (m *memRepo) UpdateService(ctx context.Context, item Service) (Service, error) {
	for i, s := range m.services {
		if s.ID == item.ID {
			item.CreatedAt = s.CreatedAt
			m.services[i] = item
			return item, nil
		}
	}
	return Service{}, errNoRows
}

func (m *memRepo) DeleteService(ctx context.Context, id string) (Service, error) {
	for i, s := range m.services {
		if s.ID == id {
			m.services = append(m.services[:i], m.services[i+1:]...)
			return s, nil
		}
	}
	return Service{}, errNoRows
}

func (m *memRepo) ListCases(ctx context.Context, includeUnpublished bool) ([]Case, error) {
	m.hit("ListCases")
	out := make([]Case, 0)
	for _, c := range m.cases {
		if includeUnpublished || c.Published {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepo) ListCasesPage(ctx context.Context, page, limit int) ([]Case, int, error) {
	m.hit("ListCasesPage")
	published := make([]Case, 0)
	for _, c := range m.cases {
		if c.Published {
			published = append(published, c)
		}
	}
	start := (page - 1) * limit
	if start > len(published) {
		start = len(published)
	}
	end := start + limit
	if end > len(published) {
		end = len(published)
	}
	return published[start:end], len(published), nil
}

func (m *memRepo) GetCaseBySlug(ctx context.Context, slug string) (Case, error) {
	m.hit("GetCaseBySlug")
	for _, c := range m.cases {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Case{}, errNoRows
}

func (m *memRepo) GetCaseByID(ctx context.Context, id string) (Case, error) {
	for _, c := range m.cases {
		if c.ID == id {
			return c, nil
		}
	}
	return Case{}, errNoRows
}

func (m *memRepo) CreateCase(ctx context.Context, item Case) error {
	m.cases = append(m.cases, item)
	return nil
}

func (m *memRepo) UpdateCase(ctx context.Context, item Case) (Case, error) {
	for i, c := range m.cases {
		if c.ID == item.ID {
			item.CreatedAt = c.CreatedAt
			m.cases[i] = item
			return item, nil
		}
	}
	return Case{}, errNoRows
}

func (m *memRepo) DeleteCase(ctx context.Context, id string) (Case, error) {
	for i, c := range m.cases {
		if c.ID == id {
			m.cases = append(m.cases[:i], m.cases[i+1:]...)
			return c, nil
		}
	}
	return Case{}, errNoRows
}

func (m *memRepo) ListPosts(ctx context.Context, includeUnpublished bool) ([]Post, error) {
	m.hit("ListPosts")
	out := make([]Post, 0)
	for _, p := range m.posts {
		if includeUnpublished || p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) ListPostsPage(ctx context.Context, page, limit int) ([]Post, int, error) {
	m.hit("ListPostsPage")
	published := make([]Post, 0)
	for _, p := range m.posts {
		if p.Published {
			published = append(published, p)
		}
	}
	start := (page - 1) * limit
	if start > len(published) {
		start = len(published)
	}
	end := start + limit
	if end > len(published) {
		end = len(published)
	}
	return published[start:end], len(published), nil
}

func (m *memRepo) ListRecentPosts(ctx context.Context, limit int) ([]Post, error) {
	m.hit("ListRecentPosts")
	out := make([]Post, 0)
	for _, p := range m.posts {
		if p.Published {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memRepo) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	m.hit("GetPostBySlug")
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, errNoRows
}

func (m *memRepo) GetPostByID(ctx context.Context, id string) (Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, errNoRows
}

func (m *memRepo) CreatePost(ctx context.Context, item Post) error {
	m.posts = append(m.posts, item)
	return nil
}

func (m *memRepo) UpdatePost(ctx context.Context, item Post) (Post, error) {
	for i, p := range m.posts {
		if p.ID == item.ID {
			item.CreatedAt = p.CreatedAt
			m.posts[i] = item
			return item, nil
		}
	}
	return Post{}, errNoRows
}

func (m *memRepo) DeletePost(ctx context.Context, id string) (Post, error) {
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return p, nil
		}
	}
	return Post{}, errNoRows
}

func (m *memRepo) ListTestimonials(ctx context.Context, includeUnpublished bool) ([]Testimonial, error) {
	m.hit("ListTestimonials")
	out := make([]Testimonial, 0)
	for _, t := range m.testimonials {
		if includeUnpublished || t.Published {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRepo) CreateTestimonial(ctx context.Context, item Testimonial) error {
	m.testimonials = append(m.testimonials, item)
	return nil
}

func (m *memRepo) UpdateTestimonial(ctx context.Context, item Testimonial) (Testimonial, error) {
	for i, t := range m.testimonials {
		if t.ID == item.ID {
			item.CreatedAt = t.CreatedAt
			m.testimonials[i] = item
			return item, nil
		}
	}
	return Testimonial{}, errNoRows
}

func (m *memRepo) DeleteTestimonial(ctx context.Context, id string) (Testimonial, error) {
	for i, t := range m.testimonials {
		if t.ID == id {
			m.testimonials = append(m.testimonials[:i], m.testimonials[i+1:]...)
			return t, nil
		}
	}
	return Testimonial{}, errNoRows
}

func newTestService(t *testing.T) (*ContentService, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, cache.NewMemory(0), time.Minute, log)
	return svc, repo
}

func trilingual(prefix string) i18n.Text {
	return i18n.Text{RU: prefix + " ru", KZ: prefix + " kz", EN: prefix + " en"}
}

func serviceRequest(slug string) ServiceUpsertRequest {
	return ServiceUpsertRequest{
		Slug:        slug,
		Name:        trilingual("name"),
		Subtitle:    trilingual("subtitle"),
		Description: trilingual("description"),
		Color:       "#FF5A5F",
	}
}

func caseRequest(slug string) CaseUpsertRequest {
	return CaseUpsertRequest{
		Slug:        slug,
		Title:       trilingual("title"),
		Client:      "Acme",
		Category:    "branding",
		Image:       "/img/full.jpg",
		Thumbnail:   "/img/thumb.jpg",
		ShortResult: trilingual("short"),
		Challenge:   trilingual("challenge"),
		Solution:    trilingual("solution"),
		Results:     trilingual("results"),
	}
}

func TestListServicesPopulatesCacheOnRead(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateService(ctx, serviceRequest("branding"))
	require.NoError(t, err)

	first, err := svc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.calls["ListServices"])

	second, err := svc.ListServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls["ListServices"], "second read must be a cache hit")
}

func TestCreateServiceInvalidatesListKey(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	first, err := svc.ListServices(ctx)
	require.NoError(t, err)
	require.Empty(t, first)

	_, err = svc.CreateService(ctx, serviceRequest("seo"))
	require.NoError(t, err)

	after, err := svc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1, "write must be visible on the next read")
	assert.Equal(t, "seo", after[0].Slug)
	assert.Equal(t, 2, repo.calls["ListServices"])
}

func TestUpdateServiceEvictsOldSlugKey(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, serviceRequest("old-slug"))
	require.NoError(t, err)

	_, err = svc.GetServiceBySlug(ctx, "old-slug")
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls["GetServiceBySlug"])

	req := serviceRequest("new-slug")
	_, err = svc.UpdateService(ctx, created.ID, req)
	require.NoError(t, err)

	_, err = svc.GetServiceBySlug(ctx, "old-slug")
	assert.ErrorIs(t, err, ErrNotFound, "old slug key must not serve the renamed row")

	updated, err := svc.GetServiceBySlug(ctx, "new-slug")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
}

func TestUpdateServiceRejectsTakenSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateService(ctx, serviceRequest("taken"))
	require.NoError(t, err)
	other, err := svc.CreateService(ctx, serviceRequest("mine"))
	require.NoError(t, err)

	_, err = svc.UpdateService(ctx, other.ID, serviceRequest("taken"))
	assert.ErrorIs(t, err, ErrSlugExists)

	// Keeping its own slug is not a conflict.
	_, err = svc.UpdateService(ctx, other.ID, serviceRequest("mine"))
	assert.NoError(t, err)
}

func TestDeleteServiceEvictsSlugKey(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, serviceRequest("short-lived"))
	require.NoError(t, err)

	_, err = svc.GetServiceBySlug(ctx, "short-lived")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteService(ctx, created.ID))

	_, err = svc.GetServiceBySlug(ctx, "short-lived")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateServiceSlugFallsBackToEnglishName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := serviceRequest("")
	req.Name.EN = "Digital Marketing & SMM"
	created, err := svc.CreateService(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "digital-marketing-and-smm", created.Slug)

	req = serviceRequest("")
	req.Name.EN = "!!!"
	_, err = svc.CreateService(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestPublicListExcludesUnpublished(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	published := serviceRequest("visible")
	_, err := svc.CreateService(ctx, published)
	require.NoError(t, err)

	off := false
	hidden := serviceRequest("hidden")
	hidden.Published = &off
	_, err = svc.CreateService(ctx, hidden)
	require.NoError(t, err)

	public, err := svc.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "visible", public[0].Slug)

	admin, err := svc.AdminListServices(ctx)
	require.NoError(t, err)
	assert.Len(t, admin, 2)
}

func TestPaginatedCaseKeyAgesOutInsteadOfEvicting(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCase(ctx, caseRequest("first"))
	require.NoError(t, err)

	page, err := svc.ListCasesPage(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, 1, repo.calls["ListCasesPage"])

	_, err = svc.CreateCase(ctx, caseRequest("second"))
	require.NoError(t, err)

	// Page keys are not evicted on write; the stale page persists until TTL.
	stale, err := svc.ListCasesPage(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, stale.Total)
	assert.Equal(t, 1, repo.calls["ListCasesPage"])

	// The unpaginated list key was evicted and shows the new row.
	all, err := svc.ListCases(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPaginatedTotals(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		_, err := svc.CreateCase(ctx, caseRequest(slug))
		require.NoError(t, err)
	}

	page, err := svc.ListCasesPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Data, 2)
}

func TestRecentPostsCachedPerLimit(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	for _, slug := range []string{"p1", "p2", "p3"} {
		req := PostUpsertRequest{
			Slug:       slug,
			Title:      trilingual("title"),
			Excerpt:    trilingual("excerpt"),
			Content:    trilingual("content"),
			CoverImage: "/img/cover.jpg",
			Category:   "news",
		}
		_, err := svc.CreatePost(ctx, req)
		require.NoError(t, err)
	}

	recent, err := svc.ListRecentPosts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 1, repo.calls["ListRecentPosts"])

	_, err = svc.ListRecentPosts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls["ListRecentPosts"])

	// A different limit is a different key.
	wider, err := svc.ListRecentPosts(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, wider, 3)
	assert.Equal(t, 2, repo.calls["ListRecentPosts"])
}

func TestGetServiceBySlugSurvivesCacheRoundTrip(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	req := serviceRequest("smm")
	req.Name = i18n.Text{RU: "Продвижение", KZ: "Жылжыту", EN: "Promotion"}
	req.Features = i18n.StringList{"strategy", "content"}
	created, err := svc.CreateService(ctx, req)
	require.NoError(t, err)

	fresh, err := svc.GetServiceBySlug(ctx, "smm")
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls["GetServiceBySlug"])

	cachedItem, err := svc.GetServiceBySlug(ctx, "smm")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls["GetServiceBySlug"])

	assert.Equal(t, created.ID, cachedItem.ID)
	assert.Equal(t, fresh.Name, cachedItem.Name)
	assert.Equal(t, "Продвижение", cachedItem.Name.RU)
	assert.Equal(t, "Жылжыту", cachedItem.Name.KZ)
	assert.Equal(t, i18n.StringList{"strategy", "content"}, cachedItem.Features)
}

func TestGetServiceBySlugNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetServiceBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTestimonialDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTestimonial(ctx, TestimonialUpsertRequest{
		ClientName:     "Aigerim",
		ClientPosition: trilingual("position"),
		CompanyName:    "Acme",
		Quote:          trilingual("quote"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created.Rating)
	assert.True(t, created.Published)

	listed, err := svc.ListTestimonials(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}
