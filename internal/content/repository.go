package content

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ScroogeKZ/CreativeStudio/internal/db"
)

var errNoRows = errors.New("no rows")

// Repository is the storage contract for all four content entity types.
// Reads are parameterized by includeUnpublished so the public and admin
// surfaces share one query path.
type Repository interface {
	ListServices(ctx context.Context, includeUnpublished bool) ([]Service, error)
	GetServiceBySlug(ctx context.Context, slug string) (Service, error)
	GetServiceByID(ctx context.Context, id string) (Service, error)
	CreateService(ctx context.Context, item Service) error
	UpdateService(ctx context.Context, item Service) (Service, error)
	DeleteService(ctx context.Context, id string) (Service, error)

	ListCases(ctx context.Context, includeUnpublished bool) ([]Case, error)
	ListCasesPage(ctx context.Context, page, limit int) ([]Case, int, error)
	GetCaseBySlug(ctx context.Context, slug string) (Case, error)
	GetCaseByID(ctx context.Context, id string) (Case, error)
	CreateCase(ctx context.Context, item Case) error
	UpdateCase(ctx context.Context, item Case) (Case, error)
	DeleteCase(ctx context.Context, id string) (Case, error)

	ListPosts(ctx context.Context, includeUnpublished bool) ([]Post, error)
	ListPostsPage(ctx context.Context, page, limit int) ([]Post, int, error)
	ListRecentPosts(ctx context.Context, limit int) ([]Post, error)
	GetPostBySlug(ctx context.Context, slug string) (Post, error)
	GetPostByID(ctx context.Context, id string) (Post, error)
	CreatePost(ctx context.Context, item Post) error
	UpdatePost(ctx context.Context, item Post) (Post, error)
	DeletePost(ctx context.Context, id string) (Post, error)

	ListTestimonials(ctx context.Context, includeUnpublished bool) ([]Testimonial, error)
	CreateTestimonial(ctx context.Context, item Testimonial) error
	UpdateTestimonial(ctx context.Context, item Testimonial) (Testimonial, error)
	DeleteTestimonial(ctx context.Context, id string) (Testimonial, error)
}

type PostgresRepository struct {
	pg *db.Postgres
}

func NewRepository(pg *db.Postgres) *PostgresRepository {
	return &PostgresRepository{pg: pg}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const serviceColumns = `id, slug, name, subtitle, description, color, features, published, "order", created_at`

func (r *PostgresRepository) scanService(row squirrel.RowScanner) (Service, error) {
	var item Service
	err := row.Scan(&item.ID, &item.Slug, &item.Name, &item.Subtitle, &item.Description,
		&item.Color, &item.Features, &item.Published, &item.Order, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Service{}, errNoRows
	}
	return item, err
}

func (r *PostgresRepository) ListServices(ctx context.Context, includeUnpublished bool) ([]Service, error) {
	q := r.pg.Builder.Select(serviceColumns).From("services").OrderBy(`"order" ASC`, "created_at DESC")
	if !includeUnpublished {
		q = q.Where(squirrel.Eq{"published": true})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Service, 0)
	for rows.Next() {
		item, err := r.scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetServiceBySlug(ctx context.Context, slug string) (Service, error) {
	query, args, err := r.pg.Builder.Select(serviceColumns).From("services").Where(squirrel.Eq{"slug": slug}).ToSql()
	if err != nil {
		return Service{}, err
	}
	return r.scanService(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetServiceByID(ctx context.Context, id string) (Service, error) {
	query, args, err := r.pg.Builder.Select(serviceColumns).From("services").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return Service{}, err
	}
	return r.scanService(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) CreateService(ctx context.Context, item Service) error {
	query, args, err := r.pg.Builder.Insert("services").
		Columns("id", "slug", "name", "subtitle", "description", "color", "features", "published", `"order"`, "created_at").
		Values(item.ID, item.Slug, item.Name, item.Subtitle, item.Description, item.Color, item.Features, item.Published, item.Order, item.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) UpdateService(ctx context.Context, item Service) (Service, error) {
	query, args, err := r.pg.Builder.Update("services").
		Set("slug", item.Slug).
		Set("name", item.Name).
		Set("subtitle", item.Subtitle).
		Set("description", item.Description).
		Set("color", item.Color).
		Set("features", item.Features).
		Set("published", item.Published).
		Set(`"order"`, item.Order).
		Where(squirrel.Eq{"id": item.ID}).
		Suffix("RETURNING " + serviceColumns).
		ToSql()
	if err != nil {
		return Service{}, err
	}
	return r.scanService(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) DeleteService(ctx context.Context, id string) (Service, error) {
	query, args, err := r.pg.Builder.Delete("services").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + serviceColumns).
		ToSql()
	if err != nil {
		return Service{}, err
	}
	return r.scanService(r.pg.DB.QueryRowContext(ctx, query, args...))
}

const caseColumns = `id, slug, title, client, category, image, thumbnail, short_result, challenge, solution, results, kpi, screenshots, published, "order", created_at`

func (r *PostgresRepository) scanCase(row squirrel.RowScanner) (Case, error) {
	var item Case
	err := row.Scan(&item.ID, &item.Slug, &item.Title, &item.Client, &item.Category,
		&item.Image, &item.Thumbnail, &item.ShortResult, &item.Challenge, &item.Solution,
		&item.Results, &item.KPI, &item.Screenshots, &item.Published, &item.Order, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Case{}, errNoRows
	}
	return item, err
}

func (r *PostgresRepository) ListCases(ctx context.Context, includeUnpublished bool) ([]Case, error) {
	q := r.pg.Builder.Select(caseColumns).From("cases").OrderBy(`"order" DESC`, "created_at DESC")
	if !includeUnpublished {
		q = q.Where(squirrel.Eq{"published": true})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Case, 0)
	for rows.Next() {
		item, err := r.scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListCasesPage(ctx context.Context, page, limit int) ([]Case, int, error) {
	offset := (page - 1) * limit

	query, args, err := r.pg.Builder.Select(caseColumns).From("cases").
		Where(squirrel.Eq{"published": true}).
		OrderBy(`"order" DESC`, "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Case, 0)
	for rows.Next() {
		item, err := r.scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := r.pg.Builder.Select("COUNT(*)").From("cases").
		Where(squirrel.Eq{"published": true}).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pg.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PostgresRepository) GetCaseBySlug(ctx context.Context, slug string) (Case, error) {
	query, args, err := r.pg.Builder.Select(caseColumns).From("cases").Where(squirrel.Eq{"slug": slug}).ToSql()
	if err != nil {
		return Case{}, err
	}
	return r.scanCase(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetCaseByID(ctx context.Context, id string) (Case, error) {
	query, args, err := r.pg.Builder.Select(caseColumns).From("cases").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return Case{}, err
	}
	return r.scanCase(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) CreateCase(ctx context.Context, item Case) error {
	query, args, err := r.pg.Builder.Insert("cases").
		Columns("id", "slug", "title", "client", "category", "image", "thumbnail", "short_result",
			"challenge", "solution", "results", "kpi", "screenshots", "published", `"order"`, "created_at").
		Values(item.ID, item.Slug, item.Title, item.Client, item.Category, item.Image, item.Thumbnail,
			item.ShortResult, item.Challenge, item.Solution, item.Results, item.KPI, item.Screenshots,
			item.Published, item.Order, item.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) UpdateCase(ctx context.Context, item Case) (Case, error) {
	query, args, err := r.pg.Builder.Update("cases").
		Set("slug", item.Slug).
		Set("title", item.Title).
		Set("client", item.Client).
		Set("category", item.Category).
		Set("image", item.Image).
		Set("thumbnail", item.Thumbnail).
		Set("short_result", item.ShortResult).
		Set("challenge", item.Challenge).
		Set("solution", item.Solution).
		Set("results", item.Results).
		Set("kpi", item.KPI).
		Set("screenshots", item.Screenshots).
		Set("published", item.Published).
		Set(`"order"`, item.Order).
		Where(squirrel.Eq{"id": item.ID}).
		Suffix("RETURNING " + caseColumns).
		ToSql()
	if err != nil {
		return Case{}, err
	}
	return r.scanCase(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) DeleteCase(ctx context.Context, id string) (Case, error) {
	query, args, err := r.pg.Builder.Delete("cases").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + caseColumns).
		ToSql()
	if err != nil {
		return Case{}, err
	}
	return r.scanCase(r.pg.DB.QueryRowContext(ctx, query, args...))
}

const postColumns = "id, slug, title, excerpt, content, cover_image, category, author, published, created_at, updated_at"

func (r *PostgresRepository) scanPost(row squirrel.RowScanner) (Post, error) {
	var item Post
	err := row.Scan(&item.ID, &item.Slug, &item.Title, &item.Excerpt, &item.Content,
		&item.CoverImage, &item.Category, &item.Author, &item.Published, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, errNoRows
	}
	return item, err
}

func (r *PostgresRepository) ListPosts(ctx context.Context, includeUnpublished bool) ([]Post, error) {
	q := r.pg.Builder.Select(postColumns).From("posts").OrderBy("created_at DESC")
	if !includeUnpublished {
		q = q.Where(squirrel.Eq{"published": true})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Post, 0)
	for rows.Next() {
		item, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListPostsPage(ctx context.Context, page, limit int) ([]Post, int, error) {
	offset := (page - 1) * limit

	query, args, err := r.pg.Builder.Select(postColumns).From("posts").
		Where(squirrel.Eq{"published": true}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Post, 0)
	for rows.Next() {
		item, err := r.scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := r.pg.Builder.Select("COUNT(*)").From("posts").
		Where(squirrel.Eq{"published": true}).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pg.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PostgresRepository) ListRecentPosts(ctx context.Context, limit int) ([]Post, error) {
	query, args, err := r.pg.Builder.Select(postColumns).From("posts").
		Where(squirrel.Eq{"published": true}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Post, 0)
	for rows.Next() {
		item, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	query, args, err := r.pg.Builder.Select(postColumns).From("posts").Where(squirrel.Eq{"slug": slug}).ToSql()
	if err != nil {
		return Post{}, err
	}
	return r.scanPost(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetPostByID(ctx context.Context, id string) (Post, error) {
	query, args, err := r.pg.Builder.Select(postColumns).From("posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return Post{}, err
	}
	return r.scanPost(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) CreatePost(ctx context.Context, item Post) error {
	query, args, err := r.pg.Builder.Insert("posts").
		Columns("id", "slug", "title", "excerpt", "content", "cover_image", "category", "author", "published", "created_at", "updated_at").
		Values(item.ID, item.Slug, item.Title, item.Excerpt, item.Content, item.CoverImage,
			item.Category, item.Author, item.Published, item.CreatedAt, item.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) UpdatePost(ctx context.Context, item Post) (Post, error) {
	query, args, err := r.pg.Builder.Update("posts").
		Set("slug", item.Slug).
		Set("title", item.Title).
		Set("excerpt", item.Excerpt).
		Set("content", item.Content).
		Set("cover_image", item.CoverImage).
		Set("category", item.Category).
		Set("author", item.Author).
		Set("published", item.Published).
		Set("updated_at", item.UpdatedAt).
		Where(squirrel.Eq{"id": item.ID}).
		Suffix("RETURNING " + postColumns).
		ToSql()
	if err != nil {
		return Post{}, err
	}
	return r.scanPost(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) DeletePost(ctx context.Context, id string) (Post, error) {
	query, args, err := r.pg.Builder.Delete("posts").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + postColumns).
		ToSql()
	if err != nil {
		return Post{}, err
	}
	return r.scanPost(r.pg.DB.QueryRowContext(ctx, query, args...))
}

const testimonialColumns = `id, client_name, client_position, company_name, avatar, quote, rating, published, "order", created_at`

func (r *PostgresRepository) scanTestimonial(row squirrel.RowScanner) (Testimonial, error) {
	var item Testimonial
	err := row.Scan(&item.ID, &item.ClientName, &item.ClientPosition, &item.CompanyName,
		&item.Avatar, &item.Quote, &item.Rating, &item.Published, &item.Order, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Testimonial{}, errNoRows
	}
	return item, err
}

func (r *PostgresRepository) ListTestimonials(ctx context.Context, includeUnpublished bool) ([]Testimonial, error) {
	q := r.pg.Builder.Select(testimonialColumns).From("testimonials").OrderBy(`"order" ASC`, "created_at DESC")
	if !includeUnpublished {
		q = q.Where(squirrel.Eq{"published": true})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Testimonial, 0)
	for rows.Next() {
		item, err := r.scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) CreateTestimonial(ctx context.Context, item Testimonial) error {
	query, args, err := r.pg.Builder.Insert("testimonials").
		Columns("id", "client_name", "client_position", "company_name", "avatar", "quote", "rating", "published", `"order"`, "created_at").
		Values(item.ID, item.ClientName, item.ClientPosition, item.CompanyName, item.Avatar,
			item.Quote, item.Rating, item.Published, item.Order, item.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) UpdateTestimonial(ctx context.Context, item Testimonial) (Testimonial, error) {
	query, args, err := r.pg.Builder.Update("testimonials").
		Set("client_name", item.ClientName).
		Set("client_position", item.ClientPosition).
		Set("company_name", item.CompanyName).
		Set("avatar", item.Avatar).
		Set("quote", item.Quote).
		Set("rating", item.Rating).
		Set("published", item.Published).
		Set(`"order"`, item.Order).
		Where(squirrel.Eq{"id": item.ID}).
		Suffix("RETURNING " + testimonialColumns).
		ToSql()
	if err != nil {
		return Testimonial{}, err
	}
	return r.scanTestimonial(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) DeleteTestimonial(ctx context.Context, id string) (Testimonial, error) {
	query, args, err := r.pg.Builder.Delete("testimonials").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + testimonialColumns).
		ToSql()
	if err != nil {
		return Testimonial{}, err
	}
	return r.scanTestimonial(r.pg.DB.QueryRowContext(ctx, query, args...))
}
