package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-board/internal/domain"
)

// JobFilter captures listing search parameters.
type JobFilter struct {
	TitleSearch string
	PostedBy    *int64
	Limit       int
	Offset      int
}

// JobRepository encapsulates listing persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
	MarkClosed(ctx context.Context, id int64) error
	List(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	Count(ctx context.Context, filter JobFilter) (int, error)
	ListByOwnerWithCounts(ctx context.Context, ownerID int64) ([]domain.JobSummary, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, description, location, job_type, salary, posted_by, is_closed)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Description,
		job.Location,
		job.JobType,
		job.Salary,
		job.PostedBy,
		job.IsClosed,
	).Scan(&job.ID)
}

func (r *jobRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	const query = `
        SELECT id, title, description, location, job_type, salary, posted_by, is_closed
        FROM jobs WHERE id=$1`
	var job domain.Job
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Location,
		&job.JobType,
		&job.Salary,
		&job.PostedBy,
		&job.IsClosed,
	); err != nil {
		return nil, notFound(err, fmt.Sprintf("job %d", id))
	}
	return &job, nil
}

func (r *jobRepository) MarkClosed(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE jobs SET is_closed=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("job %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	where, args := jobWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT id, title, description, location, job_type, salary, posted_by, is_closed
             FROM jobs WHERE %s ORDER BY id DESC LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) Count(ctx context.Context, filter JobFilter) (int, error) {
	where, args := jobWhere(filter)
	var total int
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM jobs WHERE %s`, where), args...).Scan(&total)
	return total, err
}

func (r *jobRepository) ListByOwnerWithCounts(ctx context.Context, ownerID int64) ([]domain.JobSummary, error) {
	const query = `
        SELECT j.id, j.title, j.description, j.location, j.job_type, j.salary, j.posted_by, j.is_closed,
               COUNT(a.id)
        FROM jobs j
        LEFT JOIN applications a ON a.job_id = j.id
        WHERE j.posted_by=$1
        GROUP BY j.id
        ORDER BY j.id`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.JobSummary
	for rows.Next() {
		var summary domain.JobSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.Description,
			&summary.Location,
			&summary.JobType,
			&summary.Salary,
			&summary.PostedBy,
			&summary.IsClosed,
			&summary.ApplicantCount,
		); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

func jobWhere(filter JobFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.PostedBy != nil {
		args = append(args, *filter.PostedBy)
		clauses = append(clauses, fmt.Sprintf("posted_by=$%d", len(args)))
	}
	if filter.TitleSearch != "" {
		args = append(args, "%"+escapeLike(filter.TitleSearch)+"%")
		clauses = append(clauses, fmt.Sprintf(`title ILIKE $%d ESCAPE '\'`, len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Description,
			&job.Location,
			&job.JobType,
			&job.Salary,
			&job.PostedBy,
			&job.IsClosed,
		); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}
