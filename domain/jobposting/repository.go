package jobposting

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPool is the subset of *pgxpool.Pool the repository needs, letting
// pgxmock.PgxPoolIface stand in for tests.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresRepository implements Repository against job_postings.
type PostgresRepository struct {
	pool DBPool
}

// NewPostgresRepository builds a repository bound to a live pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// NewPostgresRepositoryWithPool builds a repository over an arbitrary
// DBPool (e.g. pgxmock.NewPool() in tests).
func NewPostgresRepositoryWithPool(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, job *JobPosting) error {
	if job.Title == "" {
		return ErrTitleRequired
	}
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	job.CreatedAt, job.UpdatedAt = now, now

	const q = `
		INSERT INTO job_postings (
			id, company_id, title, required_skills, desired_soft_skills,
			required_experience_years, contract_type, location, remote_policy,
			salary_min, salary_max, benefits, company_culture, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := r.pool.Exec(ctx, q,
		job.ID, job.CompanyID, job.Title, job.RequiredSkills, job.DesiredSoftSkills,
		job.RequiredExperienceYears, job.ContractType, job.Location, job.RemotePolicy,
		job.SalaryMin, job.SalaryMax, job.Benefits, job.CompanyCulture, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*JobPosting, error) {
	const q = `
		SELECT id, company_id, title, required_skills, desired_soft_skills,
			required_experience_years, contract_type, location, remote_policy,
			salary_min, salary_max, benefits, company_culture, created_at, updated_at
		FROM job_postings WHERE id = $1`

	j := &JobPosting{}
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.RequiredSkills, &j.DesiredSoftSkills,
		&j.RequiredExperienceYears, &j.ContractType, &j.Location, &j.RemotePolicy,
		&j.SalaryMin, &j.SalaryMax, &j.Benefits, &j.CompanyCulture, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return j, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*JobPosting, int, error) {
	const q = `
		SELECT id, company_id, title, required_skills, desired_soft_skills,
			required_experience_years, contract_type, location, remote_policy,
			salary_min, salary_max, benefits, company_culture, created_at, updated_at
		FROM job_postings ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*JobPosting
	for rows.Next() {
		j := &JobPosting{}
		if err := rows.Scan(
			&j.ID, &j.CompanyID, &j.Title, &j.RequiredSkills, &j.DesiredSoftSkills,
			&j.RequiredExperienceYears, &j.ContractType, &j.Location, &j.RemotePolicy,
			&j.SalaryMin, &j.SalaryMax, &j.Benefits, &j.CompanyCulture, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_postings`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
