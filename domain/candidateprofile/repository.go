package candidateprofile

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPool is the subset of *pgxpool.Pool the repository needs.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresRepository implements Repository against candidate_profiles.
type PostgresRepository struct {
	pool DBPool
}

// NewPostgresRepository builds a repository bound to a live pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// NewPostgresRepositoryWithPool builds a repository over an arbitrary DBPool.
func NewPostgresRepositoryWithPool(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, c *CandidateProfile) error {
	if len(c.Skills) == 0 {
		return ErrSkillsRequired
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.MaxCommuteMinutes <= 0 {
		c.MaxCommuteMinutes = 60
	}

	prioritiesJSON, err := json.Marshal(c.Priorities)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO candidate_profiles (
			id, display_name, skills, soft_skills, years_experience, location,
			salary_expectation, contract_types, remote_preference, transport_preference,
			departure_time_local, max_commute_minutes, priorities, values, culture_preferences,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err = r.pool.Exec(ctx, q,
		c.ID, c.DisplayName, c.Skills, c.SoftSkills, c.YearsExperience, c.Location,
		c.SalaryExpectation, c.ContractTypes, c.RemotePreference, c.TransportPreference,
		c.DepartureTimeLocal, c.MaxCommuteMinutes, prioritiesJSON, c.Values, c.CulturePreferences,
		c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*CandidateProfile, error) {
	const q = `
		SELECT id, display_name, skills, soft_skills, years_experience, location,
			salary_expectation, contract_types, remote_preference, transport_preference,
			departure_time_local, max_commute_minutes, priorities, values, culture_preferences,
			created_at, updated_at
		FROM candidate_profiles WHERE id = $1`

	c := &CandidateProfile{}
	var prioritiesJSON []byte
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&c.ID, &c.DisplayName, &c.Skills, &c.SoftSkills, &c.YearsExperience, &c.Location,
		&c.SalaryExpectation, &c.ContractTypes, &c.RemotePreference, &c.TransportPreference,
		&c.DepartureTimeLocal, &c.MaxCommuteMinutes, &prioritiesJSON, &c.Values, &c.CulturePreferences,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(prioritiesJSON) > 0 {
		if err := json.Unmarshal(prioritiesJSON, &c.Priorities); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// List returns a page of candidate profiles, e.g. to build the fan-out
// candidate set for `POST /v2/find-candidates`.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*CandidateProfile, int, error) {
	const q = `
		SELECT id, display_name, skills, soft_skills, years_experience, location,
			salary_expectation, contract_types, remote_preference, transport_preference,
			departure_time_local, max_commute_minutes, priorities, values, culture_preferences,
			created_at, updated_at
		FROM candidate_profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*CandidateProfile
	for rows.Next() {
		c := &CandidateProfile{}
		var prioritiesJSON []byte
		if err := rows.Scan(
			&c.ID, &c.DisplayName, &c.Skills, &c.SoftSkills, &c.YearsExperience, &c.Location,
			&c.SalaryExpectation, &c.ContractTypes, &c.RemotePreference, &c.TransportPreference,
			&c.DepartureTimeLocal, &c.MaxCommuteMinutes, &prioritiesJSON, &c.Values, &c.CulturePreferences,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		if len(prioritiesJSON) > 0 {
			_ = json.Unmarshal(prioritiesJSON, &c.Priorities)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidate_profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
