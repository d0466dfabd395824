package jobposting

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignsIDAndPersists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO job_postings").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepositoryWithPool(mock)
	job := &JobPosting{Title: "Backend Engineer", RequiredSkills: []string{"Go", "SQL"}}

	err = repo.Create(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepositoryWithPool(mock)
	err = repo.Create(context.Background(), &JobPosting{})
	require.ErrorIs(t, err, ErrTitleRequired)
}

func TestGetByIDReturnsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, company_id, title").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepositoryWithPool(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
