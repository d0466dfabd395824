package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/andreypavlenko/jobmatch/domain/candidateprofile"
	"github.com/andreypavlenko/jobmatch/domain/jobposting"
	"github.com/andreypavlenko/jobmatch/internal/matching/queue"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockJobRepo struct {
	getByID func(ctx context.Context, id string) (*jobposting.JobPosting, error)
	list    func(ctx context.Context, limit, offset int) ([]*jobposting.JobPosting, int, error)
}

func (m *mockJobRepo) Create(ctx context.Context, j *jobposting.JobPosting) error { return nil }
func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*jobposting.JobPosting, error) {
	return m.getByID(ctx, id)
}
func (m *mockJobRepo) List(ctx context.Context, limit, offset int) ([]*jobposting.JobPosting, int, error) {
	return m.list(ctx, limit, offset)
}

type mockCandidateRepo struct {
	getByID func(ctx context.Context, id string) (*candidateprofile.CandidateProfile, error)
	list    func(ctx context.Context, limit, offset int) ([]*candidateprofile.CandidateProfile, int, error)
}

func (m *mockCandidateRepo) Create(ctx context.Context, c *candidateprofile.CandidateProfile) error {
	return nil
}
func (m *mockCandidateRepo) GetByID(ctx context.Context, id string) (*candidateprofile.CandidateProfile, error) {
	return m.getByID(ctx, id)
}
func (m *mockCandidateRepo) List(ctx context.Context, limit, offset int) ([]*candidateprofile.CandidateProfile, int, error) {
	return m.list(ctx, limit, offset)
}

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return queue.New(client, time.Hour, 3)
}

func TestAsyncMatchEnqueuesJobForResolvedPair(t *testing.T) {
	jobRepo := &mockJobRepo{
		getByID: func(ctx context.Context, id string) (*jobposting.JobPosting, error) {
			return &jobposting.JobPosting{ID: id, Title: "Backend Engineer", RequiredSkills: []string{"Python"}}, nil
		},
	}
	candidateRepo := &mockCandidateRepo{
		getByID: func(ctx context.Context, id string) (*candidateprofile.CandidateProfile, error) {
			return &candidateprofile.CandidateProfile{ID: id, Skills: []string{"Python"}}, nil
		},
	}

	s := newTestServer()
	s.queue = newTestQueue(t)
	s.jobs = jobposting.NewService(jobRepo)
	s.candidates = candidateprofile.NewService(candidateRepo)
	router := setupRouter(s)

	req := httptest.NewRequest(http.MethodPost, "/v2/match?candidate_id=c1&job_id=j1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var out JobQueuedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.JobID)
	require.Equal(t, "queued", out.Status)
}

func TestAsyncMatchRequiresBothIDs(t *testing.T) {
	router := setupRouter(newTestServer())

	req := httptest.NewRequest(http.MethodPost, "/v2/match?candidate_id=c1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAsyncFindJobsEnqueuesFanOut(t *testing.T) {
	candidateRepo := &mockCandidateRepo{
		getByID: func(ctx context.Context, id string) (*candidateprofile.CandidateProfile, error) {
			return &candidateprofile.CandidateProfile{ID: id, Skills: []string{"Python"}}, nil
		},
	}
	jobRepo := &mockJobRepo{
		list: func(ctx context.Context, limit, offset int) ([]*jobposting.JobPosting, int, error) {
			return []*jobposting.JobPosting{
				{ID: "j1", Title: "Backend Engineer", RequiredSkills: []string{"Python"}},
				{ID: "j2", Title: "Frontend Engineer", RequiredSkills: []string{"React"}},
			}, 2, nil
		},
	}

	s := newTestServer()
	s.queue = newTestQueue(t)
	s.jobs = jobposting.NewService(jobRepo)
	s.candidates = candidateprofile.NewService(candidateRepo)
	router := setupRouter(s)

	body, _ := json.Marshal(AsyncFindJobsRequest{CandidateID: "c1"})
	req := httptest.NewRequest(http.MethodPost, "/v2/find-jobs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
}

func TestAsyncFindCandidatesEnqueuesFanOut(t *testing.T) {
	jobRepo := &mockJobRepo{
		getByID: func(ctx context.Context, id string) (*jobposting.JobPosting, error) {
			return &jobposting.JobPosting{ID: id, Title: "Backend Engineer", RequiredSkills: []string{"Python"}}, nil
		},
	}
	candidateRepo := &mockCandidateRepo{
		list: func(ctx context.Context, limit, offset int) ([]*candidateprofile.CandidateProfile, int, error) {
			return []*candidateprofile.CandidateProfile{
				{ID: "c1", Skills: []string{"Python"}},
				{ID: "c2", Skills: []string{"Go"}},
			}, 2, nil
		},
	}

	s := newTestServer()
	s.queue = newTestQueue(t)
	s.jobs = jobposting.NewService(jobRepo)
	s.candidates = candidateprofile.NewService(candidateRepo)
	router := setupRouter(s)

	body, _ := json.Marshal(AsyncFindCandidatesRequest{JobID: "j1"})
	req := httptest.NewRequest(http.MethodPost, "/v2/find-candidates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
}
