package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeBlob struct {
	objects map[string][]byte
}

func newFakeBlob() *fakeBlob { return &fakeBlob{objects: map[string][]byte{}} }

func (f *fakeBlob) PutObjectBody(_ context.Context, key, _ string, body []byte) error {
	f.objects[key] = body
	return nil
}

func (f *fakeBlob) GetObjectBody(_ context.Context, key string) ([]byte, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, errNotFound
	}
	return body, nil
}

type notFoundErr struct{}

func (notFoundErr) Error() string { return "not found" }

var errNotFound = notFoundErr{}

func newTestHot(t *testing.T) goredis.Cmdable {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
}

func TestWriteReadRoundTripsThroughHotTier(t *testing.T) {
	hot := newTestHot(t)
	mockRow, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockRow.Close()
	mockRow.ExpectExec("INSERT INTO match_jobs").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s := New(hot, mockRow, newFakeBlob(), time.Hour, 1024, nil)

	payload := []byte(`{"job_id":"j1","status":"completed"}`)
	err = s.Write(context.Background(), "j1", "completed", payload, 0, 42, "")
	require.NoError(t, err)

	got, found, err := s.Read(context.Background(), "j1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, payload, got)
}

func TestWriteRoutesOversizeResultToBlobTier(t *testing.T) {
	hot := newTestHot(t)
	mockRow, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockRow.Close()
	mockRow.ExpectExec("INSERT INTO match_jobs").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	blob := newFakeBlob()
	s := New(hot, mockRow, blob, time.Hour, 4, nil) // tiny threshold forces blob routing

	payload := []byte(`{"job_id":"j2","status":"completed","results":[1,2,3]}`)
	err = s.Write(context.Background(), "j2", "completed", payload, 0, 10, "")
	require.NoError(t, err)

	if _, ok := blob.objects["results/j2.json"]; !ok {
		t.Fatalf("expected oversize payload to land in blob tier")
	}
}

func TestReadFallsBackToBlobOnRowFilePath(t *testing.T) {
	mockRow, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockRow.Close()

	rows := pgxmock.NewRows([]string{"result_json", "file_path"}).AddRow(nil, "results/j3.json")
	mockRow.ExpectQuery("SELECT result_json, file_path FROM match_jobs").WithArgs("j3").WillReturnRows(rows)

	blob := newFakeBlob()
	blob.objects["results/j3.json"] = []byte(`{"job_id":"j3"}`)

	hot := newTestHot(t) // empty: forces the row+blob path
	s := New(hot, mockRow, blob, time.Hour, 1024, nil)

	got, found, err := s.Read(context.Background(), "j3")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte(`{"job_id":"j3"}`), got)
}
