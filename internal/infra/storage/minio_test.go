package storage_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
	"github.com/bryanwahyu/code-debugger/internal/infra/storage"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	rec := &domain.Record{ID: "abc", CreatedAt: time.Date(2024, 3, 9, 23, 0, 0, 0, time.FixedZone("WIB", 7*3600))}
	assert.Equal(t, "debug-queries/2024/03/09/abc.json", storage.ObjectKey(rec))
}

func TestStoreCreate(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotPath   string
		gotBody   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cli, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)

	rec := &domain.Record{
		ID:        "rec-1",
		Code:      "var x = 1",
		Result:    `{"errors":[],"fix":"var x = 1","explanation":"No issues detected by ESLint."}`,
		CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, storage.NewWithClient(cli, "debug").Create(context.Background(), rec))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/debug/debug-queries/2024/01/02/rec-1.json", gotPath)

	// payload may arrive aws-chunked over plain http; the JSON is still verbatim inside
	want, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(gotBody), string(want))
}
