package events_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlelieser/avatarmon/internal/events"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func eventsServer(t *testing.T, status int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestPublishUserEvent_InsertsRow(t *testing.T) {
	server, requests := eventsServer(t, http.StatusCreated)

	p, err := events.NewPublisher(server.URL, "anon-key")
	require.NoError(t, err)

	payload := events.GenerationCompletedPayload("job-1", "https://cdn.example.com/out.png")
	require.NoError(t, p.PublishUserEvent("user-1", "generation_completed", payload))

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/rest/v1/events", req.path)
	assert.Contains(t, req.body, `"channel":"user:user-1"`)
	assert.Contains(t, req.body, `"event":"generation_completed"`)
	assert.Contains(t, req.body, `"job_id":"job-1"`)
	assert.Contains(t, req.body, `"image_url":"https://cdn.example.com/out.png"`)
}

func TestPublishUserEvent_InsertFailure(t *testing.T) {
	server, _ := eventsServer(t, http.StatusInternalServerError)

	p, err := events.NewPublisher(server.URL, "anon-key")
	require.NoError(t, err)

	err = p.PublishUserEvent("user-1", "generation_failed", events.GenerationFailedPayload("job-1", "boom"))
	assert.Error(t, err)
}
