package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value string `json:"value"`
}

// sequenceServer answers with the given status codes in order, recording the
// arrival time of each request. The final status is repeated if more requests
// arrive than statuses were provided.
func sequenceServer(t *testing.T, statuses []int, body string) (*httptest.Server, func() []time.Time) {
	t.Helper()
	var mu sync.Mutex
	var times []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		n := len(times)
		mu.Unlock()

		status := statuses[len(statuses)-1]
		if n <= len(statuses) {
			status = statuses[n-1]
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(body))
		}
	}))
	return server, func() []time.Time {
		mu.Lock()
		defer mu.Unlock()
		return append([]time.Time(nil), times...)
	}
}

func TestGetJSON_Success(t *testing.T) {
	server, requestTimes := sequenceServer(t, []int{http.StatusOK}, `{"value":"ok"}`)
	defer server.Close()

	client := New(3, 10*time.Millisecond, time.Second)

	var out payload
	err := client.GetJSON(context.Background(), server.URL, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Value)
	assert.Len(t, requestTimes(), 1)
}

func TestGetJSON_RetriesOnRateLimit(t *testing.T) {
	server, requestTimes := sequenceServer(t,
		[]int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK},
		`{"value":"eventually"}`)
	defer server.Close()

	client := New(3, 50*time.Millisecond, time.Second)

	var out payload
	err := client.GetJSON(context.Background(), server.URL, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "eventually", out.Value)

	times := requestTimes()
	require.Len(t, times, 3)

	// Linear backoff: the delay before attempt 3 must not be shorter than the
	// delay before attempt 2.
	firstGap := times[1].Sub(times[0])
	secondGap := times[2].Sub(times[1])
	assert.GreaterOrEqual(t, firstGap, 50*time.Millisecond)
	assert.GreaterOrEqual(t, secondGap, firstGap)
}

func TestGetJSON_NonRetryableStatusAbortsImmediately(t *testing.T) {
	server, requestTimes := sequenceServer(t, []int{http.StatusNotFound}, "")
	defer server.Close()

	client := New(3, 10*time.Millisecond, time.Second)

	var out payload
	err := client.GetJSON(context.Background(), server.URL, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Len(t, requestTimes(), 1)
}

func TestGetJSON_ExhaustsAttemptsOnRateLimit(t *testing.T) {
	server, requestTimes := sequenceServer(t, []int{http.StatusTooManyRequests}, "")
	defer server.Close()

	client := New(3, 5*time.Millisecond, time.Second)

	var out payload
	err := client.GetJSON(context.Background(), server.URL, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Len(t, requestTimes(), 3)
}

func TestGetJSON_TransportErrorRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(3, 5*time.Millisecond, time.Second)

	start := time.Now()
	var out payload
	err := client.GetJSON(context.Background(), url, nil, &out)
	require.Error(t, err)
	// Three attempts with delays of 5, 10 and 15ms between/after them.
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestGetJSON_DecodeFailure(t *testing.T) {
	server, requestTimes := sequenceServer(t, []int{http.StatusOK}, "not json")
	defer server.Close()

	client := New(3, 10*time.Millisecond, time.Second)

	var out payload
	err := client.GetJSON(context.Background(), server.URL, nil, &out)
	require.Error(t, err)
	assert.Len(t, requestTimes(), 1)
}

func TestGetJSON_SendsHeaders(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer server.Close()

	client := New(1, time.Millisecond, time.Second)

	var out payload
	err := client.GetJSON(context.Background(), server.URL, map[string]string{"Authorization": "Bearer secret"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestGetJSON_ContextCancelledDuringBackoff(t *testing.T) {
	server, _ := sequenceServer(t, []int{http.StatusTooManyRequests}, "")
	defer server.Close()

	client := New(3, time.Second, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out payload
	err := client.GetJSON(ctx, server.URL, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
