package perception

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gwillem/stalkbot/pkg/motion"
)

func TestFetchTargetOffset_CopiesPosition(t *testing.T) {
	var got StalkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathStalk, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(StalkResponse{Position: &Position{X: 100, Y: 200, Z: -50}})
	}))
	defer srv.Close()

	c := New(srv.URL, WithNumFrames(5))
	target, err := c.FetchTargetOffset(context.Background(), 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, motion.TargetOffset{X: 100, Y: 200, Z: -50}, target)
	require.Equal(t, 5, got.NumFrames)
	require.InDelta(t, 2.0, got.Timeout, 1e-9)
}

func TestFetchTargetOffset_UnreachableIsUnavailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	start := time.Now()
	_, err = New("http://"+addr).FetchTargetOffset(context.Background(), time.Second)
	require.ErrorIs(t, err, ErrUnavailable)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchTargetOffset_SlowServiceTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := New(srv.URL).FetchTargetOffset(context.Background(), 100*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchTargetOffset_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusNotFound, ErrUnavailable},
		{http.StatusGatewayTimeout, ErrTimeout},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "no stalk in view"})
		}))

		_, err := New(srv.URL).FetchTargetOffset(context.Background(), time.Second)
		require.ErrorIs(t, err, tt.want, "status %d", tt.status)
		require.Contains(t, err.Error(), "no stalk in view")
		srv.Close()
	}
}

func TestFetchTargetOffset_MalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchTargetOffset(context.Background(), time.Second)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchTargetOffset_MissingPosition(t *testing.T) {
	for _, body := range []string{`{"status":"ok"}`, `{"position":null}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		target, err := New(srv.URL).FetchTargetOffset(context.Background(), time.Second)
		srv.Close()
		require.ErrorIs(t, err, ErrUnavailable, body)
		require.ErrorContains(t, err, "no position", body)
		require.Equal(t, motion.TargetOffset{}, target)
	}
}
