package robot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBridgeArm_MoveRelativeSendsPose(t *testing.T) {
	var got RelativeMoveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathMoveRelative, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	arm := NewBridgeArm(srv.URL + "/")
	require.NoError(t, arm.MoveRelative(context.Background(), Translate(211.5, 0, 0)))
	require.Equal(t, [6]float64{211.5, 0, 0, 0, 0, 0}, got.Pose)
	require.True(t, got.Wait)
}

func TestBridgeArm_RelativeJointMove(t *testing.T) {
	var got JointMoveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	arm := NewBridgeArm(srv.URL)
	require.NoError(t, arm.MoveJointsRelative(context.Background(), ToolRotation(90)))
	require.True(t, got.Relative)
	require.Equal(t, 90.0, got.Angles[5])
}

func TestBridgeArm_RejectionIsFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "joint limit"})
	}))
	defer srv.Close()

	err := NewBridgeArm(srv.URL).MoveJoints(context.Background(), Home.Joints)
	require.ErrorIs(t, err, ErrFault)
	require.Contains(t, err.Error(), "joint limit")
}

func TestBridgeArm_TimeoutIsFault(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	arm := NewBridgeArm(srv.URL, WithCommandTimeout(50*time.Millisecond))
	start := time.Now()
	err := arm.MoveRelative(context.Background(), Translate(0, 1, 0))
	require.ErrorIs(t, err, ErrFault)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestBridgeArm_UnreachableIsFault(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewBridgeArm(url).Enable(context.Background())
	require.ErrorIs(t, err, ErrFault)
}

func TestBridgeArm_Pose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(PoseResponse{Pose: [6]float64{1, 2, 3, 180, 0, 0}})
	}))
	defer srv.Close()

	pose, err := NewBridgeArm(srv.URL).Pose(context.Background())
	require.NoError(t, err)
	require.Equal(t, NewAbsolutePose(1, 2, 3, 180, 0, 0), pose)
}
