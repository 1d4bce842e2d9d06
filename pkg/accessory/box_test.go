package accessory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePort struct {
	bytes.Buffer
	closed bool
	err    error
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.Buffer.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

var _ SerialAccessory = (*Box)(nil)

func TestBox_Deploy(t *testing.T) {
	port := &fakePort{}
	box := NewBox(port)

	require.NoError(t, box.Deploy(context.Background(), 3))
	require.NoError(t, box.Deploy(context.Background(), 12))
	require.Equal(t, "o 3\no 12\n", port.String())

	require.NoError(t, box.Close())
	require.True(t, port.closed)
}

func TestBox_DeployRejectsInvalidBox(t *testing.T) {
	port := &fakePort{}
	err := NewBox(port).Deploy(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidBox)
	require.Zero(t, port.Len())
}

func TestBox_DeployWriteError(t *testing.T) {
	port := &fakePort{err: errors.New("device gone")}
	err := NewBox(port).Deploy(context.Background(), 1)
	require.ErrorContains(t, err, "device gone")
}

func TestBox_DeployCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	port := &fakePort{}
	require.ErrorIs(t, NewBox(port).Deploy(ctx, 1), context.Canceled)
	require.Zero(t, port.Len())
}
