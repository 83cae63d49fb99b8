package main

import (
	"net/http"
	"testing"

	"flight_logbook/internal/mockserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopMock(t *testing.T) {
	mock, err := mockserver.New(mockserver.DefaultSeed(1)).Start("127.0.0.1:0")
	require.NoError(t, err)

	stopMock(mock)
	// A shut down server refuses to serve again
	assert.ErrorIs(t, mock.ListenAndServe(), http.ErrServerClosed)

	assert.NotPanics(t, func() { stopMock(nil) })
}

func TestLoopback(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8086", loopback(":8086"))
	assert.Equal(t, "localhost:8086", loopback("localhost:8086"))
}
