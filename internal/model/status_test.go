package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus_Valid(t *testing.T) {
	t.Parallel()
	for _, s := range []Status{
		StatusPending, StatusDelivered, StatusInUse, StatusReturned,
		StatusCompleted, StatusCancelled, StatusDelayed,
	} {
		require.True(t, s.Valid(), s)
	}
	require.False(t, Status("shipped").Valid())
	require.False(t, Status("").Valid())
}

func TestStatus_Lifecycle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status     Status
		canDeliver bool
		canReturn  bool
		canExtend  bool
		canCancel  bool
	}{
		{StatusPending, true, false, true, true},
		{StatusDelivered, false, true, true, true},
		{StatusInUse, false, true, true, true},
		{StatusDelayed, false, false, true, true},
		{StatusReturned, false, false, false, false},
		{StatusCompleted, false, false, false, false},
		{StatusCancelled, false, false, false, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.canDeliver, tt.status.CanDeliver())
			require.Equal(t, tt.canReturn, tt.status.CanReturn())
			require.Equal(t, tt.canExtend, tt.status.CanExtend())
			require.Equal(t, tt.canCancel, tt.status.CanCancel())
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()
	require.True(t, StatusDelivered.CanTransitionTo(StatusInUse))
	require.True(t, StatusDelayed.CanTransitionTo(StatusInUse))
	require.True(t, StatusReturned.CanTransitionTo(StatusCompleted))

	require.False(t, StatusPending.CanTransitionTo(StatusInUse))
	require.False(t, StatusPending.CanTransitionTo(StatusDelivered))
	require.False(t, StatusInUse.CanTransitionTo(StatusReturned))
	require.False(t, StatusCompleted.CanTransitionTo(StatusInUse))
	require.False(t, StatusCancelled.CanTransitionTo(StatusPending))
}
