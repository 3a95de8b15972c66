package room

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hotel-occupancy/internal/booking"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(New("001", Single), New("001", Double))
	assert.ErrorIs(t, err, ErrDuplicateRoom)

	reg, err := NewRegistry(New("002", Single), New("001", Double))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	listed := reg.List()
	require.Len(t, listed, 2)
	assert.Equal(t, Number("001"), listed[0].Number())
	assert.True(t, reg.Contains(New("002", Suite)), "membership is by number")
	assert.False(t, reg.Contains(New("003", Single)))

	_, err = reg.Get("003")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, reg.Add(New("002", Single)), ErrDuplicateRoom)
}

func TestRegistrySet(t *testing.T) {
	t.Parallel()

	one, two := New("001", Single), New("002", Single)
	reg, err := NewRegistry(one, two)
	require.NoError(t, err)

	assert.ErrorIs(t, reg.Set(one, New("002", Double)), ErrDuplicateRoom)
	assert.ErrorIs(t, reg.Set(New("009", Single), New("009", Double)), ErrRoomNotFound)

	require.NoError(t, reg.Set(one, New("001", Suite)))
	got, err := reg.Get("001")
	require.NoError(t, err)
	assert.Equal(t, Suite, got.Capacity())

	require.NoError(t, reg.Set(two, New("003", Single)))
	assert.False(t, reg.Contains(two))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryUpdate(t *testing.T) {
	t.Parallel()

	b := stay(t, alice, 0, 2)
	reg, err := NewRegistry(roomWith(t, "001", b), New("002", Single))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = reg.Update("001", func(r Room) (Room, error) {
		edited, err := r.CheckIn(today)
		require.NoError(t, err)
		return edited, boom
	})
	assert.ErrorIs(t, err, boom)
	stored, err := reg.Get("001")
	require.NoError(t, err)
	in, err := stored.IsCheckedIn()
	require.NoError(t, err)
	assert.False(t, in, "failed update leaves the registry unchanged")

	_, err = reg.Update("042", func(r Room) (Room, error) { return r, nil })
	assert.ErrorIs(t, err, ErrRoomNotFound)

	source, dest, err := reg.UpdatePair("001", "002", func(a, b Room) (Room, Room, error) {
		return a.Reassign(stay(t, alice, 0, 2).Period(), b)
	})
	require.NoError(t, err)
	assert.False(t, source.HasBookings())

	stored, err = reg.Get("002")
	require.NoError(t, err)
	assert.True(t, stored.Bookings().Equal(dest.Bookings()))
	assert.True(t, stored.Bookings().Contains(booking.New(alice, b.Period())))
}

func TestRegistryReplace(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(New("001", Single))
	require.NoError(t, err)

	assert.ErrorIs(t, reg.Replace([]Room{New("005", Single), New("005", Double)}), ErrDuplicateRoom)
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, reg.Replace([]Room{New("005", Single), New("006", Double)}))
	assert.False(t, reg.Contains(New("001", Single)))
	assert.Equal(t, 2, reg.Len())
}
