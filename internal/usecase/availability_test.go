package usecase

import (
	"testing"
	"time"

	"parking-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func window(startHour, startMin, endHour, endMin int) (time.Time, time.Time) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute)
}

func confirmedAt(start, end time.Time) *entity.Reservation {
	return &entity.Reservation{StartTime: start, EndTime: end, Status: entity.ReservationStatusConfirmed}
}

func TestOverlapIsHalfOpen(t *testing.T) {
	s1, e1 := window(10, 0, 11, 0)
	existing := confirmedAt(s1, e1)

	adjStart, adjEnd := window(11, 0, 12, 0)
	assert.False(t, existing.Overlaps(adjStart, adjEnd))

	beforeStart, beforeEnd := window(9, 0, 10, 0)
	assert.False(t, existing.Overlaps(beforeStart, beforeEnd))

	midStart, midEnd := window(10, 30, 11, 30)
	assert.True(t, existing.Overlaps(midStart, midEnd))

	innerStart, innerEnd := window(10, 15, 10, 45)
	assert.True(t, existing.Overlaps(innerStart, innerEnd))
}

func TestIsAvailable(t *testing.T) {
	location := hourlyLocation(1, 1)
	s1, e1 := window(10, 0, 11, 0)
	existing := []*entity.Reservation{confirmedAt(s1, e1)}

	adjStart, adjEnd := window(11, 0, 12, 0)
	assert.True(t, IsAvailable(&location, adjStart, adjEnd, existing))

	midStart, midEnd := window(10, 30, 11, 30)
	assert.False(t, IsAvailable(&location, midStart, midEnd, existing))

	location.TotalSlots = 2
	assert.True(t, IsAvailable(&location, midStart, midEnd, existing))
}

func TestIsAvailableIgnoresFinishedReservations(t *testing.T) {
	location := hourlyLocation(1, 1)
	s1, e1 := window(10, 0, 11, 0)

	cancelled := confirmedAt(s1, e1)
	cancelled.Status = entity.ReservationStatusCancelled
	completed := confirmedAt(s1, e1)
	completed.Status = entity.ReservationStatusCompleted

	assert.True(t, IsAvailable(&location, s1, e1, []*entity.Reservation{cancelled, completed}))
}

func TestIsAvailableWithoutSlots(t *testing.T) {
	location := hourlyLocation(0, 0)
	s1, e1 := window(10, 0, 11, 0)

	assert.False(t, IsAvailable(&location, s1, e1, nil))
	assert.False(t, IsAvailable(nil, s1, e1, nil))
}
