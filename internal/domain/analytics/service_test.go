package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(DefaultOptions())
}

func TestAggregateEmptyInput(t *testing.T) {
	svc := newTestService()

	got := svc.Aggregate(nil)

	assert.Equal(t, 0, got.Summary.TotalClasses)
	assert.Equal(t, "0", got.Summary.OverallAttendanceRate)
	assert.Equal(t, "0", got.Summary.AvgBookedPerClass)
	assert.Equal(t, "0", got.Summary.FullyBookedRate)
	assert.Equal(t, "0", got.Summary.EmptyRate)
	assert.Empty(t, got.ByType)
	assert.Empty(t, got.ByInstructor)
	assert.Empty(t, got.DailyTrend)

	require.Len(t, got.ByDay, 7)
	require.Len(t, got.ByHour, 18)
	for _, d := range got.ByDay {
		assert.Equal(t, 0, d.Classes)
		assert.Equal(t, "0", d.AttendanceRate)
	}
	for _, h := range got.ByHour {
		assert.Equal(t, 0, h.Classes)
		assert.Equal(t, "0", h.AttendanceRate)
	}
	assert.Equal(t, 5, got.ByHour[0].Hour)
	assert.Equal(t, 22, got.ByHour[17].Hour)
}

func TestAggregateSingleSession(t *testing.T) {
	svc := newTestService()

	// 2025-01-06 is a Monday
	got := svc.Aggregate([]SessionRecord{{
		TypeName:  "Yoga",
		TypeColor: "#80cbc4",
		Capacity:  12,
		Booked:    8,
		StartTime: "2025-01-06 18:00:00",
	}})

	assert.Equal(t, 1, got.Summary.TotalClasses)
	assert.Equal(t, 8, got.Summary.TotalBooked)
	assert.Equal(t, 12, got.Summary.TotalCapacity)
	assert.Equal(t, "66.7", got.Summary.OverallAttendanceRate)
	assert.Equal(t, "8.0", got.Summary.AvgBookedPerClass)

	require.Len(t, got.ByType, 1)
	assert.Equal(t, "Yoga", got.ByType[0].Type)
	assert.Equal(t, "#80cbc4", got.ByType[0].Color)
	assert.Equal(t, "66.7", got.ByType[0].AttendanceRate)
	assert.Equal(t, "66.7", got.ByType[0].AvgBookingRate)

	assert.Equal(t, "Monday", got.ByDay[1].Day)
	assert.Equal(t, 1, got.ByDay[1].Classes)
	assert.Equal(t, "66.7", got.ByDay[1].AttendanceRate)

	var hour18 HourStats
	for _, h := range got.ByHour {
		if h.Hour == 18 {
			hour18 = h
		}
	}
	assert.Equal(t, 1, hour18.Classes)
	assert.Equal(t, "18:00", hour18.Label)

	require.Len(t, got.DailyTrend, 1)
	assert.Equal(t, "2025-01-06", got.DailyTrend[0].Date)
	assert.Equal(t, 1, got.DailyTrend[0].Classes)
}

func TestAggregateFullyBookedAndEmpty(t *testing.T) {
	svc := newTestService()

	got := svc.Aggregate([]SessionRecord{
		{TypeName: "Spin", Capacity: 10, Booked: 10, StartTime: "2025-01-06 10:00:00"},
		{TypeName: "Spin", Capacity: 10, Booked: 0, StartTime: "2025-01-07 10:00:00"},
	})

	assert.Equal(t, 1, got.Summary.FullyBookedClasses)
	assert.Equal(t, "50.0", got.Summary.FullyBookedRate)
	assert.Equal(t, 1, got.Summary.EmptyClasses)
	assert.Equal(t, "50.0", got.Summary.EmptyRate)

	require.Len(t, got.ByType, 1)
	assert.Equal(t, "50.0", got.ByType[0].AttendanceRate)
	assert.Equal(t, "50.0", got.ByType[0].AvgBookingRate)
}

// avgBookingRate is the mean of per-session ratios, attendanceRate is the
// ratio of sums; with asymmetric capacities the two must differ.
func TestAggregateMeanOfRatiosVersusRatioOfSums(t *testing.T) {
	svc := newTestService()

	got := svc.Aggregate([]SessionRecord{
		{TypeName: "Spin", Capacity: 10, Booked: 10, StartTime: "2025-01-06 10:00:00"},
		{TypeName: "Spin", Capacity: 5, Booked: 0, StartTime: "2025-01-07 10:00:00"},
	})

	require.Len(t, got.ByType, 1)
	assert.Equal(t, "66.7", got.ByType[0].AttendanceRate)
	assert.Equal(t, "50.0", got.ByType[0].AvgBookingRate)
}

func TestAggregateInstructorFanOut(t *testing.T) {
	svc := newTestService()

	got := svc.Aggregate([]SessionRecord{{
		TypeName:  "Crossfit",
		Capacity:  10,
		Booked:    6,
		StartTime: "2025-01-06 08:00:00",
		Instructors: []Instructor{
			{FirstName: "Anna", LastName: "Berg"},
			{FirstName: "Erik", LastName: "Lund"},
		},
	}})

	require.Len(t, got.ByInstructor, 2)
	for _, ins := range got.ByInstructor {
		assert.Equal(t, 1, ins.Classes)
		assert.Equal(t, 6, ins.TotalBooked)
		assert.Equal(t, 10, ins.TotalCapacity)
		assert.Equal(t, "60.0", ins.AttendanceRate)
	}
}

func TestAggregateInstructorDefaults(t *testing.T) {
	svc := newTestService()

	got := svc.Aggregate([]SessionRecord{{
		Capacity:    10,
		Booked:      5,
		StartTime:   "2025-01-06 08:00:00",
		Instructors: []Instructor{{FirstName: "  ", LastName: ""}},
	}})

	require.Len(t, got.ByType, 1)
	assert.Equal(t, "Unknown", got.ByType[0].Type)
	assert.Equal(t, DefaultOptions().FallbackColor, got.ByType[0].Color)
	require.Len(t, got.ByInstructor, 1)
	assert.Equal(t, "Unknown", got.ByInstructor[0].Name)
}

func TestAggregateUniqueParticipants(t *testing.T) {
	svc := newTestService()

	got := svc.Aggregate([]SessionRecord{
		{
			TypeName: "Yoga", Capacity: 10, Booked: 3,
			StartTime: "2025-01-06 09:00:00",
			Bookings:  []Booking{{UserID: 1}, {UserID: 2}, {UserID: 3}},
		},
		{
			TypeName: "Yoga", Capacity: 10, Booked: 2,
			StartTime: "2025-01-07 09:00:00",
			Bookings:  []Booking{{UserID: 2}, {UserID: 4}, {UserID: 0}},
		},
	})

	// duplicates count once; a zero id means the upstream hid it
	assert.Equal(t, 4, got.Summary.UniqueParticipants)
	require.Len(t, got.ByType, 1)
	assert.Equal(t, 4, got.ByType[0].UniqueParticipants)
}

func TestAggregateMalformedStartTime(t *testing.T) {
	svc := newTestService()

	got := svc.Aggregate([]SessionRecord{
		{TypeName: "Yoga", Capacity: 10, Booked: 4, StartTime: "not a timestamp"},
		{TypeName: "Yoga", Capacity: 10, Booked: 6, StartTime: "2025-01-06 09:00:00"},
	})

	// the broken record still counts toward totals...
	assert.Equal(t, 2, got.Summary.TotalClasses)
	assert.Equal(t, 10, got.Summary.TotalBooked)
	require.Len(t, got.ByType, 1)
	assert.Equal(t, 2, got.ByType[0].Classes)

	// ...but cannot land in a calendar bucket
	dayTotal := 0
	for _, d := range got.ByDay {
		dayTotal += d.Classes
	}
	assert.Equal(t, 1, dayTotal)
	require.Len(t, got.DailyTrend, 1)
	assert.Equal(t, 1, got.DailyTrend[0].Classes)
}

func TestAggregateSortedByRateWithNameTieBreak(t *testing.T) {
	svc := newTestService()

	got := svc.Aggregate([]SessionRecord{
		{TypeName: "Zumba", Capacity: 10, Booked: 5, StartTime: "2025-01-06 09:00:00"},
		{TypeName: "Boxing", Capacity: 10, Booked: 9, StartTime: "2025-01-06 10:00:00"},
		{TypeName: "Aerial", Capacity: 10, Booked: 5, StartTime: "2025-01-06 11:00:00"},
	})

	require.Len(t, got.ByType, 3)
	assert.Equal(t, "Boxing", got.ByType[0].Type)
	assert.Equal(t, "Aerial", got.ByType[1].Type)
	assert.Equal(t, "Zumba", got.ByType[2].Type)
}

func TestAggregateOrderIndependentAndIdempotent(t *testing.T) {
	svc := newTestService()

	sessions := []SessionRecord{
		{TypeName: "Yoga", Capacity: 12, Booked: 8, StartTime: "2025-01-06 18:00:00",
			Instructors: []Instructor{{FirstName: "Anna", LastName: "Berg"}},
			Bookings:    []Booking{{UserID: 1}, {UserID: 2}}},
		{TypeName: "Spin", Capacity: 20, Booked: 20, StartTime: "2025-01-07 07:00:00",
			Bookings: []Booking{{UserID: 2}, {UserID: 3}}},
		{TypeName: "Spin", Capacity: 20, Booked: 0, StartTime: "2025-01-08 07:00:00"},
		{TypeName: "Crossfit", Capacity: 15, Booked: 11, StartTime: "2025-01-08 19:00:00",
			Instructors: []Instructor{{FirstName: "Erik", LastName: "Lund"}, {FirstName: "Anna", LastName: "Berg"}}},
	}

	first := svc.Aggregate(sessions)
	second := svc.Aggregate(sessions)
	assert.Equal(t, first, second)

	shuffled := make([]SessionRecord, len(sessions))
	copy(shuffled, sessions)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, first, svc.Aggregate(shuffled))
	}
}

func TestAggregateTotalsMatchInputSums(t *testing.T) {
	svc := newTestService()

	sessions := []SessionRecord{
		{TypeName: "A", Capacity: 7, Booked: 3, StartTime: "2025-01-06 06:00:00"},
		{TypeName: "B", Capacity: 0, Booked: 0, StartTime: "2025-01-06 23:30:00"},
		{TypeName: "C", Capacity: 30, Booked: 31, StartTime: "2025-01-09 12:00:00"},
	}

	got := svc.Aggregate(sessions)

	wantCap, wantBooked := 0, 0
	for _, s := range sessions {
		wantCap += s.Capacity
		wantBooked += s.Booked
	}
	assert.Equal(t, wantCap, got.Summary.TotalCapacity)
	assert.Equal(t, wantBooked, got.Summary.TotalBooked)

	// 23:30 is outside the 5..22 display window
	hourTotal := 0
	for _, h := range got.ByHour {
		hourTotal += h.Classes
	}
	assert.Equal(t, 2, hourTotal)

	// overbooked with capacity counts as fully booked; capacity 0 never does
	assert.Equal(t, 1, got.Summary.FullyBookedClasses)
}
