package analytics

import (
	"fmt"
	"sort"
	"time"

	"gym-insights/backend/internal/utils"
)

// Options holds the labels and display bounds the aggregation falls back
// to, so the defaults live in one place instead of scattered literals.
type Options struct {
	UnknownLabel  string
	FallbackColor string
	HourStart     int
	HourEnd       int
}

func DefaultOptions() Options {
	return Options{
		UnknownLabel:  "Unknown",
		FallbackColor: "#9ca3af",
		HourStart:     5,
		HourEnd:       22,
	}
}

type Service struct {
	opts Options
}

func NewService(opts Options) *Service {
	if opts.UnknownLabel == "" {
		opts.UnknownLabel = DefaultOptions().UnknownLabel
	}
	if opts.FallbackColor == "" {
		opts.FallbackColor = DefaultOptions().FallbackColor
	}
	if opts.HourEnd <= opts.HourStart {
		def := DefaultOptions()
		opts.HourStart, opts.HourEnd = def.HourStart, def.HourEnd
	}
	return &Service{opts: opts}
}

// Options returns the defaults the service aggregates with.
func (s *Service) Options() Options {
	return s.opts
}

type typeAcc struct {
	color    string
	classes  int
	booked   int
	capacity int
	// per-session booked/capacity percentages; the mean of these is
	// avgBookingRate, which is not the same as booked/capacity over the
	// whole bucket
	ratioSum float64
	users    map[int64]struct{}
}

type bucketAcc struct {
	classes  int
	booked   int
	capacity int
}

type instructorAcc struct {
	image    string
	classes  int
	booked   int
	capacity int
}

// Aggregate reduces a window of session records into the analytics report.
// It is a pure function of its input: no I/O, no mutation of the records,
// and it never fails — absent type names fall back to the unknown label,
// zero denominators produce "0" rates, and records whose start time does
// not parse still count toward summary/type/instructor totals but are left
// out of the day, hour and daily-trend buckets so they cannot corrupt a
// valid calendar bucket.
func (s *Service) Aggregate(sessions []SessionRecord) *Report {
	summary := Summary{}
	allUsers := make(map[int64]struct{})

	types := make(map[string]*typeAcc)
	var typeOrder []string

	var days [7]bucketAcc
	hours := make(map[int]*bucketAcc)

	instructors := make(map[string]*instructorAcc)
	var instructorOrder []string

	daily := make(map[string]*bucketAcc)

	for i := range sessions {
		rec := &sessions[i]
		capacity := rec.Capacity
		if capacity < 0 {
			capacity = 0
		}
		booked := rec.Booked
		if booked < 0 {
			booked = 0
		}

		// summary
		summary.TotalClasses++
		summary.TotalBooked += booked
		summary.TotalCapacity += capacity
		if capacity > 0 && booked >= capacity {
			summary.FullyBookedClasses++
		}
		if booked == 0 {
			summary.EmptyClasses++
		}
		for _, b := range rec.Bookings {
			if b.UserID != 0 {
				allUsers[b.UserID] = struct{}{}
			}
		}

		// by type
		typeName := rec.TypeName
		if typeName == "" {
			typeName = s.opts.UnknownLabel
		}
		ta := types[typeName]
		if ta == nil {
			color := rec.TypeColor
			if color == "" {
				color = s.opts.FallbackColor
			}
			ta = &typeAcc{color: color, users: make(map[int64]struct{})}
			types[typeName] = ta
			typeOrder = append(typeOrder, typeName)
		}
		ta.classes++
		ta.booked += booked
		ta.capacity += capacity
		if capacity > 0 {
			ta.ratioSum += float64(booked) / float64(capacity) * 100
		}
		for _, b := range rec.Bookings {
			if b.UserID != 0 {
				ta.users[b.UserID] = struct{}{}
			}
		}

		// by instructor: a session with N instructors contributes its full
		// totals to all N buckets
		for _, ins := range rec.Instructors {
			name := utils.DisplayName(ins.FirstName, ins.LastName, s.opts.UnknownLabel)
			ia := instructors[name]
			if ia == nil {
				ia = &instructorAcc{image: ins.Image}
				instructors[name] = ia
				instructorOrder = append(instructorOrder, name)
			}
			ia.classes++
			ia.booked += booked
			ia.capacity += capacity
		}

		// calendar buckets
		start, err := utils.ParseTime(rec.StartTime)
		if err != nil {
			continue
		}
		wd := int(start.Weekday())
		days[wd].classes++
		days[wd].booked += booked
		days[wd].capacity += capacity

		h := start.Hour()
		ha := hours[h]
		if ha == nil {
			ha = &bucketAcc{}
			hours[h] = ha
		}
		ha.classes++
		ha.booked += booked
		ha.capacity += capacity

		dateKey := start.Format("2006-01-02")
		da := daily[dateKey]
		if da == nil {
			da = &bucketAcc{}
			daily[dateKey] = da
		}
		da.classes++
		da.booked += booked
		da.capacity += capacity
	}

	summary.OverallAttendanceRate = formatRate(summary.TotalBooked, summary.TotalCapacity)
	summary.AvgBookedPerClass = formatAvg(summary.TotalBooked, summary.TotalClasses)
	summary.FullyBookedRate = formatRate(summary.FullyBookedClasses, summary.TotalClasses)
	summary.EmptyRate = formatRate(summary.EmptyClasses, summary.TotalClasses)
	summary.UniqueParticipants = len(allUsers)

	byType := make([]TypeStats, 0, len(typeOrder))
	for _, name := range typeOrder {
		ta := types[name]
		byType = append(byType, TypeStats{
			Type:               name,
			Color:              ta.color,
			Classes:            ta.classes,
			TotalBooked:        ta.booked,
			TotalCapacity:      ta.capacity,
			AvgAttendance:      formatAvg(ta.booked, ta.classes),
			AttendanceRate:     formatRate(ta.booked, ta.capacity),
			AvgBookingRate:     formatFloat(ta.ratioSum / float64(ta.classes)),
			UniqueParticipants: len(ta.users),
		})
	}
	sortByRate(byType, func(t TypeStats) (float64, string) {
		return rateValue(types[t.Type].booked, types[t.Type].capacity), t.Type
	})

	byDay := make([]DayStats, 7)
	for i := 0; i < 7; i++ {
		d := days[i]
		byDay[i] = DayStats{
			Day:            time.Weekday(i).String(),
			Classes:        d.classes,
			AvgAttendance:  formatAvg(d.booked, d.classes),
			AttendanceRate: formatRate(d.booked, d.capacity),
		}
	}

	byHour := make([]HourStats, 0, s.opts.HourEnd-s.opts.HourStart+1)
	for h := s.opts.HourStart; h <= s.opts.HourEnd; h++ {
		b := bucketAcc{}
		if ha := hours[h]; ha != nil {
			b = *ha
		}
		byHour = append(byHour, HourStats{
			Hour:           h,
			Label:          fmt.Sprintf("%02d:00", h),
			Classes:        b.classes,
			AvgAttendance:  formatAvg(b.booked, b.classes),
			AttendanceRate: formatRate(b.booked, b.capacity),
		})
	}

	byInstructor := make([]InstructorStats, 0, len(instructorOrder))
	for _, name := range instructorOrder {
		ia := instructors[name]
		byInstructor = append(byInstructor, InstructorStats{
			Name:           name,
			Image:          ia.image,
			Classes:        ia.classes,
			TotalBooked:    ia.booked,
			TotalCapacity:  ia.capacity,
			AttendanceRate: formatRate(ia.booked, ia.capacity),
		})
	}
	sortByRate(byInstructor, func(i InstructorStats) (float64, string) {
		return rateValue(instructors[i.Name].booked, instructors[i.Name].capacity), i.Name
	})

	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	// fixed-width YYYY-MM-DD keys, so the lexicographic sort is chronological
	sort.Strings(dates)

	dailyTrend := make([]DailyStats, 0, len(dates))
	for _, date := range dates {
		da := daily[date]
		dailyTrend = append(dailyTrend, DailyStats{
			Date:           date,
			Classes:        da.classes,
			TotalBooked:    da.booked,
			TotalCapacity:  da.capacity,
			AttendanceRate: formatRate(da.booked, da.capacity),
		})
	}

	return &Report{
		Summary:      summary,
		ByType:       byType,
		ByDay:        byDay,
		ByHour:       byHour,
		ByInstructor: byInstructor,
		DailyTrend:   dailyTrend,
	}
}

// sortByRate orders a ranking by attendance rate descending, name ascending
// on exact ties so shuffled input still yields a deterministic order.
func sortByRate[T any](items []T, key func(T) (float64, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, ni := key(items[i])
		rj, nj := key(items[j])
		if ri != rj {
			return ri > rj
		}
		return ni < nj
	})
}

func rateValue(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

func formatRate(num, den int) string {
	if den <= 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(num)/float64(den)*100)
}

func formatAvg(sum, count int) string {
	if count <= 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(count))
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.1f", f)
}
