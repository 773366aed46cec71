package zoezi

import (
	"github.com/tidwall/gjson"

	"gym-insights/backend/internal/domain/analytics"
)

// The upstream has shipped the booking's user reference under several names
// over the years. Resolve them once here; the aggregator never sees the
// variants.
var userIDKeys = []string{"user", "userId", "person"}

// NormalizeWorkouts converts the raw schedule payload into canonical
// session records. It tolerates both a bare array and a {"workouts": [...]}
// wrapper, and any garbage input simply yields no records.
func NormalizeWorkouts(data []byte) []analytics.SessionRecord {
	if !gjson.ValidBytes(data) {
		return nil
	}
	items := gjson.ParseBytes(data)
	if items.IsObject() {
		items = items.Get("workouts")
	}
	if !items.IsArray() {
		return nil
	}

	records := make([]analytics.SessionRecord, 0, len(items.Array()))
	items.ForEach(func(_, item gjson.Result) bool {
		records = append(records, normalizeWorkout(item))
		return true
	})
	return records
}

func normalizeWorkout(item gjson.Result) analytics.SessionRecord {
	rec := analytics.SessionRecord{
		TypeName:  item.Get("workoutType.name").String(),
		TypeColor: item.Get("workoutType.color").String(),
		Capacity:  int(item.Get("space").Int()),
		Booked:    int(item.Get("numBooked").Int()),
		StartTime: item.Get("startTime").String(),
	}

	item.Get("staffs").ForEach(func(_, staff gjson.Result) bool {
		rec.Instructors = append(rec.Instructors, analytics.Instructor{
			FirstName: firstOf(staff, "firstname", "firstName").String(),
			LastName:  firstOf(staff, "lastname", "lastName").String(),
			Image:     staff.Get("image").String(),
		})
		return true
	})

	item.Get("bookings").ForEach(func(_, booking gjson.Result) bool {
		rec.Bookings = append(rec.Bookings, analytics.Booking{
			UserID:             idOf(firstOf(booking, userIDKeys...)),
			TrainingCardTypeID: idOf(firstOf(booking, "trainingCardType", "trainingCardTypeId")),
		})
		return true
	})

	return rec
}

func parseSites(data []byte) []Site {
	var sites []Site
	forEachItem(data, func(item gjson.Result) {
		sites = append(sites, Site{
			ID:   item.Get("id").Int(),
			Name: item.Get("name").String(),
		})
	})
	return sites
}

func parseCardTypes(data []byte) []CardType {
	var types []CardType
	forEachItem(data, func(item gjson.Result) {
		types = append(types, CardType{
			ID:   item.Get("id").Int(),
			Name: item.Get("name").String(),
		})
	})
	return types
}

func forEachItem(data []byte, fn func(gjson.Result)) {
	if !gjson.ValidBytes(data) {
		return
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return
	}
	root.ForEach(func(_, item gjson.Result) bool {
		fn(item)
		return true
	})
}

// firstOf returns the first key present on item.
func firstOf(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// idOf accepts either a bare numeric id or an object carrying one.
func idOf(v gjson.Result) int64 {
	if v.IsObject() {
		return v.Get("id").Int()
	}
	return v.Int()
}
