package mongo

import (
	"alcyxob/tritrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

const scheduledDateLayout = "2006-01-02"

// userTimeRangeFilter scopes a query to userID and, when set, an inclusive range on a time field.
func userTimeRangeFilter(userID, field string, r repository.DateRange) bson.M {
	filter := bson.M{"userId": userID}
	bounds := bson.M{}
	if !r.Start.IsZero() {
		bounds["$gte"] = r.Start.UTC()
	}
	if !r.End.IsZero() {
		bounds["$lte"] = r.End.UTC()
	}
	if len(bounds) > 0 {
		filter[field] = bounds
	}
	return filter
}

// userDateRangeFilter is userTimeRangeFilter for fields holding YYYY-MM-DD strings,
// which sort chronologically as plain strings.
func userDateRangeFilter(userID, field string, r repository.DateRange) bson.M {
	filter := bson.M{"userId": userID}
	bounds := bson.M{}
	if !r.Start.IsZero() {
		bounds["$gte"] = r.Start.UTC().Format(scheduledDateLayout)
	}
	if !r.End.IsZero() {
		bounds["$lte"] = r.End.UTC().Format(scheduledDateLayout)
	}
	if len(bounds) > 0 {
		filter[field] = bounds
	}
	return filter
}
