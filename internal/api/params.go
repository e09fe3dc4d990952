package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// requireUser reads the authenticated user id, aborting with 401 when it is absent.
func requireUser(c *gin.Context) (string, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", false
	}
	return userID, true
}

// pathObjectID parses the named path parameter as an ObjectID, aborting with 400 on failure.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format.", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// queryDateRange reads the optional inclusive from/to query parameters (YYYY-MM-DD).
// "to" covers the whole day.
func queryDateRange(c *gin.Context) (repository.DateRange, bool) {
	var r repository.DateRange
	if from := c.Query("from"); from != "" {
		t, err := plan.ParseDate(from)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD.")
			return r, false
		}
		r.Start = t
	}
	if to := c.Query("to"); to != "" {
		t, err := plan.ParseDate(to)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD.")
			return r, false
		}
		r.End = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		abortWithError(c, http.StatusBadRequest, "'to' must not be before 'from'.")
		return r, false
	}
	return r, true
}

// queryDay reads the optional "date" query parameter. A missing date yields the zero time,
// which services treat as today.
func queryDay(c *gin.Context) (time.Time, bool) {
	s := c.Query("date")
	if s == "" {
		return time.Time{}, true
	}
	t, err := plan.ParseDate(s)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid 'date', expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return t, true
}
