// internal/handlers/activities/list-activities/models.go
package listactivities

import "activities-api/internal/models"

// Registry is the part of the activity store the listing reads.
type Registry interface {
	List() map[string]models.Activity
}

// Output maps activity name to its record. It serializes as a bare JSON object.
type Output map[string]models.Activity
