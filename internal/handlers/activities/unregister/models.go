// internal/handlers/activities/unregister/models.go
package unregister

import "activities-api/internal/common/errors"

// Registry is the part of the activity store unregister needs.
type Registry interface {
	Unregister(activityName, email string) (string, error)
}

type Input struct {
	ActivityName string `json:"activityName"`
	Email        string `json:"email"`
}

type Output struct {
	Message string `json:"message"`
}

// Validate checks the path parameter. Email is opaque and may be empty.
func (i *Input) Validate() error {
	if i.ActivityName == "" {
		return errors.NewValidationError("activity_name", "activity name is required")
	}
	return nil
}
