package registry

import "activities-api/internal/models"

// ActivityRegistry is the seed catalogue document.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity is one seed entry.
type Activity struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ToModel converts the entry, dropping duplicate participants while keeping first-seen order.
func (a Activity) ToModel() models.Activity {
	seen := make(map[string]struct{}, len(a.Participants))
	participants := make([]string, 0, len(a.Participants))
	for _, p := range a.Participants {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		participants = append(participants, p)
	}
	return models.Activity{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}

// documentSchema constrains seed documents before they reach the store.
const documentSchema = `{
  "type": "object",
  "required": ["activities"],
  "properties": {
    "version": {"type": "string"},
    "lastUpdated": {"type": "string"},
    "activities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "participants"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "schedule": {"type": "string"},
          "max_participants": {"type": "integer", "minimum": 0},
          "participants": {"type": "array", "items": {"type": "string"}}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`
