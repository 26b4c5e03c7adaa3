package models

// Activity is an extracurricular activity and its enrolled participants.
// Description, Schedule and MaxParticipants are pass-through data.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Clone returns a copy that shares no memory with a.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// HasParticipant reports whether email is enrolled.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// MessageResponse is the body returned by signup and unregister.
type MessageResponse struct {
	Message string `json:"message"`
}
