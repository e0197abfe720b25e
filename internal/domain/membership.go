package domain

import "time"

// Membership represents a participant's binding to a room: identity,
// declared language, optional voice preference, join time.
// No transport or lifecycle logic here.
type Membership struct {
	Participant ParticipantID
	Language    string
	Voice       string
	JoinedAt    time.Time
}

// NewMembership avoids raw literals in adapters and keeps construction obvious.
func NewMembership(pid ParticipantID, language, voice string) (*Membership, error) {
	if err := pid.Validate(); err != nil {
		return nil, err
	}
	return &Membership{
		Participant: pid,
		Language:    language,
		Voice:       voice,
		JoinedAt:    time.Now().UTC(),
	}, nil
}
