package domain

// Utterance is one unit of input to be translated and relayed.
// Ephemeral: consumed exactly once, never stored.
type Utterance struct {
	Text         string
	FromLanguage string
	ToLanguage   string
	Room         RoomName
	From         ParticipantID
}

// PrimarySubtag truncates a BCP-47-like tag to its primary subtag
// ("tr-TR" -> "tr"). Deliberately lossy: translation providers expect
// bare ISO-639-1 codes, and the full tag stays verbatim on the wire.
func PrimarySubtag(tag string) string {
	if len(tag) <= 2 {
		return tag
	}
	return tag[:2]
}
