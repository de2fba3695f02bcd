package dectalk

// Voice identifies one of the engine's built-in voices by registry ordinal.
type Voice int

// The nine DECtalk voices. Ordinals match the engine's speaker table.
const (
	Paul Voice = iota
	Betty
	Harry
	Frank
	Dennis
	Kit
	Ursula
	Rita
	Wendy

	voiceCount
)

// VoiceCount is the number of voices in the registry.
const VoiceCount = int(voiceCount)

// voiceNames holds display names, indexed by ordinal.
var voiceNames = [voiceCount]string{
	"Paul",
	"Betty",
	"Harry",
	"Frank",
	"Dennis",
	"Kit",
	"Ursula",
	"Rita",
	"Wendy",
}

// voiceCommands holds the inline command prefix that selects each voice,
// indexed by ordinal.
var voiceCommands = [voiceCount]string{
	"[:np]",
	"[:nb]",
	"[:nh]",
	"[:nf]",
	"[:nd]",
	"[:nk]",
	"[:nu]",
	"[:nr]",
	"[:nw]",
}

// Valid reports whether v is inside the registry range.
func (v Voice) Valid() bool {
	return v >= 0 && v < voiceCount
}

// String returns the voice's display name, or "Unknown" for ordinals outside
// the registry.
func (v Voice) String() string {
	if !v.Valid() {
		return "Unknown"
	}
	return voiceNames[v]
}

// Command returns the inline command prefix that selects the voice. Ordinals
// outside the registry fall back to Paul's prefix.
func (v Voice) Command() string {
	if !v.Valid() {
		return voiceCommands[Paul]
	}
	return voiceCommands[v]
}

// Voices returns all registry voices in ordinal order.
func Voices() []Voice {
	voices := make([]Voice, VoiceCount)
	for i := range voices {
		voices[i] = Voice(i)
	}
	return voices
}

// VoiceByName looks up a voice by its display name, case-sensitively.
func VoiceByName(name string) (Voice, bool) {
	for i, n := range voiceNames {
		if n == name {
			return Voice(i), true
		}
	}
	return Paul, false
}
