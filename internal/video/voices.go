package video

import (
	"strings"

	"golang.org/x/text/language"
)

// Fixed lookup tables translating the lesson language into a
// speech-synthesis voice and the avatar selector into a vendor presenter.
// Unknown keys fall back to the defaults rather than failing the request.

const (
	defaultVoiceID   = "en-US-JennyNeural"
	defaultPresenter = "amy"
)

var voiceByLanguage = map[string]string{
	"en": "en-US-JennyNeural",
	"es": "es-ES-ElviraNeural",
	"hi": "hi-IN-SwaraNeural",
	"fr": "fr-FR-DeniseNeural",
}

var presenterByAvatar = map[string]string{
	"default": "amy",
	"rian":    "matthew",
	"anna":    "emma",
	"daniel":  "richard",
}

// VoiceForLanguage resolves a narration voice for a language code. Regional
// tags reduce to their base language first, so "es-MX" narrates with the
// Spanish voice.
func VoiceForLanguage(code string) string {
	code = strings.TrimSpace(code)
	if voice, ok := voiceByLanguage[code]; ok {
		return voice
	}
	if tag, err := language.Parse(code); err == nil {
		if base, conf := tag.Base(); conf > language.No {
			if voice, ok := voiceByLanguage[base.String()]; ok {
				return voice
			}
		}
	}
	return defaultVoiceID
}

// PresenterForAvatar resolves the external presenter id for an avatar selector.
func PresenterForAvatar(avatarID string) string {
	if presenter, ok := presenterByAvatar[strings.TrimSpace(avatarID)]; ok {
		return presenter
	}
	return defaultPresenter
}
