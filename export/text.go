// Package export renders the session into downloadable byte buffers: a Word
// document with the full history, or a flat text file with just the current
// result. Renderers read the session and never mutate it.
package export

import (
	"strings"
	"time"

	"lingua/session"
)

// TextFilename is fixed; text exports are not timestamped.
const TextFilename = "speech_translation.txt"

// DocumentFilename stamps document exports so repeated downloads don't
// collide.
func DocumentFilename(t time.Time) string {
	return "speech_translation_" + t.Format("20060102_150405") + ".docx"
}

// Text renders the current recognition result and, when one exists, the
// current translation. History is not included.
func Text(st *session.State) []byte {
	var sb strings.Builder
	sb.WriteString("Speech Recognition Result:\n")
	sb.WriteString(st.Recognized())
	sb.WriteString("\n\n")
	if translated := st.Translated(); translated != "" {
		sb.WriteString("Translated Text:\n")
		sb.WriteString(translated)
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}
