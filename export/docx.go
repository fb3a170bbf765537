package export

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"lingua/session"
)

const (
	titleSize    = "36"
	headingSize  = "28"
	subheadSize  = "24"
)

// Document renders the session into a .docx buffer: the current result
// followed by every history record in insertion order. Language codes resolve
// through the fixed language table; unknown codes render as-is.
func Document(st *session.State) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText("Speech Recognition and Translation Results").Size(titleSize).Bold()

	if recognized := st.Recognized(); recognized != "" {
		doc.AddParagraph().AddText("Current Translation").Size(headingSize).Bold()
		doc.AddParagraph().AddText("Original text: " + recognized)

		if translated := st.Translated(); translated != "" {
			langName := session.LanguageName(st.Target())
			doc.AddParagraph().AddText(fmt.Sprintf("Translated to %s: %s", langName, translated))
		}
	}

	history := st.History()
	if len(history) > 0 {
		doc.AddParagraph().AddText("Translation History").Size(headingSize).Bold()

		for i, rec := range history {
			doc.AddParagraph().AddText(fmt.Sprintf("Translation %d", i+1)).Size(subheadSize).Bold()
			doc.AddParagraph().AddText("Original text: " + rec.Original)
			langName := session.LanguageName(rec.Language)
			doc.AddParagraph().AddText(fmt.Sprintf("Translated to %s: %s", langName, rec.Translated))
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}
	return buf.Bytes(), nil
}
