package analyzer

import (
	"strings"

	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

// ClassifyDocType returns the first taxonomy doc type whose keywords appear in
// text. Rules are tested in taxonomy order (tutorial, concept, reference,
// troubleshooting in the bundled files); only the first match counts.
func ClassifyDocType(text string, tax *taxonomy.Taxonomy) (taxonomy.DocType, bool) {
	lower := strings.ToLower(text)
	for _, dt := range tax.DocTypes {
		if containsAny(lower, dt.Keywords) {
			return dt, true
		}
	}
	return taxonomy.DocType{}, false
}
