package gateway

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tax-engine/internal/domain"
)

// documentNamespace scopes the deterministic IDs given to documents stored without one.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:tax-engine:document"))

// documentID derives a stable ID from where a document was read, so repeated
// loads of the same file produce the same IDs.
func documentID(source, fileName string, index int) string {
	return uuid.NewSHA1(documentNamespace, []byte(fmt.Sprintf("%s#%d#%s", source, index, fileName))).String()
}

// documentType maps stored type names onto the known document types. Missing or
// unknown types become OTHER.
func documentType(s string) domain.DocumentType {
	switch strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "W2", "W_2":
		return domain.DocumentTypeW2
	case "FORM_1099_INT", "1099_INT":
		return domain.DocumentType1099INT
	case "FORM_1099_DIV", "1099_DIV":
		return domain.DocumentType1099DIV
	case "FORM_1099_NEC", "1099_NEC":
		return domain.DocumentType1099NEC
	case "FORM_1099_MISC", "1099_MISC":
		return domain.DocumentType1099MISC
	}
	return domain.DocumentTypeOther
}
