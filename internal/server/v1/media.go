package v1

import (
	"errors"
	"strings"

	"github.com/nulzo/model-registry/pkg/api"
)

var errInvalidDataURI = errors.New("invalid data URI")

// attachmentMimeType returns the MIME type to check against the model.
// For data URIs the media type embedded in the URI wins over the declared one.
func attachmentMimeType(a api.Attachment) (string, error) {
	declared := strings.ToLower(strings.TrimSpace(a.MimeType))
	if !strings.HasPrefix(a.URL, "data:") {
		return declared, nil
	}

	// format: data:[<media type>][;base64],<data>
	comma := strings.Index(a.URL, ",")
	if comma == -1 {
		return "", errInvalidDataURI
	}

	meta := strings.Split(a.URL[len("data:"):comma], ";")
	if meta[0] == "" {
		return declared, nil
	}
	return strings.ToLower(strings.TrimSpace(meta[0])), nil
}
