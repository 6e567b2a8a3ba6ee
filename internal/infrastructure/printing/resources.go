package printing

import (
	"encoding/base64"
	"html/template"
	"net/http"
	"os"
)

// LoadImageDataURI reads an image file and returns it as a data URI for
// embedding in the receipt. An empty path yields an empty URI.
func LoadImageDataURI(path string) (template.URL, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewRenderError(ErrCodeResourceNotFound, "failed to load image "+path, err)
	}
	if len(data) == 0 {
		return "", NewRenderError(ErrCodeResourceNotFound, "image "+path+" is empty", nil)
	}
	mime := http.DetectContentType(data)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}
