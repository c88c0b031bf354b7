// Package filex contains small file helpers for the media boundary:
// reading local images/audio and encoding them the way the API expects.
package filex

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
)

// ReadBase64 reads the file at path and returns its contents base64-encoded
// along with the sniffed content type (e.g. "image/jpeg").
func ReadBase64(path string) (encoded string, contentType string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), http.DetectContentType(data), nil
}
