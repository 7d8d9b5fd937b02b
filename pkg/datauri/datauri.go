// Package datauri converts file contents to and from base64 data URLs, the
// form attachments take on the wire.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const marker = ";base64,"

// ErrMalformed is returned for strings that do not split into exactly a
// header and a payload around the base64 marker.
var ErrMalformed = errors.New("malformed data url")

// Encode renders data as a data URL. An empty mediaType is sniffed from the
// content.
func Encode(mediaType string, data []byte) string {
	if strings.TrimSpace(mediaType) == "" {
		mediaType = Detect(data)
	}
	return "data:" + mediaType + marker + base64.StdEncoding.EncodeToString(data)
}

// Detect sniffs the MIME type of data, without parameters.
func Detect(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

// Decode splits a data URL into its media type and binary payload. The media
// type is whatever follows the first colon of the header.
func Decode(uri string) (string, []byte, error) {
	parts := strings.Split(uri, marker)
	if len(parts) != 2 {
		return "", nil, ErrMalformed
	}

	header := strings.SplitN(parts[0], ":", 3)
	if len(header) < 2 {
		return "", nil, ErrMalformed
	}
	mediaType := header[1]

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mediaType, data, nil
}
