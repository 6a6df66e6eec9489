package myhttp

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/shopbasket/lib/myerrors"
)

const maxBodySize = 1 << 20

// DecodeRequest fills dest from a json or url-encoded form body.
// The body is read directly so DELETE requests carry a payload as well.
func DecodeRequest(r *http.Request, dest any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error reading request body: %s", err))
	}

	mediaType := "application/json"
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		mediaType, _, err = mime.ParseMediaType(contentType)
		if err != nil {
			return myerrors.NewUnsupportedMediaTypeError(fmt.Errorf("invalid content-type '%s': %s", contentType, err))
		}
	}

	switch mediaType {
	case "application/json":
		err = json.Unmarshal(body, dest)
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("error decoding json: %s", err))
		}
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("error parsing form: %s", err))
		}
		err = formcodec.NewDecoder().Decode(dest, values)
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
		}
	default:
		return myerrors.NewUnsupportedMediaTypeError(fmt.Errorf("content-type '%s' not supported", mediaType))
	}

	return nil
}
