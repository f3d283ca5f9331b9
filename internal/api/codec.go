// codec.go - Wire encodings for the RPC endpoint
package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pdf-processor/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec names a supported body encoding.
type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgpack Codec = "msgpack"
)

const mimeXMsgpack = "application/x-msgpack"

// processPdfRequest mirrors models.UploadRequest with pointers so that absent
// keys can be told apart from empty values.
type processPdfRequest struct {
	Filename *string `json:"filename" msgpack:"filename"`
	Content  *[]byte `json:"pdf_content" msgpack:"pdf_content"`
}

func (r *processPdfRequest) validate() error {
	if r.Filename == nil {
		return NewValidationError("filename")
	}
	if r.Content == nil {
		return NewValidationError("pdf_content")
	}
	return nil
}

func (r *processPdfRequest) toModel() models.UploadRequest {
	return models.UploadRequest{
		Filename: *r.Filename,
		Content:  *r.Content,
	}
}

// requestCodec picks the decoder from Content-Type; a missing type means JSON.
func requestCodec(contentType string) (Codec, error) {
	if contentType == "" {
		return CodecJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", NewBadRequestError("invalid content type", err)
	}
	switch mediaType {
	case echo.MIMEApplicationJSON:
		return CodecJSON, nil
	case echo.MIMEApplicationMsgpack, mimeXMsgpack:
		return CodecMsgpack, nil
	}
	return "", NewUnsupportedMediaTypeError(mediaType)
}

// responseCodec honours an explicit Accept and otherwise answers in kind.
func responseCodec(accept string, reqCodec Codec) Codec {
	accept = strings.ToLower(accept)
	switch {
	case strings.Contains(accept, echo.MIMEApplicationMsgpack), strings.Contains(accept, mimeXMsgpack):
		return CodecMsgpack
	case strings.Contains(accept, echo.MIMEApplicationJSON):
		return CodecJSON
	}
	return reqCodec
}

func decodeProcessPdfRequest(c echo.Context) (models.UploadRequest, Codec, error) {
	codec, err := requestCodec(c.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		return models.UploadRequest{}, "", err
	}

	var req processPdfRequest
	body := c.Request().Body
	switch codec {
	case CodecMsgpack:
		if err := msgpack.NewDecoder(body).Decode(&req); err != nil {
			return models.UploadRequest{}, codec, decodeError("invalid msgpack body", err)
		}
	default:
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			return models.UploadRequest{}, codec, decodeError("invalid JSON body", err)
		}
	}

	if err := req.validate(); err != nil {
		return models.UploadRequest{}, codec, err
	}
	return req.toModel(), codec, nil
}

// decodeError keeps body-limit rejections as 413 rather than 400.
func decodeError(message string, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
		return he
	}
	return NewBadRequestError(message, err)
}

func writeResult(c echo.Context, codec Codec, result models.UploadResult) error {
	if codec == CodecMsgpack {
		b, err := msgpack.Marshal(&result)
		if err != nil {
			return NewInternalError("failed to encode response", err)
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationMsgpack, b)
	}
	return c.JSON(http.StatusOK, result)
}
