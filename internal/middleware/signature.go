package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/albaranes-api/internal/constants"
	apierrors "github.com/yukikurage/albaranes-api/internal/errors"
	"github.com/yukikurage/albaranes-api/internal/services"
)

// multipart envelope allowance on top of the file itself
const multipartOverhead = 64 << 10

// SignatureUpload reads the signature image from the multipart form.
// Oversized files and files whose content is not JPEG or PNG are rejected with 422.
// A request without a file continues with an empty upload.
func SignatureUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxSignatureFileSize+multipartOverhead)

		fileHeader, err := c.FormFile(constants.SignatureFormField)
		if err != nil {
			var maxErr *http.MaxBytesError
			switch {
			case errors.As(err, &maxErr):
				rejectOversized(c)
			case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
				c.Set(constants.ContextKeySignature, services.SignatureUpload{})
				c.Next()
			default:
				apierrors.UnprocessableEntity(c, "Invalid multipart form")
			}
			return
		}
		if fileHeader.Size > constants.MaxSignatureFileSize {
			rejectOversized(c)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			apierrors.UnprocessableEntity(c, "Could not read uploaded file")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, constants.MaxSignatureFileSize+1))
		if err != nil {
			apierrors.UnprocessableEntity(c, "Could not read uploaded file")
			return
		}
		if len(data) > constants.MaxSignatureFileSize {
			rejectOversized(c)
			return
		}

		upload := services.SignatureUpload{Data: data, Filename: fileHeader.Filename}
		if len(data) > 0 {
			detected := mimetype.Detect(data)
			if !mimetype.EqualsAny(detected.String(), constants.AllowedSignatureTypes...) {
				apierrors.UnprocessableEntity(c, fmt.Sprintf("Unsupported file type %s", detected.String()))
				return
			}
			upload.MimeType = detected.String()
		}

		c.Set(constants.ContextKeySignature, upload)
		c.Next()
	}
}

func rejectOversized(c *gin.Context) {
	apierrors.UnprocessableEntity(c, fmt.Sprintf("File exceeds the %d MiB limit", constants.MaxSignatureFileSize>>20))
}

// GetSignatureUpload retrieves the upload stored by SignatureUpload
func GetSignatureUpload(c *gin.Context) (services.SignatureUpload, bool) {
	value, exists := c.Get(constants.ContextKeySignature)
	if !exists {
		return services.SignatureUpload{}, false
	}
	upload, ok := value.(services.SignatureUpload)
	return upload, ok
}
