package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"segue/types"
)

// respondError maps a service error to an HTTP status and writes the standard
// {"error": ...} body.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var unsupported *types.UnsupportedFormatError
	if errors.As(err, &unsupported) {
		return http.StatusUnsupportedMediaType
	}
	var malformed *types.MalformedFileError
	if errors.As(err, &malformed) {
		return http.StatusBadRequest
	}
	var validation *types.ValidationError
	if errors.As(err, &validation) {
		return http.StatusUnprocessableEntity
	}
	var notFound *types.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	if isTooLarge(err) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// isTooLarge reports whether err came from the request body size cap. The
// string check covers errors the multipart reader rewraps.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

// bindJSON decodes the request body into dst, answering 400 on malformed
// JSON. Returns false once a response has been written.
func bindJSON(c *gin.Context, dst any) bool {
	return bindBody(c, dst, false)
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted
// entirely; an absent body leaves dst at its zero value.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	return bindBody(c, dst, true)
}

func bindBody(c *gin.Context, dst any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if allowEmpty && errors.Is(err, io.EOF) {
		return true
	}
	if isTooLarge(err) {
		respondError(c, err)
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
	return false
}
