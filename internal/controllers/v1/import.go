package v1

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/finbooks/backend/internal/httputil"
	"github.com/finbooks/backend/internal/importer"
	"github.com/finbooks/backend/internal/importer/helpers"
	"github.com/finbooks/backend/internal/importer/parser/ofx"
	"github.com/finbooks/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type ImportPreviewResponse struct {
	Data importer.StatementPreview `json:"data"`
}

type ImportResultResponse struct {
	Data importer.Result `json:"data"`
}

// ImportParseError carries all validation errors of a statement file.
// Parsing accumulates errors instead of stopping at the first one.
type ImportParseError struct {
	Error  string   `json:"error" example:"the statement could not be parsed"`
	Errors []string `json:"errors"`
}

// RegisterImportRoutes registers the routes for imports with the
// RouterGroup that is passed.
func RegisterImportRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/ofx", OptionsImportOfx)
		r.POST("/ofx", ImportOfxPreview)

		r.OPTIONS("/ofx/commit", OptionsImportOfxCommit)
		r.POST("/ofx/commit", ImportOfxCommit)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Import
// @Success		204
// @Router			/v1/import/ofx [options]
func OptionsImportOfx(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Import
// @Success		204
// @Router			/v1/import/ofx/commit [options]
func OptionsImportOfxCommit(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Statement import preview
// @Description	Parses an OFX statement file and returns what an import would create, without creating anything
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		200		{object}	ImportPreviewResponse
// @Failure		400		{object}	ImportParseError
// @Failure		500		{object}	httputil.HTTPError
// @Param			file	formData	file	true	"OFX statement file"
// @Router			/v1/import/ofx [post]
func ImportOfxPreview(c *gin.Context) {
	statement, _, ok := parseUploadedStatement(c)
	if !ok {
		return
	}

	preview, err := importer.Preview(models.DB, statement)
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, ImportPreviewResponse{Data: preview})
}

// @Summary		Commit statement import
// @Description	Parses an OFX statement file and imports it: the bank account when new, all non-duplicate transactions, and the journal entries for postable ones. The import is atomic.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	ImportResultResponse
// @Failure		400		{object}	ImportParseError
// @Failure		500		{object}	httputil.HTTPError
// @Param			file	formData	file	true	"OFX statement file"
// @Router			/v1/import/ofx/commit [post]
func ImportOfxCommit(c *gin.Context) {
	statement, fileHash, ok := parseUploadedStatement(c)
	if !ok {
		return
	}

	result, err := importer.Create(models.DB, statement, fileHash)
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusCreated, ImportResultResponse{Data: result})
}

// parseUploadedStatement reads and parses the uploaded statement file. All
// accumulated validation errors are rendered when parsing fails.
func parseUploadedStatement(c *gin.Context) (ofx.Statement, string, bool) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		httputil.NewError(c, http.StatusBadRequest, errNoFilePost)
		return ofx.Statement{}, "", false
	}
	if err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return ofx.Statement{}, "", false
	}

	if !strings.HasSuffix(strings.ToLower(formFile.Filename), ".ofx") {
		httputil.NewError(c, http.StatusBadRequest, fmt.Errorf("%w: .ofx", errWrongFileSuffix))
		return ofx.Statement{}, "", false
	}

	f, err := formFile.Open()
	if err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return ofx.Statement{}, "", false
	}
	defer f.Close()

	// The content is needed twice, once for parsing and once for hashing
	content, err := io.ReadAll(f)
	if err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return ofx.Statement{}, "", false
	}

	statement, errs := ofx.Parse(bytes.NewReader(content))
	if len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, e.Error())
		}

		c.JSON(http.StatusBadRequest, ImportParseError{
			Error:  errStatementParse.Error(),
			Errors: messages,
		})
		return ofx.Statement{}, "", false
	}

	return statement, helpers.Sha256String(string(content)), true
}
