package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type TransferHandler struct {
	transfer *service.TransferService
}

func NewTransferHandler(transfer *service.TransferService) *TransferHandler {
	return &TransferHandler{transfer: transfer}
}

// Export streams the records of kind as a file download. ids restricts the
// export to the selected records and archive=true also uploads the file.
func (h *TransferHandler) Export(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, ok := service.ParseFormat(c.Query("format"))
		if !ok {
			badRequest(c, "format must be csv or xlsx")
			return
		}
		archive, _ := strconv.ParseBool(c.DefaultQuery("archive", "false"))

		res, err := h.transfer.Export(c.Request.Context(), service.ExportRequest{
			Kind:    kind,
			IDs:     parseIDs(c.QueryArray("ids")),
			Format:  format,
			Archive: archive,
		})
		if err != nil {
			respondError(c, err, fmt.Sprintf("failed to export %s", kind))
			return
		}

		if res.ArchiveKey != "" {
			c.Header("X-Archive-Key", res.ArchiveKey)
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
		c.Data(http.StatusOK, res.ContentType, res.Data)
	}
}

// Import reads a multipart "file" field. The format follows the file name
// unless a format form value is given.
func (h *TransferHandler) Import(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "file is required")
			return
		}

		format := service.FormatFromFilename(fh.Filename)
		if v := c.PostForm("format"); v != "" {
			if format, err = parseFormatValue(v); err != nil {
				badRequest(c, err.Error())
				return
			}
		}

		f, err := fh.Open()
		if err != nil {
			badRequest(c, "failed to open uploaded file")
			return
		}
		defer f.Close()

		res, err := h.transfer.Import(c.Request.Context(), kind, format, f)
		if err != nil {
			respondError(c, err, fmt.Sprintf("failed to import %s", kind))
			return
		}

		log.Info().Str("filename", fh.Filename).Str("kind", string(kind)).Int("imported", res.Imported).Msg("file imported")
		c.JSON(http.StatusOK, res)
	}
}

func parseFormatValue(v string) (service.Format, error) {
	format, ok := service.ParseFormat(v)
	if !ok {
		return "", fmt.Errorf("format must be csv or xlsx")
	}
	return format, nil
}
