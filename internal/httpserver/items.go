package httpserver

import (
	"io"
	"net/http"

	"storefront/internal/importer"
	"github.com/gin-gonic/gin"
)

const maxImportBody = 8 << 20

// adminImportHandler ingests a catalog CSV export uploaded as the request
// body. Rows are upserted one by one; a bad row aborts the run but keeps what
// was already imported.
func adminImportHandler(items importer.ItemWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		imp := importer.NewCSVImporter(io.LimitReader(c.Request.Body, maxImportBody), items)
		n, err := imp.Run(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"imported": n, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"imported": n})
	}
}
