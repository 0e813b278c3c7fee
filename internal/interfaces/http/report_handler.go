package http

import (
	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/application/report"
	"github.com/gofiber/fiber/v2"
)

// HeaderCatalogFingerprint cabecera con la huella SHA-256 del catálogo
// canonicalizado. Los integradores la comparan contra exportaciones previas
// para detectar cambios sin parsear el XML.
const HeaderCatalogFingerprint = "X-Catalog-Fingerprint"

// ReportHandler sirve la hoja de costos en PDF y el catálogo en XML (protegido).
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// DownloadCostSheet godoc
// @Summary      Descargar hoja de costos del ítem en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/cost-sheet [get]
func (h *ReportHandler) DownloadCostSheet(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdfBytes, filename, err := h.uc.DownloadCostSheet(c.Context(), companyID, itemID)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// ExportCatalog godoc
// @Summary      Exportar catálogo de ítems en XML
// @Tags         reports
// @Security     Bearer
// @Produce      application/xml
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/export/xml [get]
func (h *ReportHandler) ExportCatalog(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	xmlBytes, fingerprint, filename, err := h.uc.ExportCatalog(c.Context(), companyID)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(HeaderCatalogFingerprint, fingerprint)
	return c.Send(xmlBytes)
}
