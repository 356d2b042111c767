package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/store-api/internal/application/usecase"
)

const dateLayout = "2006-01-02"

// ReportHandler reportes de existencias y ventas.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockLevels godoc
// @Summary      Existencias actuales
// @Tags         reports
// @Produce      json
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockLevels(c *fiber.Ctx) error {
	out, err := h.uc.StockLevels(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SoldItemsSummary godoc
// @Summary      Resumen de ventas por ítem
// @Description  from y to son fechas (UTC) inclusivas: from desde el inicio del día, to hasta el final del día.
// @Tags         reports
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fecha final (YYYY-MM-DD)"
// @Success      200   {array}  dto.SoldItemSummaryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/sales/summary [get]
func (h *ReportHandler) SoldItemsSummary(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return badRequest(c, "INVALID_DATE", "from debe tener formato YYYY-MM-DD")
		}
		from = &d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return badRequest(c, "INVALID_DATE", "to debe tener formato YYYY-MM-DD")
		}
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	out, err := h.uc.SoldItemsSummary(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
