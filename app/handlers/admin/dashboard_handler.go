package admin

import (
	"net/http"

	"github.com/bbmart/marketplace/app/handlers"
	"github.com/bbmart/marketplace/app/services"
)

type AdminHandler struct {
	handlers.Base
	orders  *services.OrderService
	catalog *services.CatalogService
	vendors *services.VendorService
	reports *services.ReportService
}

func NewAdminHandler(
	base handlers.Base,
	orders *services.OrderService,
	catalog *services.CatalogService,
	vendors *services.VendorService,
	reports *services.ReportService,
) *AdminHandler {
	return &AdminHandler{
		Base:    base,
		orders:  orders,
		catalog: catalog,
		vendors: vendors,
		reports: reports,
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.AdminStats(r.Context())
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, map[string]interface{}{"stats": stats})
}
