package api

import (
	"net/http"
	"sort"

	"github.com/shopspring/decimal"

	"pharmsys/m/domain"
)

const lowStockThreshold = 50

type medicineSales struct {
	Name     string `json:"name"`
	Quantity int64  `json:"qty"`
}

type reportResponse struct {
	TotalSales         decimal.Decimal   `json:"total_sales"`
	TransactionCount   int               `json:"transaction_count"`
	LowStockCount      int               `json:"low_stock_count"`
	LowStockItems      []domain.Medicine `json:"low_stock_items"`
	TopMedicines       []medicineSales   `json:"top_medicines"`
	RecentTransactions []domain.Sale     `json:"recent_transactions"`
}

// reports aggregates the sales ledger and the catalog. It only ever
// reads; nothing here touches the commit path.
func (h *Handler) reports(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermReports) {
		return
	}

	sales, err := h.store.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load sales")
		return
	}
	medicines, err := h.store.ListMedicines(r.Context(), "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load medicines")
		return
	}

	total := decimal.Zero
	soldByName := make(map[string]int64)
	for _, sale := range sales {
		total = total.Add(sale.TotalAmount)
		for _, it := range sale.Items {
			soldByName[it.MedicineName] += it.Quantity
		}
	}

	top := make([]medicineSales, 0, len(soldByName))
	for name, qty := range soldByName {
		top = append(top, medicineSales{Name: name, Quantity: qty})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 5 {
		top = top[:5]
	}

	lowStock := []domain.Medicine{}
	for _, med := range medicines {
		if med.Stock < lowStockThreshold {
			lowStock = append(lowStock, med)
		}
	}

	recent := make([]domain.Sale, 0, 10)
	for i := len(sales) - 1; i >= 0 && len(recent) < 10; i-- {
		recent = append(recent, sales[i])
	}

	respondJSON(w, http.StatusOK, reportResponse{
		TotalSales:         total,
		TransactionCount:   len(sales),
		LowStockCount:      len(lowStock),
		LowStockItems:      lowStock,
		TopMedicines:       top,
		RecentTransactions: recent,
	})
}
