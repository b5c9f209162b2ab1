package store

import (
	"strings"
	"time"

	"go-pos-backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// maxSearchResults caps customer search responses.
const maxSearchResults = 100

// SearchCustomers finds active customers whose name, phone or email contains
// the term, case-insensitively. An empty term lists the owner's active
// customers, still capped and ordered by name.
func (s *Store) SearchCustomers(ownerID, term string) ([]models.Customer, error) {
	q := activeOnly(s.ownerScope(ownerID)(s.db))
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern)
	}

	var customers []models.Customer
	err := q.Order("name").Limit(maxSearchResults).Find(&customers).Error
	if err != nil {
		return nil, wrap("search", "customer", err)
	}
	return customers, nil
}

// DailySummary aggregates one calendar day of sales.
type DailySummary struct {
	Date             string               `json:"date"`
	TotalSales       string               `json:"total_sales"`
	TransactionCount int                  `json:"transaction_count"`
	ItemsSold        int                  `json:"items_sold"`
	Transactions     []models.Transaction `json:"transactions"`
}

// DailySalesSummary totals one day's sales. date is YYYY-MM-DD; empty means
// today.
func (s *Store) DailySalesSummary(ownerID, date string) (*DailySummary, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var transactions []models.Transaction
	err := s.ownerScope(ownerID)(s.db).
		Where("sale_date = ?", date).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, wrap("daily summary", "transaction", err)
	}

	total := decimal.Zero
	items := 0
	for _, t := range transactions {
		amount, err := decimal.NewFromString(t.TotalAmount)
		if err == nil {
			total = total.Add(amount)
		}
		for _, item := range t.Items {
			items += item.Quantity
		}
	}

	return &DailySummary{
		Date:             date,
		TotalSales:       moneyString(total),
		TransactionCount: len(transactions),
		ItemsSold:        items,
		Transactions:     transactions,
	}, nil
}

// SalesSummary aggregates an owner's entire sales history.
type SalesSummary struct {
	TotalRevenue     string            `json:"total_revenue"`
	TransactionCount int               `json:"transaction_count"`
	AverageSale      string            `json:"average_sale"`
	DailyBreakdown   map[string]string `json:"daily_breakdown"`
}

// TransactionSummary computes overall revenue, count, average sale and a
// per-day revenue breakdown. Days are keyed by the record's creation date;
// sale_date is the fallback for rows imported without timestamps.
func (s *Store) TransactionSummary(ownerID string) (*SalesSummary, error) {
	var transactions []models.Transaction
	if err := s.ownerScope(ownerID)(s.db).Find(&transactions).Error; err != nil {
		return nil, wrap("summary", "transaction", err)
	}

	total := decimal.Zero
	daily := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		amount, err := decimal.NewFromString(t.TotalAmount)
		if err != nil {
			continue
		}
		total = total.Add(amount)

		day := t.SaleDate
		if !t.CreatedAt.IsZero() {
			day = t.CreatedAt.Format("2006-01-02")
		}
		daily[day] = daily[day].Add(amount)
	}

	average := decimal.Zero
	if len(transactions) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(transactions)))).Round(2)
	}

	breakdown := make(map[string]string, len(daily))
	for day, amount := range daily {
		breakdown[day] = moneyString(amount)
	}

	return &SalesSummary{
		TotalRevenue:     moneyString(total),
		TransactionCount: len(transactions),
		AverageSale:      moneyString(average),
		DailyBreakdown:   breakdown,
	}, nil
}

// DataExport is a full snapshot of one owner's records.
type DataExport struct {
	User         *models.User         `json:"user"`
	MenuItems    []models.MenuItem    `json:"menu_items"`
	Customers    []models.Customer    `json:"customers"`
	Transactions []models.Transaction `json:"transactions"`
	Quotations   []models.Quotation   `json:"quotations"`
	Documents    []models.Document    `json:"documents"`
	ExportedAt   time.Time            `json:"exported_at"`
}

// ExportAllData collects everything the owner has stored, for backup or
// account download.
func (s *Store) ExportAllData(ownerID string) (*DataExport, error) {
	user, err := s.GetUser(ownerID)
	if err != nil {
		return nil, err
	}

	export := DataExport{User: user, ExportedAt: time.Now()}
	scope := s.ownerScope(ownerID)

	if err := scope(s.db).Order("name").Find(&export.MenuItems).Error; err != nil {
		return nil, wrap("export", "menu item", err)
	}
	if err := scope(s.db).Order("customer_id").Find(&export.Customers).Error; err != nil {
		return nil, wrap("export", "customer", err)
	}
	if err := scope(s.db).Order("created_at").Find(&export.Transactions).Error; err != nil {
		return nil, wrap("export", "transaction", err)
	}
	if err := scope(s.db).Order("created_at").Find(&export.Quotations).Error; err != nil {
		return nil, wrap("export", "quotation", err)
	}
	if err := scope(s.db).Order("created_at").Find(&export.Documents).Error; err != nil {
		return nil, wrap("export", "document", err)
	}
	return &export, nil
}
