package analytics

import (
	"sort"
	"time"

	"github.com/chidihq/chidi/app/models"
)

// BusinessMetrics is the dashboard aggregate over orders, customers and the
// catalog.
type BusinessMetrics struct {
	TotalRevenue      float64        `json:"total_revenue"`
	TotalOrders       int            `json:"total_orders"`
	TotalCustomers    int            `json:"total_customers"`
	AverageOrderValue float64        `json:"average_order_value"`
	ConversionRate    float64        `json:"conversion_rate"`
	TopProducts       []ProductSales `json:"top_products"`
	OrderTrend        []DailyRevenue `json:"order_trend"`
	CustomerSegments  map[string]int `json:"customer_segments"`
	PaymentBreakdown  map[string]int `json:"payment_breakdown"`
}

// ProductSales is a product with the number of units ordered.
type ProductSales struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	UnitsSold int     `json:"units_sold"`
}

// DailyRevenue is one point of the 30-day order trend.
type DailyRevenue struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// CalculateBusinessMetrics computes the dashboard numbers. Revenue counts
// delivered orders; average order value and conversion rate are based on
// paid orders, matching the storefront's reporting.
func CalculateBusinessMetrics(orders []models.Order, customers []models.Customer, products []models.Product, now time.Time) BusinessMetrics {
	metrics := BusinessMetrics{
		TotalOrders:      len(orders),
		TotalCustomers:   len(customers),
		CustomerSegments: map[string]int{},
		PaymentBreakdown: map[string]int{},
	}

	paidOrders := 0
	for _, order := range orders {
		if order.Status == models.OrderStatusDelivered {
			metrics.TotalRevenue += order.TotalAmount
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			paidOrders++
		}
		metrics.PaymentBreakdown[order.PaymentStatus]++
	}
	if paidOrders > 0 {
		metrics.AverageOrderValue = metrics.TotalRevenue / float64(paidOrders)
	}
	if len(customers) > 0 {
		metrics.ConversionRate = float64(paidOrders) / float64(len(customers)) * 100
	}

	metrics.TopProducts = topProducts(orders, products, 5)
	metrics.OrderTrend = orderTrend(orders, now, 30)

	for _, customer := range customers {
		metrics.CustomerSegments[customer.Segment(now)]++
	}

	return metrics
}

// topProducts ranks products by units ordered across all orders.
func topProducts(orders []models.Order, products []models.Product, limit int) []ProductSales {
	units := map[uint]int{}
	for _, order := range orders {
		for _, item := range order.Items {
			units[item.ProductID] += item.Quantity
		}
	}

	ranked := make([]ProductSales, 0, len(products))
	for _, product := range products {
		ranked = append(ranked, ProductSales{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			UnitsSold: units[product.ID],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UnitsSold > ranked[j].UnitsSold
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// orderTrend sums order totals per day over the trailing window.
func orderTrend(orders []models.Order, now time.Time, days int) []DailyRevenue {
	byDay := map[string]float64{}
	for _, order := range orders {
		byDay[order.CreatedAt.Format("2006-01-02")] += order.TotalAmount
	}

	trend := make([]DailyRevenue, 0, days)
	start := now.AddDate(0, 0, -days+1)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, DailyRevenue{Date: date, Amount: byDay[date]})
	}
	return trend
}
