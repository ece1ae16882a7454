package model

// StatCard is one summary tile on the demo dashboard screen
type StatCard struct {
	Title      string `json:"title"`
	Value      string `json:"value"`
	Change     string `json:"change"`
	ChangeType string `json:"change_type"` // "up" or "down"
	Icon       string `json:"icon"`
}

// DashboardOrder is one row of the demo dashboard's recent-order table
type DashboardOrder struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Product  string `json:"product"`
	Amount   string `json:"amount"`
	Status   string `json:"status"`
}

// DashboardSummary is the static payload backing the dashboard mockup
// screen. The screen is a demo; the data never changes.
type DashboardSummary struct {
	Stats        []StatCard       `json:"stats"`
	RecentOrders []DashboardOrder `json:"recent_orders"`
}

// DemoDashboard returns the fixed dashboard mockup data
func DemoDashboard() *DashboardSummary {
	return &DashboardSummary{
		Stats: []StatCard{
			{Title: "총 매출", Value: "₩45,231,890", Change: "12.5% 지난달 대비", ChangeType: "up", Icon: "💰"},
			{Title: "사용자 수", Value: "2,845", Change: "8.2% 지난달 대비", ChangeType: "up", Icon: "👤"},
			{Title: "총 주문", Value: "1,234", Change: "3.1% 지난달 대비", ChangeType: "up", Icon: "📦"},
			{Title: "전환율", Value: "3.24%", Change: "0.4% 지난달 대비", ChangeType: "down", Icon: "📈"},
		},
		RecentOrders: []DashboardOrder{
			{ID: "#12345", Customer: "김철수", Product: "노트북 Pro 15", Amount: "₩1,890,000", Status: "배송완료"},
			{ID: "#12346", Customer: "이영희", Product: "무선 이어폰", Amount: "₩289,000", Status: "배송중"},
			{ID: "#12347", Customer: "박지민", Product: "스마트워치", Amount: "₩459,000", Status: "준비중"},
			{ID: "#12348", Customer: "최수현", Product: "태블릿 128GB", Amount: "₩899,000", Status: "배송완료"},
			{ID: "#12349", Customer: "정민수", Product: "블루투스 스피커", Amount: "₩159,000", Status: "취소"},
		},
	}
}
