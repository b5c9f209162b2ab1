package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-pos-backoffice/internal/store"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a business owner's question, calling back into the store
// when the model asks for live data. Everything the agent can see is scoped
// to ownerID; the model never receives another tenant's records.
func RunAgent(s *store.Store, ownerID, userMessage, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are a back-office assistant for a small business.

	RULES:
	1. MENU: If the user asks about products, prices or the menu, call 'check_menu' and read the JSON to answer. Do NOT say you cannot see the menu.
	2. SALES: If the user asks about revenue, sales totals or how business is going, call 'get_sales_summary'.
	3. CUSTOMERS: If the user asks about a customer by name, phone or email, call 'search_customers'.
	4. Answer with concrete numbers from the tools, not guesses.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_menu",
					Description: "Get the full menu. Use this to find ANY item details like name, price, category or stock.",
				},
				{
					Name:        "get_sales_summary",
					Description: "Get total revenue, transaction count, average sale and a per-day breakdown for the whole sales history.",
				},
				{
					Name:        "search_customers",
					Description: "Find customers whose name, phone or email contains the given term.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"term": {Type: genai.TypeString, Description: "Name, phone or email fragment to search for"},
						},
						Required: []string{"term"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_menu":
				return executeCheckMenu(ctx, session, s, ownerID)
			case "get_sales_summary":
				return executeSalesSummary(ctx, session, s, ownerID)
			case "search_customers":
				return executeCustomerSearch(ctx, session, s, ownerID, funcCall)
			}
		}
	}

	return printResponse(resp), nil
}

func executeCheckMenu(ctx context.Context, session *genai.ChatSession, s *store.Store, ownerID string) (string, error) {
	items, err := s.ListMenuItems(ownerID)
	if err != nil {
		return "", err
	}

	type simpleItem struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Price    string `json:"price"`
		Category string `json:"category"`
		Stock    *int   `json:"stock,omitempty"`
	}
	simpleList := make([]simpleItem, 0, len(items))
	for _, item := range items {
		simpleList = append(simpleList, simpleItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Category: item.Category,
			Stock:    item.StockQuantity,
		})
	}
	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_menu",
		Response: map[string]interface{}{"menu": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeSalesSummary(ctx context.Context, session *genai.ChatSession, s *store.Store, ownerID string) (string, error) {
	summary, err := s.TransactionSummary(ownerID)
	if err != nil {
		return "", err
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_summary",
		Response: map[string]interface{}{
			"total_revenue":     summary.TotalRevenue,
			"transaction_count": summary.TransactionCount,
			"average_sale":      summary.AverageSale,
			"daily_breakdown":   summary.DailyBreakdown,
		},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeCustomerSearch(ctx context.Context, session *genai.ChatSession, s *store.Store, ownerID string, funcCall genai.FunctionCall) (string, error) {
	term, _ := funcCall.Args["term"].(string)
	customers, err := s.SearchCustomers(ownerID, term)
	if err != nil {
		return "", err
	}

	type simpleCustomer struct {
		Name       string `json:"name"`
		Visits     int    `json:"visits"`
		TotalSpent string `json:"total_spent"`
	}
	simpleList := make([]simpleCustomer, 0, len(customers))
	for _, customer := range customers {
		simpleList = append(simpleList, simpleCustomer{
			Name:       customer.Name,
			Visits:     customer.TotalVisits,
			TotalSpent: customer.TotalSpent.StringFixed(2),
		})
	}
	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "search_customers",
		Response: map[string]interface{}{"customers": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
