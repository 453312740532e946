package server

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sleekspend/sleekspend/internal/model"
)

type expenseResponse struct {
	ID          string      `json:"id"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        time.Time   `json:"date"`
}

type dayResponse struct {
	Key      string            `json:"key"`
	Label    string            `json:"label"`
	Count    int               `json:"count"`
	Total    json.Number       `json:"total"`
	Expenses []expenseResponse `json:"expenses"`
}

type categoryAmountResponse struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

type breakdownResponse struct {
	Category   string      `json:"category"`
	Amount     json.Number `json:"amount"`
	Percentage float64     `json:"percentage"`
}

type summaryResponse struct {
	Total       json.Number              `json:"total"`
	Count       int                      `json:"count"`
	RangeLabel  string                   `json:"range_label"`
	PerCategory []categoryAmountResponse `json:"per_category"`
	Breakdown   []breakdownResponse      `json:"breakdown"`
}

type filterResponse struct {
	From  *time.Time `json:"from"`
	To    *time.Time `json:"to"`
	Label string     `json:"label"`
}

type createExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
}

type filterRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func newExpenseResponse(e model.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Amount:      number(e.Amount),
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date,
	}
}

func newExpenseResponses(expenses []model.Expense) []expenseResponse {
	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = newExpenseResponse(e)
	}
	return out
}

func newDayResponses(days []model.DayGroup) []dayResponse {
	out := make([]dayResponse, len(days))
	for i, d := range days {
		out[i] = dayResponse{
			Key:      string(d.Key),
			Label:    d.Label,
			Count:    d.Count,
			Total:    number(d.Total),
			Expenses: newExpenseResponses(d.Expenses),
		}
	}
	return out
}

// errorResponse writes {"error": msg} with the given status.
func errorResponse(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
