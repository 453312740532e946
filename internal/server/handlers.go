package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sleekspend/sleekspend/internal/aggregate"
	"github.com/sleekspend/sleekspend/internal/expense"
	"github.com/sleekspend/sleekspend/internal/export"
	"github.com/sleekspend/sleekspend/internal/log"
	"github.com/sleekspend/sleekspend/internal/model"
)

func (s *Server) health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if err := s.ledger.SaveErr(); err != nil {
		resp["status"] = "degraded"
		resp["save_error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listExpenses(c *gin.Context) {
	c.JSON(http.StatusOK, newExpenseResponses(s.ledger.Expenses()))
}

func (s *Server) createExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Amount == nil {
		errorResponse(c, http.StatusBadRequest, expense.ErrMissingAmount.Error())
		return
	}

	e, err := s.factory.Create(*req.Amount, req.Description, req.Category)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	s.ledger.Add(e)
	c.JSON(http.StatusCreated, newExpenseResponse(e))
}

// deleteExpense answers 204 whether or not the id existed.
func (s *Server) deleteExpense(c *gin.Context) {
	s.ledger.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) listDays(c *gin.Context) {
	c.JSON(http.StatusOK, newDayResponses(s.ledger.Refresh().Days))
}

func (s *Server) getFilter(c *gin.Context) {
	c.JSON(http.StatusOK, s.filterResponse())
}

func (s *Server) setFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	r, err := model.ParseRange(req.From, req.To)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	s.ledger.SetFilter(r)
	c.JSON(http.StatusOK, s.filterResponse())
}

func (s *Server) resetFilter(c *gin.Context) {
	s.ledger.ResetFilter()
	c.JSON(http.StatusOK, s.filterResponse())
}

func (s *Server) filterResponse() filterResponse {
	r := s.ledger.Filter()
	return filterResponse{From: r.From, To: r.To, Label: s.ledger.View().RangeLabel}
}

func (s *Server) summary(c *gin.Context) {
	v := s.ledger.Refresh()

	resp := summaryResponse{
		Total:       number(v.Total),
		Count:       v.Count,
		RangeLabel:  v.RangeLabel,
		PerCategory: make([]categoryAmountResponse, len(v.PerCategory)),
		Breakdown:   make([]breakdownResponse, len(v.Breakdown)),
	}
	for i, ca := range v.PerCategory {
		resp.PerCategory[i] = categoryAmountResponse{Category: ca.Category, Amount: number(ca.Amount)}
	}
	for i, row := range v.Breakdown {
		resp.Breakdown[i] = breakdownResponse{Category: row.Category, Amount: number(row.Amount), Percentage: row.Percentage}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.All())
}

// export streams the filtered expenses as CSV or an Excel workbook.
func (s *Server) export(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatCSV)
	if format != export.FormatCSV && format != export.FormatXLSX {
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
		return
	}

	v := s.ledger.Refresh()
	filename := fmt.Sprintf("expenses_%s.%s", time.Now().Format("20060102"), format)
	c.Header("Content-Type", export.ContentType(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	var err error
	switch format {
	case export.FormatXLSX:
		err = export.WriteXLSX(c.Writer, v.Filtered, aggregate.SummaryTotals(v.Filtered))
	default:
		err = export.WriteCSV(c.Writer, v.Filtered)
	}
	if err != nil {
		s.logger.Error("export failed", log.FieldError, err)
		if !c.Writer.Written() {
			errorResponse(c, http.StatusInternalServerError, "export failed")
		}
	}
}
