package adminController

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	orderControllers "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/order"
	"github.com/Pranay9392/ecommerce-mernstack-backend/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

var orderSheetHeaders = []string{
	"ID", "CreatedAt", "Status", "UserID", "UserName", "UserEmail",
	"Items", "TotalPrice", "PaymentSessionID",
}

// BuildOrdersWorkbook lays out one row per order.
func BuildOrdersWorkbook(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range orderSheetHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.CreatedAt.UTC().Format(time.RFC3339))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.UserID)

		var name, email string
		if o.User != nil {
			name, email = o.User.Name, o.User.Email
		}
		row.AddCell().SetValue(name)
		row.AddCell().SetValue(email)

		var items []string
		for _, it := range o.Items {
			items = append(items, fmt.Sprintf("%s x%d @ %s", it.Name, it.Quantity, it.Price.StringFixed(2)))
		}
		row.AddCell().SetValue(strings.Join(items, "; "))
		row.AddCell().SetValue(o.TotalPrice.StringFixed(2))
		row.AddCell().SetValue(o.PaymentSessionID)
	}
	return file, nil
}

// GET /admin/orders/export
func ExportOrdersToExcel(l *orderControllers.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := l.ListAllOrders(c.Request.Context(), true)
		if err != nil {
			orderControllers.RespondError(c, l.Logger(), err)
			return
		}

		file, err := BuildOrdersWorkbook(orders)
		if err != nil {
			l.Logger().Error("build orders workbook", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		filename := fmt.Sprintf("orders_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		if err := file.Write(c.Writer); err != nil {
			l.Logger().Error("write orders workbook", zap.Error(err))
		}
	}
}
