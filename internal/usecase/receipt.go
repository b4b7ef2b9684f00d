package usecase

import (
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<html>
<body>
  <h2>Transaction Confirmation</h2>
  <p>Dear {{.CustomerName}},</p>
  <p>The following transaction has been recorded on your wallet:</p>
  <table cellpadding="4">
    <tr><td><b>Transaction ID</b></td><td>{{.TransactionID}}</td></tr>
    <tr><td><b>Type</b></td><td>{{.Type}}</td></tr>
    <tr><td><b>Payment method</b></td><td>{{.Method}}</td></tr>
    <tr><td><b>Amount</b></td><td>{{.Amount}}</td></tr>
    <tr><td><b>Date</b></td><td>{{.Date}}</td></tr>
    <tr><td><b>Balance after</b></td><td>{{.Balance}}</td></tr>
  </table>
  <p>Processed by {{.ProcessedByName}} ({{.ProcessedByEmail}}, {{.ProcessedByPhone}}).</p>
</body>
</html>`))

type receiptData struct {
	CustomerName     string
	TransactionID    string
	Type             string
	Method           string
	Amount           string
	Date             string
	Balance          string
	ProcessedByName  string
	ProcessedByEmail string
	ProcessedByPhone string
}

// ReceiptHTML renders the transaction confirmation email body. Names
// come from user records, so the template escapes them.
func ReceiptHTML(record *domain.WalletTransaction, customer, processedBy *domain.User, balance decimal.Decimal) string {
	var body strings.Builder

	// Execute cannot fail over a flat struct of strings.
	_ = receiptTemplate.Execute(&body, receiptData{
		CustomerName:     customer.Name,
		TransactionID:    record.TransactionID,
		Type:             string(record.TransactionType),
		Method:           string(record.PaymentMethod),
		Amount:           record.Amount.StringFixed(2),
		Date:             record.DateOfTransaction.Format("2006-01-02"),
		Balance:          balance.StringFixed(2),
		ProcessedByName:  processedBy.Name,
		ProcessedByEmail: processedBy.Email,
		ProcessedByPhone: processedBy.PhoneNo,
	})

	return body.String()
}
