package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders an amount as dollars with thousands separators
func FormatUSD(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + printer.Sprintf("$%.2f", amount.Round(2).InexactFloat64())
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

var funcs = template.FuncMap{
	"usd":  FormatUSD,
	"date": formatDate,
	"datep": func(t *time.Time) string {
		if t == nil {
			return "on receipt"
		}
		return formatDate(*t)
	},
}

var templates = template.Must(template.New("mail").Funcs(funcs).Parse(`
{{define "invoice_sent"}}<p>Hello {{.CustomerName}},</p>
<p>Invoice <strong>{{.InvoiceNumber}}</strong> for {{usd .Total}} is ready. Payment is due {{datep .DueDate}}.</p>
<p>Thank you for your business.</p>{{end}}

{{define "invoice_paid"}}<p>Hello {{.CustomerName}},</p>
<p>We received payment in full for invoice <strong>{{.InvoiceNumber}}</strong> ({{usd .Total}}).</p>
<p>Thank you.</p>{{end}}

{{define "booking_confirmed"}}<p>Hello {{.HunterName}},</p>
<p>Your hunt on <strong>{{.LeaseArea}}</strong> from {{date .StartDate}} to {{date .EndDate}} is confirmed.</p>
<p>Total: {{usd .Total}}{{if .Deposit.IsPositive}}, deposit due: {{usd .Deposit}}{{end}}. An invoice follows separately.</p>{{end}}

{{define "offer_accepted"}}<p>Hello {{.BuyerName}},</p>
<p>Your offer of {{usd .OfferAmount}} has been accepted. You will receive a payment link shortly.</p>{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
