package router

import (
	"github.com/gin-gonic/gin"
	"github.com/m77ag/backend/internal/domain/identity"
	"github.com/m77ag/backend/internal/interfaces/http/handler"
	"github.com/m77ag/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted by FarmRoutes
type Handlers struct {
	Auth     *handler.AuthHandler
	Herd     *handler.HerdHandler
	Finance  *handler.FinanceHandler
	Cropping *handler.CroppingHandler
	Assets   *handler.AssetHandler
	Booking  *handler.BookingHandler
	Report   *handler.ReportHandler
	Webhook  *handler.StripeWebhookHandler
}

// Limits bound request bodies. Uploads get their own ceiling because the
// limit reader installed on a request cannot be raised later.
type Limits struct {
	MaxBodySize   int64
	MaxUploadSize int64
	// LoginLimit throttles sign-in attempts; nil disables it
	LoginLimit gin.HandlerFunc
}

// FarmRoutes builds the API route table with role guards:
//   - operations records are readable by every role and writable by managers
//   - money records and reports are hidden from viewers
//   - user administration is for administrators
func FarmRoutes(h Handlers, limits Limits) []RouteRegistrar {
	body := middleware.BodyLimit(limits.MaxBodySize)
	operations := middleware.ReadWriteSplit(middleware.AnyRole)
	money := middleware.ReadWriteSplit(identity.Role.CanViewFinancials)

	authGroup := NewDomainGroup("auth", "/auth").Use(body)
	if limits.LoginLimit != nil {
		authGroup.POST("/login", limits.LoginLimit, h.Auth.Login)
	} else {
		authGroup.POST("/login", h.Auth.Login)
	}
	authGroup.GET("/me", h.Auth.Me)
	authGroup.POST("/password", h.Auth.ChangePassword)

	users := NewDomainGroup("users", "/users").Use(body, middleware.RequireAdmin())
	users.POST("", h.Auth.CreateUser)
	users.PUT("/:id/role", h.Auth.ChangeRole)
	users.POST("/:id/deactivate", h.Auth.DeactivateUser)

	cattle := NewDomainGroup("herd", "/cattle").Use(body, operations)
	cattle.POST("", h.Herd.CreateCattle)
	cattle.GET("", h.Herd.ListCattle)
	cattle.GET("/summary", h.Herd.Summary)
	cattle.GET("/:id", h.Herd.GetCattle)
	cattle.PUT("/:id", h.Herd.UpdateCattle)
	cattle.POST("/:id/weights", h.Herd.AddWeight)
	cattle.POST("/:id/health", h.Herd.AddHealthRecord)
	cattle.POST("/:id/breeding", h.Herd.AddBreeding)
	cattle.POST("/:id/calving", h.Herd.RecordCalving)
	cattle.POST("/:id/sell", h.Herd.SellCattle)

	fields := NewDomainGroup("fields", "/fields").Use(body, operations)
	fields.POST("", h.Cropping.CreateField)
	fields.GET("", h.Cropping.ListFields)
	fields.GET("/:id", h.Cropping.GetField)
	fields.GET("/:id/budget", h.Cropping.FieldBudget)
	fields.POST("/:id/projections", h.Cropping.SetProjection)
	fields.POST("/:id/harvests", h.Cropping.RecordHarvest)

	expenses := NewDomainGroup("crop-expenses", "/crop-expenses").Use(body, operations)
	expenses.POST("", h.Cropping.CreateExpense)
	expenses.GET("", h.Cropping.ListExpenses)
	expenses.GET("/summary/:cropCode", h.Cropping.CropSummary)
	expenses.PUT("/:id", h.Cropping.UpdateExpense)
	expenses.DELETE("/:id", h.Cropping.DeleteExpense)

	receipts := NewDomainGroup("receipts", "/crop-expenses").Use(middleware.BodyLimit(limits.MaxUploadSize), operations)
	receipts.POST("/:id/receipt", h.Cropping.UploadReceipt)

	equipment := NewDomainGroup("equipment", "/equipment").Use(body, operations)
	equipment.POST("", h.Assets.CreateEquipment)
	equipment.GET("", h.Assets.ListEquipment)
	equipment.GET("/:id", h.Assets.GetEquipment)
	equipment.POST("/:id/list-for-sale", h.Assets.ListForSale)
	equipment.POST("/:id/offers", h.Booking.SubmitOffer)
	equipment.GET("/:id/offers", h.Booking.ListOffers)

	offers := NewDomainGroup("offers", "/offers").Use(body, operations)
	offers.POST("/:id/accept", h.Booking.AcceptOffer)
	offers.POST("/:id/reject", h.Booking.RejectOffer)
	offers.POST("/:id/withdraw", h.Booking.WithdrawOffer)

	realEstate := NewDomainGroup("real-estate", "/real-estate").Use(body, money)
	realEstate.POST("", h.Assets.CreateRealEstate)
	realEstate.GET("", h.Assets.ListRealEstate)

	netWorth := NewDomainGroup("net-worth", "/net-worth").Use(body, money)
	netWorth.PUT("/entities/:name", h.Assets.ReplaceAdjustments)

	bookings := NewDomainGroup("hunting", "/hunting-bookings").Use(body, operations)
	bookings.POST("", h.Booking.CreateBooking)
	bookings.GET("", h.Booking.ListBookings)
	bookings.GET("/:id", h.Booking.GetBooking)
	bookings.POST("/:id/confirm", h.Booking.ConfirmBooking)
	bookings.POST("/:id/complete", h.Booking.CompleteBooking)
	bookings.POST("/:id/cancel", h.Booking.CancelBooking)

	routes := []RouteRegistrar{authGroup, users, cattle, fields, expenses, receipts, equipment, offers, realEstate, netWorth, bookings}
	routes = append(routes, financeRoutes(h.Finance, body, money)...)
	return append(routes, reportRoutes(h.Report), webhookRoutes(h.Webhook))
}

func financeRoutes(h *handler.FinanceHandler, body, money gin.HandlerFunc) []RouteRegistrar {
	loans := NewDomainGroup("loans", "/loans").Use(body, money)
	loans.POST("", h.CreateLoan)
	loans.GET("", h.ListLoans)
	loans.GET("/:id", h.GetLoan)
	loans.POST("/:id/payments", h.RecordLoanPayment)
	loans.POST("/:id/close", h.CloseLoan)

	accounts := NewDomainGroup("bank-accounts", "/bank-accounts").Use(body, money)
	accounts.POST("", h.CreateBankAccount)
	accounts.GET("", h.ListBankAccounts)
	accounts.POST("/:id/transactions", h.RecordBankTransaction)

	invoices := NewDomainGroup("invoices", "/invoices").Use(body, money)
	invoices.POST("", h.CreateInvoice)
	invoices.GET("", h.ListInvoices)
	invoices.GET("/next-number", h.NextInvoiceNumber)
	invoices.GET("/:id", h.GetInvoice)
	invoices.POST("/:id/send", h.SendInvoice)
	invoices.POST("/:id/view", h.MarkInvoiceViewed)
	invoices.POST("/:id/cancel", h.CancelInvoice)
	invoices.POST("/:id/payments", h.RecordInvoicePayment)
	invoices.POST("/:id/refund", h.RefundInvoice)

	ledger := NewDomainGroup("ledger", "/ledger").Use(body, money)
	ledger.POST("", h.CreateLedgerEntry)
	ledger.GET("", h.ListLedgerEntries)
	ledger.POST("/:id/payments", h.RecordLedgerPayment)
	ledger.POST("/:id/bill", h.BillLedgerEntry)
	ledger.POST("/:id/cancel", h.CancelLedgerEntry)

	cash := NewDomainGroup("transactions", "/transactions").Use(body, money)
	cash.POST("", h.CreateTransaction)
	cash.GET("", h.ListTransactions)

	capital := NewDomainGroup("capital", "/capital-investments").Use(body, money)
	capital.POST("", h.CreateCapitalInvestment)
	capital.GET("", h.ListCapitalInvestments)
	capital.GET("/:id", h.GetCapitalInvestment)

	maintenance := NewDomainGroup("finance", "/finance").Use(body, money)
	maintenance.POST("/refresh-statuses", h.RefreshStatuses)

	return []RouteRegistrar{loans, accounts, invoices, ledger, cash, capital, maintenance}
}

// reportRoutes mounts the banker reports, readable by financial roles only
func reportRoutes(h *handler.ReportHandler) RouteRegistrar {
	reports := NewDomainGroup("reports", "/reports").Use(middleware.RequireFinancials())
	reports.GET("/banker-overview", h.BankerOverview)
	reports.GET("/banker-overview/export", h.ExportBankerOverview)
	reports.GET("/ar-aging", h.ARAging)
	reports.GET("/net-worth", h.NetWorth)
	return reports
}

// webhookRoutes mounts inbound provider callbacks. JWT auth skips these
// paths; each handler verifies its own signature.
func webhookRoutes(h *handler.StripeWebhookHandler) RouteRegistrar {
	webhooks := NewDomainGroup("webhooks", "/webhooks")
	webhooks.POST("/stripe", h.HandleStripeWebhook)
	return webhooks
}
