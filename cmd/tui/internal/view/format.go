package view

import (
	"context"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dbTimeout = 5 * time.Second

var rupiah = message.NewPrinter(language.Indonesian)

// FormatAmount renders a minor-unit amount the way the registrar's office
// reads it: "Rp 3.500.000".
func FormatAmount(amount int64) string {
	return rupiah.Sprintf("Rp %d", amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
