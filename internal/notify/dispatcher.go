package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"roomledger/internal/calculator"
	"roomledger/internal/models"
)

// Dispatcher fans notification events out to email. All methods return
// immediately; delivery happens on a background goroutine and failures are
// logged, never propagated. With no mailer configured, messages are logged
// at debug level instead of sent.
type Dispatcher struct {
	mailer Mailer
}

// NewDispatcher creates a dispatcher. mailer may be nil to disable sending.
func NewDispatcher(mailer Mailer) *Dispatcher {
	return &Dispatcher{mailer: mailer}
}

func (d *Dispatcher) send(to []string, subject, body string) {
	if len(to) == 0 {
		return
	}
	if d.mailer == nil {
		slog.Debug("Mail disabled, skipping notification", "subject", subject, "recipients", len(to))
		return
	}
	go func() {
		if err := d.mailer.Send(to, subject, body); err != nil {
			slog.Warn("Notification send failed", "subject", subject, "error", err)
			return
		}
		slog.Info("Notification sent", "subject", subject, "recipients", len(to))
	}()
}

// emailsFor resolves user IDs to email addresses, skipping the excluded ID
// and users without an address. Duplicates are collapsed.
func emailsFor(users []*models.User, ids []string, exclude string) []string {
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	seen := make(map[string]bool)
	var emails []string
	for _, id := range ids {
		if id == exclude {
			continue
		}
		u, ok := byID[id]
		if !ok || u.Email == "" || seen[u.Email] {
			continue
		}
		seen[u.Email] = true
		emails = append(emails, u.Email)
	}
	return emails
}

// ExpenseAdded notifies everyone involved in a new expense except the payer.
func (d *Dispatcher) ExpenseAdded(expense *models.Expense, users []*models.User) {
	involved := append(append([]string{}, expense.SplitWith...), expense.PaidFor...)
	to := emailsFor(users, involved, expense.PaidBy)

	payerName := expense.UserNames[expense.PaidBy]
	var kind string
	switch expense.Type {
	case models.ExpensePersonal:
		kind = "personal expense"
	case models.ExpensePaidFor:
		kind = "paid for others"
	default:
		kind = "split expense"
	}

	subject := fmt.Sprintf("New expense: %s (%.2f)", expense.Description, expense.Amount)
	body := fmt.Sprintf(
		"%s recorded a new %s.\n\nDescription: %s\nAmount: %.2f\n\nLog in to Roomledger to see your share.",
		payerName, kind, expense.Description, expense.Amount,
	)
	d.send(to, subject, body)
}

// PaymentRecorded notifies the receiving user of a new settlement payment.
func (d *Dispatcher) PaymentRecorded(payment *models.Payment, users []*models.User) {
	to := emailsFor(users, []string{payment.PaidTo}, payment.PaidBy)

	subject := fmt.Sprintf("Payment received: %.2f from %s", payment.Amount, payment.PaidByName)
	body := fmt.Sprintf(
		"%s recorded a payment of %.2f to you.\n\nLog in to Roomledger to see your updated balance.",
		payment.PaidByName, payment.Amount,
	)
	d.send(to, subject, body)
}

// UserCreated sends a welcome mail to a freshly registered user.
func (d *Dispatcher) UserCreated(user *models.User) {
	if user.Email == "" {
		return
	}
	subject := "Welcome to Roomledger"
	body := fmt.Sprintf(
		"Hi %s,\n\nAn account was created for you.\n\nUser ID: %s\n\nYour password is temporary; you will be asked to change it at first login.",
		user.Name, user.UserID,
	)
	d.send([]string{user.Email}, subject, body)
}

// PasswordReset delivers a temporary password after a reset.
func (d *Dispatcher) PasswordReset(email, userID, tempPassword string) {
	subject := "Roomledger password reset"
	body := fmt.Sprintf(
		"Your password was reset.\n\nUser ID: %s\nTemporary password: %s\n\nYou will be asked to change it at next login.",
		userID, tempPassword,
	)
	d.send([]string{email}, subject, body)
}

// BillGenerated notifies every member on a new electricity bill.
func (d *Dispatcher) BillGenerated(bill *models.ElectricityBill, users []*models.User) {
	to := emailsFor(users, bill.UserIDs, "")

	subject := fmt.Sprintf("Electricity bill: %.2f (%.2f each)", bill.TotalAmount, bill.AmountPerUser)
	body := fmt.Sprintf(
		"A new electricity bill was generated.\n\nUnits consumed: %.2f\nRate per unit: %.2f\nTotal: %.2f\nYour share: %.2f",
		bill.UnitsConsumed, bill.RatePerUnit, bill.TotalAmount, bill.AmountPerUser,
	)
	d.send(to, subject, body)
}

// BalanceReminder sends a user a digest of what they currently owe.
func (d *Dispatcher) BalanceReminder(user *models.User, owed []calculator.Balance) {
	if user.Email == "" || len(owed) == 0 {
		return
	}

	var lines []string
	for _, b := range owed {
		lines = append(lines, fmt.Sprintf("  %s: %.2f", b.Name, -b.Amount))
	}

	subject := "Roomledger: outstanding balances"
	body := fmt.Sprintf(
		"Hi %s,\n\nYou currently owe:\n%s\n\nRecord a payment in Roomledger once you settle up.",
		user.Name, strings.Join(lines, "\n"),
	)
	d.send([]string{user.Email}, subject, body)
}
