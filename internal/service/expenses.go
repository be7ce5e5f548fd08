package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"roomledger/internal/calculator"
	"roomledger/internal/middleware"
	"roomledger/internal/models"
	"roomledger/internal/notify"
	"roomledger/internal/storage"
)

// ExpenseService records expenses and serves involvement-filtered views of
// them, each annotated with the viewer's share.
type ExpenseService struct {
	store    storage.Store
	receipts *ReceiptStore
	notify   *notify.Dispatcher
}

func NewExpenseService(store storage.Store, receipts *ReceiptStore, dispatcher *notify.Dispatcher) *ExpenseService {
	return &ExpenseService{store: store, receipts: receipts, notify: dispatcher}
}

type createExpenseRequest struct {
	Amount      float64  `json:"amount"`
	Description string   `json:"description"`
	ExpenseType string   `json:"expenseType"`
	SplitWith   []string `json:"splitWith"`
}

// expenseView pairs an expense with the viewer's share of it.
type expenseView struct {
	*models.Expense
	ViewerShare calculator.Share `json:"viewerShare"`
}

// Create records a new expense paid by the caller. The body is either JSON
// or multipart form data; the multipart variant may carry a receipt image.
// The stored type is derived from the declared type and the selected
// participants, not trusted from the client.
func (s *ExpenseService) Create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	var receiptURL string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(MaxReceiptSize); err != nil {
			writeError(w, fmt.Errorf("%w: malformed multipart body", errValidation))
			return
		}
		amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid amount", errValidation))
			return
		}
		req.Amount = amount
		req.Description = r.FormValue("description")
		req.ExpenseType = r.FormValue("expenseType")
		if raw := r.FormValue("splitWith"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.SplitWith); err != nil {
				writeError(w, fmt.Errorf("%w: splitWith must be a JSON array of user IDs", errValidation))
				return
			}
		}

		file, header, err := r.FormFile("receipt")
		if err == nil {
			defer file.Close()
			receiptURL, err = s.receipts.Save(file, header)
			if err != nil {
				writeError(w, err)
				return
			}
		}
	} else {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	payer := middleware.GetUserID(r.Context())

	var declared calculator.DeclaredType
	switch req.ExpenseType {
	case string(calculator.DeclaredSplit), "":
		declared = calculator.DeclaredSplit
	case string(calculator.DeclaredPersonal):
		declared = calculator.DeclaredPersonal
	default:
		writeError(w, fmt.Errorf("%w: expenseType must be split or personal", errValidation))
		return
	}

	classification, err := calculator.Classify(req.Amount, req.Description, payer, declared, req.SplitWith)
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	names, err := nameSnapshot(users, payer, classification.SplitWith, classification.PaidFor)
	if err != nil {
		writeError(w, err)
		return
	}

	expense := &models.Expense{
		Amount:      req.Amount,
		Description: req.Description,
		PaidBy:      payer,
		SplitWith:   classification.SplitWith,
		PaidFor:     classification.PaidFor,
		Type:        classification.Type,
		UserNames:   names,
		ReceiptURL:  receiptURL,
	}
	if err := s.store.CreateExpense(r.Context(), expense); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"type", expense.Type,
		"amount", expense.Amount,
		"paid_by", payer,
	)
	s.notify.ExpenseAdded(expense, users)
	writeData(w, http.StatusCreated, expenseView{
		Expense:     expense,
		ViewerShare: calculator.ViewerShare(expense, payer),
	})
}

// List returns the expenses the viewer is involved in, newest first,
// optionally bounded by a startDate/endDate range (inclusive of both days).
// Admins may view as another member via the userId query parameter.
func (s *ExpenseService) List(w http.ResponseWriter, r *http.Request) {
	viewerID, err := viewAs(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var from, to int64
	if v := r.URL.Query().Get("startDate"); v != "" {
		if from, err = parseDate(v); err != nil {
			writeError(w, err)
			return
		}
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		if to, err = parseDateEnd(v); err != nil {
			writeError(w, err)
			return
		}
	}

	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]expenseView, 0, len(expenses))
	for i := len(expenses) - 1; i >= 0; i-- {
		e := expenses[i]
		if !e.Involves(viewerID) {
			continue
		}
		if from != 0 && e.CreatedAt < from {
			continue
		}
		if to != 0 && e.CreatedAt > to {
			continue
		}
		views = append(views, expenseView{
			Expense:     e,
			ViewerShare: calculator.ViewerShare(e, viewerID),
		})
	}
	writeData(w, http.StatusOK, views)
}

// Get returns a single expense with the caller's share. Members can only
// fetch expenses they are involved in; admins can fetch any.
func (s *ExpenseService) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := s.store.GetExpense(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	viewerID := middleware.GetUserID(r.Context())
	if !expense.Involves(viewerID) && !middleware.IsAdmin(r.Context()) {
		writeError(w, storage.ErrNotFound)
		return
	}

	writeData(w, http.StatusOK, expenseView{
		Expense:     expense,
		ViewerShare: calculator.ViewerShare(expense, viewerID),
	})
}

// viewAs resolves the effective viewer for a list request: the caller, or
// another member when an admin passes userId.
func viewAs(r *http.Request) (string, error) {
	callerID := middleware.GetUserID(r.Context())
	requested := r.URL.Query().Get("userId")
	if requested == "" || requested == callerID {
		return callerID, nil
	}
	if !middleware.IsAdmin(r.Context()) {
		return "", fmt.Errorf("%w: userId may only differ from the caller for admins", errValidation)
	}
	return requested, nil
}

// nameSnapshot resolves display names for the payer and every participant,
// rejecting IDs that do not belong to a known active member.
func nameSnapshot(users []*models.User, payer string, participantSets ...[]string) (map[string]string, error) {
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	names := make(map[string]string)
	resolve := func(id string) error {
		u, ok := byID[id]
		if !ok || !u.IsActive {
			return fmt.Errorf("%w: unknown user %s", errValidation, id)
		}
		names[id] = u.Name
		return nil
	}

	if err := resolve(payer); err != nil {
		return nil, err
	}
	for _, set := range participantSets {
		for _, id := range set {
			if err := resolve(id); err != nil {
				return nil, err
			}
		}
	}
	return names, nil
}
