package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"roomledger/internal/middleware"
	"roomledger/internal/models"
	"roomledger/internal/notify"
	"roomledger/internal/storage"
)

// PaymentService records settlement payments between members.
type PaymentService struct {
	store  storage.Store
	notify *notify.Dispatcher
}

func NewPaymentService(store storage.Store, dispatcher *notify.Dispatcher) *PaymentService {
	return &PaymentService{store: store, notify: dispatcher}
}

type createPaymentRequest struct {
	PaidBy string  `json:"paidBy"`
	PaidTo string  `json:"paidTo"`
	Amount float64 `json:"amount"`
}

// Create records a payment from one member to another. The caller must be
// one of the two parties unless they are an admin. Payments reduce the
// pairwise balance; they never zero it out by themselves.
func (s *PaymentService) Create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	callerID := middleware.GetUserID(r.Context())
	if req.PaidBy == "" {
		req.PaidBy = callerID
	}
	if req.PaidTo == "" {
		writeError(w, fmt.Errorf("%w: paidTo is required", errValidation))
		return
	}
	if req.PaidBy == req.PaidTo {
		writeError(w, fmt.Errorf("%w: payer and receiver must differ", errValidation))
		return
	}
	if req.Amount <= 0 {
		writeError(w, fmt.Errorf("%w: amount must be positive", errValidation))
		return
	}
	if callerID != req.PaidBy && callerID != req.PaidTo && !middleware.IsAdmin(r.Context()) {
		writeError(w, fmt.Errorf("%w: payments can only be recorded by one of the parties", errValidation))
		return
	}

	payer, err := s.store.GetUser(r.Context(), req.PaidBy)
	if err != nil {
		writeError(w, err)
		return
	}
	receiver, err := s.store.GetUser(r.Context(), req.PaidTo)
	if err != nil {
		writeError(w, err)
		return
	}

	payment := &models.Payment{
		PaidBy:     payer.UserID,
		PaidByName: payer.Name,
		PaidTo:     receiver.UserID,
		PaidToName: receiver.Name,
		Amount:     req.Amount,
	}
	if err := s.store.CreatePayment(r.Context(), payment); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Payment recorded",
		"payment_id", payment.ID,
		"paid_by", payment.PaidBy,
		"paid_to", payment.PaidTo,
		"amount", payment.Amount,
	)
	s.notify.PaymentRecorded(payment, []*models.User{payer, receiver})
	writeData(w, http.StatusCreated, payment)
}

// List returns the payments the viewer took part in, in either direction,
// newest first.
func (s *PaymentService) List(w http.ResponseWriter, r *http.Request) {
	viewerID, err := viewAs(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payments, err := s.store.ListPayments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	involved := make([]*models.Payment, 0, len(payments))
	for i := len(payments) - 1; i >= 0; i-- {
		p := payments[i]
		if p.PaidBy == viewerID || p.PaidTo == viewerID {
			involved = append(involved, p)
		}
	}
	writeData(w, http.StatusOK, involved)
}
