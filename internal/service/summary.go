package service

import (
	"net/http"

	"roomledger/internal/calculator"
	"roomledger/internal/storage"
)

// SummaryService serves pairwise settlement balances.
type SummaryService struct {
	store storage.Store
}

func NewSummaryService(store storage.Store) *SummaryService {
	return &SummaryService{store: store}
}

// Get returns who owes the viewer and whom the viewer owes, one entry per
// counterparty, with settled pairs filtered out. Admins may view another
// member's summary via the userId query parameter.
func (s *SummaryService) Get(w http.ResponseWriter, r *http.Request) {
	viewerID, err := viewAs(r)
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	payments, err := s.store.ListPayments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, calculator.PairwiseBalances(viewerID, users, expenses, payments))
}
