package calculator

import (
	"math"
	"sort"

	"roomledger/internal/models"
)

// SettleEpsilon is the threshold under which a residual balance counts as
// settled. Division is plain float64, so sub-cent noise is expected.
const SettleEpsilon = 0.01

// Balance is the net amount one counterpart owes the requesting user
// (positive) or is owed by them (negative).
type Balance struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PairwiseBalances computes, for the requesting user, the net balance against
// every other known user from the full expense and payment collections.
//
// Algorithm:
//   - personal expenses are skipped entirely
//   - split: share = amount/len(splitWith); when the user paid, every other
//     member owes them a share; when the user is a member, they owe the payer
//   - paidFor: share = amount/len(paidFor); same crediting, but the payer is
//     never a member of paidFor
//   - payments: paying a counterpart raises their balance, being paid by one
//     lowers it
//
// Counterparts whose absolute balance is within SettleEpsilon are omitted.
func PairwiseBalances(userID string, users []*models.User, expenses []*models.Expense, payments []*models.Payment) []Balance {
	balances := make(map[string]*Balance)
	for _, u := range users {
		if u.UserID == userID {
			continue
		}
		balances[u.UserID] = &Balance{UserID: u.UserID, Name: u.Name}
	}

	for _, e := range expenses {
		switch e.Type {
		case models.ExpenseSplit:
			n := len(e.SplitWith)
			if n == 0 {
				continue
			}
			share := e.Amount / float64(n)
			if e.PaidBy == userID {
				for _, id := range e.SplitWith {
					if id == userID {
						continue
					}
					if b, ok := balances[id]; ok {
						b.Amount += share
					}
				}
			} else if contains(e.SplitWith, userID) {
				if b, ok := balances[e.PaidBy]; ok {
					b.Amount -= share
				}
			}

		case models.ExpensePaidFor:
			n := len(e.PaidFor)
			if n == 0 {
				continue
			}
			share := e.Amount / float64(n)
			if e.PaidBy == userID {
				for _, id := range e.PaidFor {
					if id == userID {
						continue
					}
					if b, ok := balances[id]; ok {
						b.Amount += share
					}
				}
			} else if contains(e.PaidFor, userID) {
				if b, ok := balances[e.PaidBy]; ok {
					b.Amount -= share
				}
			}
		}
		// Personal expenses never affect balances.
	}

	for _, p := range payments {
		if p.PaidBy == userID {
			if b, ok := balances[p.PaidTo]; ok {
				b.Amount += p.Amount
			}
		} else if p.PaidTo == userID {
			if b, ok := balances[p.PaidBy]; ok {
				b.Amount -= p.Amount
			}
		}
	}

	var out []Balance
	for _, b := range balances {
		if math.Abs(b.Amount) > SettleEpsilon {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
