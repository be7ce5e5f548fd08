package calculator

import (
	"math"
	"reflect"
	"testing"

	"roomledger/internal/models"
)

func testUsers() []*models.User {
	return []*models.User{
		{UserID: "x", Name: "Xavier", IsActive: true},
		{UserID: "y", Name: "Yara", IsActive: true},
		{UserID: "z", Name: "Zoe", IsActive: true},
	}
}

func balanceFor(t *testing.T, balances []Balance, userID string) Balance {
	t.Helper()
	for _, b := range balances {
		if b.UserID == userID {
			return b
		}
	}
	t.Fatalf("no balance entry for %s in %+v", userID, balances)
	return Balance{}
}

func TestPairwiseBalances_SplitExpense(t *testing.T) {
	// X adds a 300 split with [X, Y, Z].
	expenses := []*models.Expense{
		{
			ID: "e1", Amount: 300, Description: "Groceries", PaidBy: "x",
			SplitWith: []string{"x", "y", "z"}, Type: models.ExpenseSplit,
		},
	}

	forX := PairwiseBalances("x", testUsers(), expenses, nil)
	if got := balanceFor(t, forX, "y").Amount; math.Abs(got-100) > 0.01 {
		t.Errorf("X's balance against Y = %v, want 100", got)
	}
	if got := balanceFor(t, forX, "z").Amount; math.Abs(got-100) > 0.01 {
		t.Errorf("X's balance against Z = %v, want 100", got)
	}

	forY := PairwiseBalances("y", testUsers(), expenses, nil)
	if got := balanceFor(t, forY, "x").Amount; math.Abs(got+100) > 0.01 {
		t.Errorf("Y's balance against X = %v, want -100", got)
	}
	// Y and Z have no direct debt from this expense.
	for _, b := range forY {
		if b.UserID == "z" {
			t.Errorf("Y should have no balance entry against Z, got %+v", b)
		}
	}
}

func TestPairwiseBalances_SplitIsZeroSum(t *testing.T) {
	expenses := []*models.Expense{
		{
			ID: "e1", Amount: 300, Description: "Rent", PaidBy: "x",
			SplitWith: []string{"x", "y", "z"}, Type: models.ExpenseSplit,
		},
	}

	// What X is owed must equal what Y and Z owe combined: the expense is a
	// closed transfer, amount - amount/n credited to the payer.
	forX := PairwiseBalances("x", testUsers(), expenses, nil)
	credited := 0.0
	for _, b := range forX {
		credited += b.Amount
	}
	if math.Abs(credited-(300-300.0/3)) > 0.01 {
		t.Errorf("total credited to payer = %v, want %v", credited, 300-300.0/3)
	}

	debited := 0.0
	for _, uid := range []string{"y", "z"} {
		for _, b := range PairwiseBalances(uid, testUsers(), expenses, nil) {
			debited += b.Amount
		}
	}
	if math.Abs(credited+debited) > 0.01 {
		t.Errorf("system not zero-sum: credited %v, debited %v", credited, debited)
	}
}

func TestPairwiseBalances_PaidForExpense(t *testing.T) {
	// Scenario D: A pays 90 for [B, C].
	users := []*models.User{
		{UserID: "a", Name: "Ann", IsActive: true},
		{UserID: "b", Name: "Ben", IsActive: true},
		{UserID: "c", Name: "Cam", IsActive: true},
	}
	expenses := []*models.Expense{
		{
			ID: "e1", Amount: 90, Description: "Takeout", PaidBy: "a",
			PaidFor: []string{"b", "c"}, Type: models.ExpensePaidFor,
		},
	}

	forA := PairwiseBalances("a", users, expenses, nil)
	if got := balanceFor(t, forA, "b").Amount; math.Abs(got-45) > 0.01 {
		t.Errorf("A's balance against B = %v, want 45", got)
	}
	if got := balanceFor(t, forA, "c").Amount; math.Abs(got-45) > 0.01 {
		t.Errorf("A's balance against C = %v, want 45", got)
	}

	forB := PairwiseBalances("b", users, expenses, nil)
	if got := balanceFor(t, forB, "a").Amount; math.Abs(got+45) > 0.01 {
		t.Errorf("B's balance against A = %v, want -45", got)
	}
}

func TestPairwiseBalances_PersonalNeverAffectsBalances(t *testing.T) {
	expenses := []*models.Expense{
		{
			ID: "e1", Amount: 1000, Description: "New phone", PaidBy: "x",
			PaidFor: []string{"x"}, Type: models.ExpensePersonal,
		},
	}

	for _, uid := range []string{"x", "y", "z"} {
		if got := PairwiseBalances(uid, testUsers(), expenses, nil); len(got) != 0 {
			t.Errorf("personal expense produced balances for %s: %+v", uid, got)
		}
	}
}

func TestPairwiseBalances_PaymentShiftsBalance(t *testing.T) {
	// Scenario B: after a 300 three-way split paid by X, X pays 50 to Y.
	expenses := []*models.Expense{
		{
			ID: "e1", Amount: 300, Description: "Groceries", PaidBy: "x",
			SplitWith: []string{"x", "y", "z"}, Type: models.ExpenseSplit,
		},
	}
	payments := []*models.Payment{
		{ID: "p1", PaidBy: "x", PaidTo: "y", Amount: 50},
	}

	before := balanceFor(t, PairwiseBalances("x", testUsers(), expenses, nil), "y").Amount
	after := balanceFor(t, PairwiseBalances("x", testUsers(), expenses, payments), "y").Amount
	if math.Abs(after-before-50) > 0.01 {
		t.Errorf("payment shifted X's balance against Y by %v, want +50", after-before)
	}

	// The mirrored view: Y sees their debt to X grow by 50.
	forY := balanceFor(t, PairwiseBalances("y", testUsers(), expenses, payments), "x").Amount
	if math.Abs(forY+150) > 0.01 {
		t.Errorf("Y's balance against X = %v, want -150", forY)
	}
}

func TestPairwiseBalances_PaymentSettlesDebt(t *testing.T) {
	expenses := []*models.Expense{
		{
			ID: "e1", Amount: 200, Description: "Utilities", PaidBy: "y",
			SplitWith: []string{"x", "y"}, Type: models.ExpenseSplit,
		},
	}
	// X owes Y 100; X pays Y 100; the pair is settled and filtered out.
	payments := []*models.Payment{
		{ID: "p1", PaidBy: "x", PaidTo: "y", Amount: 100},
	}

	if got := PairwiseBalances("x", testUsers(), expenses, payments); len(got) != 0 {
		t.Errorf("settled pair still reported: %+v", got)
	}
}

func TestPairwiseBalances_Idempotent(t *testing.T) {
	expenses := []*models.Expense{
		{ID: "e1", Amount: 300, PaidBy: "x", SplitWith: []string{"x", "y", "z"}, Type: models.ExpenseSplit},
		{ID: "e2", Amount: 90, PaidBy: "y", PaidFor: []string{"x", "z"}, Type: models.ExpensePaidFor},
	}
	payments := []*models.Payment{
		{ID: "p1", PaidBy: "z", PaidTo: "x", Amount: 25},
	}

	first := PairwiseBalances("x", testUsers(), expenses, payments)
	second := PairwiseBalances("x", testUsers(), expenses, payments)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("balances not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestPairwiseBalances_SkipsEmptyParticipantSets(t *testing.T) {
	// Defensive: malformed records with no participants must not divide by zero.
	expenses := []*models.Expense{
		{ID: "e1", Amount: 100, PaidBy: "x", Type: models.ExpenseSplit},
		{ID: "e2", Amount: 100, PaidBy: "x", Type: models.ExpensePaidFor},
	}

	if got := PairwiseBalances("x", testUsers(), expenses, nil); len(got) != 0 {
		t.Errorf("empty participant sets produced balances: %+v", got)
	}
}

func TestPairwiseBalances_NameSnapshotFromUsers(t *testing.T) {
	expenses := []*models.Expense{
		{ID: "e1", Amount: 300, PaidBy: "x", SplitWith: []string{"x", "y", "z"}, Type: models.ExpenseSplit},
	}
	got := balanceFor(t, PairwiseBalances("x", testUsers(), expenses, nil), "y")
	if got.Name != "Yara" {
		t.Errorf("balance name = %q, want %q", got.Name, "Yara")
	}
}
