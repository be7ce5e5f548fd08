package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"roomledger/internal/calculator"
	"roomledger/internal/middleware"
	"roomledger/internal/models"
	"roomledger/internal/notify"
	"roomledger/internal/storage"
)

// ElectricityService records meter readings and generates bills from them.
// All of its operations are admin-only.
type ElectricityService struct {
	store  storage.Store
	notify *notify.Dispatcher
}

func NewElectricityService(store storage.Store, dispatcher *notify.Dispatcher) *ElectricityService {
	return &ElectricityService{store: store, notify: dispatcher}
}

type createReadingRequest struct {
	Reading     float64 `json:"reading"`
	ReadingDate string  `json:"readingDate"`
}

// CreateReading records a meter reading. Readings are monotonic: a new one
// may not carry an earlier date or a lower value than the latest on record.
func (s *ElectricityService) CreateReading(w http.ResponseWriter, r *http.Request) {
	var req createReadingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Reading < 0 {
		writeError(w, fmt.Errorf("%w: reading cannot be negative", errValidation))
		return
	}
	date, err := parseDate(req.ReadingDate)
	if err != nil {
		writeError(w, err)
		return
	}

	latest, err := s.store.LatestMeterReading(r.Context())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		writeError(w, err)
		return
	}
	if latest != nil {
		if date < latest.ReadingDate {
			writeError(w, fmt.Errorf("%w: reading date precedes the latest reading", errValidation))
			return
		}
		if req.Reading < latest.Reading {
			writeError(w, fmt.Errorf("%w: reading %.2f is below the latest reading %.2f", errValidation, req.Reading, latest.Reading))
			return
		}
	}

	reading := &models.MeterReading{
		Reading:     req.Reading,
		ReadingDate: date,
		RecordedBy:  middleware.GetUserID(r.Context()),
	}
	if err := s.store.CreateMeterReading(r.Context(), reading); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Meter reading recorded", "reading", reading.Reading, "recorded_by", reading.RecordedBy)
	writeData(w, http.StatusCreated, reading)
}

// ListReadings returns all meter readings ordered by date.
func (s *ElectricityService) ListReadings(w http.ResponseWriter, r *http.Request) {
	readings, err := s.store.ListMeterReadings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, readings)
}

type generateBillRequest struct {
	FromDate string   `json:"fromDate"`
	ToDate   string   `json:"toDate"`
	UserIDs  []string `json:"userIds"`
}

// GenerateBill derives an electricity bill from the earliest and latest
// meter readings inside the requested period and splits it equally across
// the selected members. The bill and its mirrored split expense are written
// atomically.
func (s *ElectricityService) GenerateBill(w http.ResponseWriter, r *http.Request) {
	var req generateBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	from, err := parseDate(req.FromDate)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := parseDateEnd(req.ToDate)
	if err != nil {
		writeError(w, err)
		return
	}
	if to < from {
		writeError(w, fmt.Errorf("%w: toDate precedes fromDate", errValidation))
		return
	}
	if len(req.UserIDs) == 0 {
		writeError(w, calculator.ErrNoBillUsers)
		return
	}

	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	adminID := middleware.GetUserID(r.Context())
	names, err := nameSnapshot(users, adminID, req.UserIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	readings, err := s.store.ListMeterReadings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var start, end *models.MeterReading
	for _, reading := range readings {
		if reading.ReadingDate < from || reading.ReadingDate > to {
			continue
		}
		if start == nil || reading.ReadingDate < start.ReadingDate {
			start = reading
		}
		if end == nil || reading.ReadingDate > end.ReadingDate {
			end = reading
		}
	}
	if start == nil || start.ID == end.ID {
		writeError(w, fmt.Errorf("%w: the period must contain at least two meter readings", errValidation))
		return
	}

	units, total, perUser, err := calculator.BillAmounts(start.Reading, end.Reading, len(req.UserIDs))
	if err != nil {
		writeError(w, err)
		return
	}

	period := fmt.Sprintf("%s to %s",
		time.Unix(from, 0).UTC().Format(dateLayout),
		time.Unix(to, 0).UTC().Format(dateLayout),
	)
	expense := &models.Expense{
		Amount:      total,
		Description: "Electricity bill (" + period + ")",
		PaidBy:      adminID,
		SplitWith:   req.UserIDs,
		Type:        models.ExpenseSplit,
		UserNames:   names,
	}
	bill := &models.ElectricityBill{
		FromDate:      from,
		ToDate:        to,
		StartReading:  start.Reading,
		EndReading:    end.Reading,
		UnitsConsumed: units,
		RatePerUnit:   calculator.RatePerUnit,
		TotalAmount:   total,
		UserIDs:       req.UserIDs,
		AmountPerUser: perUser,
		GeneratedBy:   adminID,
	}
	if err := s.store.CreateBillWithExpense(r.Context(), bill, expense); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Electricity bill generated",
		"bill_id", bill.ID,
		"units", units,
		"total", total,
		"users", len(req.UserIDs),
		"generated_by", adminID,
	)
	s.notify.BillGenerated(bill, users)
	writeData(w, http.StatusCreated, bill)
}

// ListBills returns all generated bills, newest first.
func (s *ElectricityService) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.store.ListElectricityBills(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, bills)
}
