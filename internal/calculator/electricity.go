package calculator

import "errors"

// RatePerUnit is the fixed electricity tariff in currency units per kWh.
const RatePerUnit = 9.0

var (
	ErrNegativeConsumption = errors.New("end reading is lower than start reading")
	ErrNoBillUsers         = errors.New("at least one user must be selected for the bill")
)

// BillAmounts derives the electricity bill figures from two meter readings
// and the number of members sharing the bill.
func BillAmounts(startReading, endReading float64, userCount int) (units, total, perUser float64, err error) {
	units = endReading - startReading
	if units < 0 {
		return 0, 0, 0, ErrNegativeConsumption
	}
	if userCount <= 0 {
		return 0, 0, 0, ErrNoBillUsers
	}
	total = units * RatePerUnit
	perUser = total / float64(userCount)
	return units, total, perUser, nil
}
