package service

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mycredit/lending-engine/internal/domain"
	"github.com/mycredit/lending-engine/pkg/money"
)

// GenerateSchedule produces the due installments for a newly activated
// loan, all Unpaid with zero paid_amount.
//
// Monthly loans get term entries due at start + i calendar months.
// Bi-monthly loans get 2*term entries of half the installment, each due
// at start + round(i * 15.22) days; the non-uniform spacing keeps the
// final bi-monthly due date aligned with the monthly term end.
func GenerateSchedule(loanID uuid.UUID, amortization decimal.Decimal, termMonths int, frequency domain.ReleaseFrequency, start time.Time) []*domain.ScheduleEntry {
	count := termMonths
	amount := amortization
	if frequency == domain.FrequencyBiMonthly {
		count = 2 * termMonths
		amount = money.Round(amortization.Div(decimal.NewFromInt(2)))
	}

	entries := make([]*domain.ScheduleEntry, 0, count)
	for i := 1; i <= count; i++ {
		var dueDate time.Time
		if frequency == domain.FrequencyBiMonthly {
			dueDate = start.AddDate(0, 0, int(math.Round(float64(i)*15.22)))
		} else {
			dueDate = start.AddDate(0, i, 0)
		}

		entries = append(entries, &domain.ScheduleEntry{
			ID:              uuid.New(),
			LoanID:          loanID,
			DueDate:         dueDate,
			ScheduledAmount: amount,
			PaidAmount:      decimal.Zero,
			Status:          domain.ScheduleStatusUnpaid,
			CreatedAt:       start,
		})
	}

	return entries
}
