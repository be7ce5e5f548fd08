// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"roomledger/internal/calculator"
	"roomledger/internal/notify"
	"roomledger/internal/storage"
)

// Scheduler owns the cron runner for background jobs.
type Scheduler struct {
	cron   *cron.Cron
	store  storage.Store
	notify *notify.Dispatcher
}

func New(store storage.Store, dispatcher *notify.Dispatcher) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		notify: dispatcher,
	}
}

// Start registers the balance reminder job on the given cron schedule and
// starts the runner. An empty schedule disables the job entirely.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		slog.Info("Balance reminders disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, s.sendBalanceReminders); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Balance reminders scheduled", "schedule", schedule)
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// sendBalanceReminders mails each active member a digest of what they owe.
// Members with nothing outstanding get no mail.
func (s *Scheduler) sendBalanceReminders() {
	ctx := context.Background()

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		slog.Error("Balance reminder run failed to list users", "error", err)
		return
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		slog.Error("Balance reminder run failed to list expenses", "error", err)
		return
	}
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		slog.Error("Balance reminder run failed to list payments", "error", err)
		return
	}

	sent := 0
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		var owed []calculator.Balance
		for _, b := range calculator.PairwiseBalances(user.UserID, users, expenses, payments) {
			if b.Amount < 0 {
				owed = append(owed, b)
			}
		}
		if len(owed) == 0 {
			continue
		}
		s.notify.BalanceReminder(user, owed)
		sent++
	}
	slog.Info("Balance reminder run finished", "reminders", sent)
}
