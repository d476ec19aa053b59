// Package notify decides which members get which outbound message and when.
// Delivery itself is a collaborator behind the Messenger interface.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vivekgym/gymdesk/internal/config"
	"github.com/vivekgym/gymdesk/internal/lifecycle"
	"github.com/vivekgym/gymdesk/internal/models"
	"github.com/vivekgym/gymdesk/internal/store"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Notifier scans the store for members due a renewal reminder and dispatches
// messages through the configured messenger.
type Notifier struct {
	store     *store.Store
	messenger Messenger
	gym       config.GymInfo
}

// NewNotifier constructs a Notifier.
func NewNotifier(st *store.Store, messenger Messenger, gym config.GymInfo) *Notifier {
	return &Notifier{store: st, messenger: messenger, gym: gym}
}

// Run performs one synchronous renewal scan: members whose expiry falls on
// today or tomorrow, restricted to the configured country-code prefix, each
// receive one reminder. Delivery failures are logged per recipient and
// excluded from the returned success count; members already reminded today
// are skipped so a restart on the same day re-sends nothing.
func (n *Notifier) Run(ctx context.Context, now time.Time) (int, error) {
	today := lifecycle.DateOnly(now)

	due, errScan := n.store.DueForRenewal(ctx, today, n.gym.CountryCode)
	if errScan != nil {
		return 0, errScan
	}

	sent := 0
	for i := range due {
		member := &due[i]

		reminded, errCheck := n.store.HasReminder(ctx, member.ID, today, models.ReminderRenewal)
		if errCheck != nil {
			return sent, errCheck
		}
		if reminded {
			log.WithField("member_id", member.ID).Debug("renewal reminder already sent today, skipping")
			continue
		}

		message := renewalMessage(member, n.gym)
		if errSend := n.messenger.Send(ctx, member.Phone, message); errSend != nil {
			log.WithError(errSend).WithFields(log.Fields{
				"member_id": member.ID,
				"phone":     member.Phone,
			}).Warn("renewal reminder delivery failed")
			continue
		}

		n.logDelivery(ctx, member, today, models.ReminderRenewal, message)
		sent++
	}
	return sent, nil
}

// SendWelcome delivers the enrollment welcome message. Failures are returned
// for the caller to log; enrollment itself must not fail on delivery.
func (n *Notifier) SendWelcome(ctx context.Context, member *models.Member, plan *models.SubscriptionPlan) error {
	message := welcomeMessage(member, plan, n.gym)
	if errSend := n.messenger.Send(ctx, member.Phone, message); errSend != nil {
		return errSend
	}
	n.logDelivery(ctx, member, lifecycle.DateOnly(time.Now()), models.ReminderWelcome, message)
	return nil
}

// logDelivery records a successful send. A logging failure must not undo a
// delivery that already happened, so it is only warned about.
func (n *Notifier) logDelivery(ctx context.Context, member *models.Member, date time.Time, kind models.ReminderKind, message string) {
	payload, errMarshal := json.Marshal(map[string]string{
		"message": message,
		"expiry":  member.ExpiryDate.Format(time.DateOnly),
	})
	if errMarshal != nil {
		payload = []byte("{}")
	}
	entry := models.ReminderLog{
		MemberID: member.ID,
		SentDate: date,
		Kind:     kind,
		Phone:    member.Phone,
		Payload:  datatypes.JSON(payload),
	}
	if errLog := n.store.LogReminder(ctx, entry); errLog != nil {
		log.WithError(errLog).WithField("member_id", member.ID).Warn("delivered message could not be logged")
	}
}

// renewalMessage builds the reminder text for a member due to expire.
func renewalMessage(member *models.Member, gym config.GymInfo) string {
	return fmt.Sprintf("Hi %s! Your %s membership expires on %s. Renew now! Address: %s. Contact: %s",
		member.Name, gym.Name, member.ExpiryDate.Format(time.DateOnly), gym.Address, gym.Phone)
}

// welcomeMessage builds the enrollment greeting with plan and price details.
func welcomeMessage(member *models.Member, plan *models.SubscriptionPlan, gym config.GymInfo) string {
	return fmt.Sprintf("Welcome to %s, %s! You subscribed to the %d-month plan for %s%.2f.\nStarts: %s, Expires: %s.\nAddress: %s",
		gym.Name, member.Name, plan.DurationMonths, gym.CurrencySymbol, plan.Price,
		member.JoinDate.Format(time.DateOnly), member.ExpiryDate.Format(time.DateOnly), gym.Address)
}
