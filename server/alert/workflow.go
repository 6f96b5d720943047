package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/Daskott/soilsense/colors"
	"github.com/Daskott/soilsense/server/models"
	"github.com/Daskott/soilsense/server/observability"
	"github.com/Daskott/soilsense/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	SCHEDULED_TRIGGER = "scheduled"
	MANUAL_TRIGGER    = "manual"
)

// Outcome describes how a single moisture check ended
type Outcome string

const (
	OutcomeAlertSent      Outcome = "alert_sent"
	OutcomeManualSent     Outcome = "manual_sent"
	OutcomeNoActionNeeded Outcome = "no_action_needed"
	OutcomeNoContact      Outcome = "no_contact"
	OutcomeFetchFailed    Outcome = "fetch_failed"
	OutcomeStoreFailed    Outcome = "store_failed"
	OutcomeDeliveryFailed Outcome = "delivery_failed"
	OutcomeBusy           Outcome = "busy"
)

// ErrCheckInProgress is returned by TriggerManual while another check is running
var ErrCheckInProgress = errors.New("a moisture check is already in progress")

type MoistureSource interface {
	FetchLatestMoisture(ctx context.Context) (float64, error)
}

type ContactFinder interface {
	FindContact() (*models.Contact, error)
	LatestPhoneNumber() (string, error)
}

type Notifier interface {
	SendMessage(ctx context.Context, to, body string) (string, error)
}

// ManualResult is what a manual trigger did
type ManualResult struct {
	Outcome     Outcome `json:"outcome"`
	Moisture    float64 `json:"soilMoisture"`
	PhoneNumber string  `json:"phoneNumber"`
	MessageSid  string  `json:"messageSid,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// Workflow fetches a reading, checks it against the threshold & notifies the farmer.
// Only one check runs at a time; overlapping calls are skipped.
type Workflow struct {
	sensor    MoistureSource
	contacts  ContactFinder
	notifier  Notifier
	threshold float64
	metrics   *observability.Metrics
	logg      *zap.SugaredLogger
	inFlight  chan struct{}
}

func NewWorkflow(
	sensor MoistureSource,
	contacts ContactFinder,
	notifier Notifier,
	threshold float64,
	metrics *observability.Metrics,
	logg *zap.SugaredLogger) *Workflow {

	return &Workflow{
		sensor:    sensor,
		contacts:  contacts,
		notifier:  notifier,
		threshold: threshold,
		metrics:   metrics,
		logg:      logg,
		inFlight:  make(chan struct{}, 1),
	}
}

// RunCheck runs one moisture check. It never fails: every problem is logged
// and reported through the returned Outcome.
func (w *Workflow) RunCheck(ctx context.Context) Outcome {
	runID := uuid.NewString()

	if !w.acquire() {
		w.logInfof(runID, "skipping check, another one is in progress")
		w.record(SCHEDULED_TRIGGER, OutcomeBusy)
		return OutcomeBusy
	}
	defer w.release()

	outcome, err := w.check(ctx, runID)
	switch {
	case err != nil:
		w.logErrorf(runID, "check ended with %v: %v", outcome, err)
	case outcome == OutcomeNoContact:
		w.logWarnf(runID, "no farmer contact set, skipping alert")
	}

	w.record(SCHEDULED_TRIGGER, outcome)
	return outcome
}

// TriggerManual fetches a fresh reading & sends it to the stored contact,
// regardless of the threshold.
//
// Returns models.ErrContactNotFound when no contact is set, in which case nothing is fetched or sent.
// A failed delivery is not an error, it's reported with OutcomeDeliveryFailed.
func (w *Workflow) TriggerManual(ctx context.Context) (*ManualResult, error) {
	runID := uuid.NewString()

	if !w.acquire() {
		w.record(MANUAL_TRIGGER, OutcomeBusy)
		return nil, ErrCheckInProgress
	}
	defer w.release()

	contact, err := w.contacts.FindContact()
	if errors.Is(err, models.ErrContactNotFound) {
		w.logWarnf(runID, "manual trigger without a farmer contact")
		w.record(MANUAL_TRIGGER, OutcomeNoContact)
		return nil, err
	}
	if err != nil {
		w.record(MANUAL_TRIGGER, OutcomeStoreFailed)
		return nil, err
	}

	moisture, err := w.sensor.FetchLatestMoisture(ctx)
	if err != nil {
		w.logErrorf(runID, "manual trigger: %v", err)
		w.record(MANUAL_TRIGGER, OutcomeFetchFailed)
		return nil, err
	}
	w.observeMoisture(moisture)

	result := &ManualResult{Moisture: moisture, PhoneNumber: contact.PhoneNumber}

	sid, err := w.notify(ctx, MANUAL_TRIGGER, contact.PhoneNumber, manualMessage(contact.Name, moisture))
	if err != nil {
		w.logErrorf(runID, "manual trigger: %v", err)
		result.Outcome = OutcomeDeliveryFailed
		result.Reason = err.Error()
	} else {
		w.logInfof(runID, "manual message sent to %v, sid=%v", contact.PhoneNumber, sid)
		result.Outcome = OutcomeManualSent
		result.MessageSid = sid
	}

	w.record(MANUAL_TRIGGER, result.Outcome)
	return result, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (w *Workflow) check(ctx context.Context, runID string) (Outcome, error) {
	moisture, err := w.sensor.FetchLatestMoisture(ctx)
	if err != nil {
		return OutcomeFetchFailed, err
	}
	w.observeMoisture(moisture)

	phoneNumber, err := w.contacts.LatestPhoneNumber()
	if errors.Is(err, models.ErrContactNotFound) {
		return OutcomeNoContact, nil
	}
	if err != nil {
		return OutcomeStoreFailed, err
	}

	if moisture >= w.threshold {
		w.logInfof(runID, "soil moisture at %v%%, no action needed", utils.FormatPercentage(moisture))
		return OutcomeNoActionNeeded, nil
	}

	sid, err := w.notify(ctx, SCHEDULED_TRIGGER, phoneNumber, alertMessage(moisture))
	if err != nil {
		return OutcomeDeliveryFailed, err
	}

	w.logInfof(runID, "low moisture alert sent to %v, sid=%v", phoneNumber, sid)
	return OutcomeAlertSent, nil
}

func (w *Workflow) notify(ctx context.Context, trigger, to, body string) (string, error) {
	sid, err := w.notifier.SendMessage(ctx, to, body)
	if w.metrics == nil {
		return sid, err
	}

	if err != nil {
		w.metrics.MessageFailures.Inc()
		return sid, err
	}

	kind := "alert"
	if trigger == MANUAL_TRIGGER {
		kind = MANUAL_TRIGGER
	}
	w.metrics.MessagesSent.WithLabelValues(kind).Inc()

	return sid, nil
}

func (w *Workflow) acquire() bool {
	select {
	case w.inFlight <- struct{}{}:
		return true
	default:
		return false
	}
}

func (w *Workflow) release() {
	<-w.inFlight
}

func (w *Workflow) observeMoisture(moisture float64) {
	if w.metrics != nil {
		w.metrics.SoilMoisture.Set(moisture)
	}
}

func (w *Workflow) record(trigger string, outcome Outcome) {
	if w.metrics == nil {
		return
	}

	w.metrics.ChecksTotal.WithLabelValues(trigger, string(outcome)).Inc()
	if outcome != OutcomeBusy {
		w.metrics.LastCheckSeconds.Set(float64(time.Now().Unix()))
	}
}

func alertMessage(moisture float64) string {
	return fmt.Sprintf(
		"Alert: soil moisture is low at %v%%. Please water your crops.",
		utils.FormatPercentage(moisture))
}

func manualMessage(name string, moisture float64) string {
	greeting := "Hi"
	if name != "" {
		greeting = fmt.Sprintf("Hi %v", name)
	}

	return fmt.Sprintf("%v, manual check: current soil moisture is %v%%.", greeting, utils.FormatPercentage(moisture))
}

func (w *Workflow) logInfof(runID, template string, args ...interface{}) {
	w.logg.Infow(colors.Prefix("alert", colors.Yellow)+fmt.Sprintf(template, args...), "run_id", runID)
}

func (w *Workflow) logWarnf(runID, template string, args ...interface{}) {
	w.logg.Warnw(colors.Prefix("alert", colors.Yellow)+fmt.Sprintf(template, args...), "run_id", runID)
}

func (w *Workflow) logErrorf(runID, template string, args ...interface{}) {
	w.logg.Errorw(colors.Prefix("alert", colors.Red)+fmt.Sprintf(template, args...), "run_id", runID)
}
