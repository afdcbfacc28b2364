package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/model"
	apperrors "github.com/felicare/ckd-api/pkg/errors"
	"github.com/felicare/ckd-api/pkg/logger"
	"github.com/felicare/ckd-api/pkg/metrics"
	"github.com/felicare/ckd-api/pkg/timeutil"
)

// Synthetic schedule IDs for summary notifications. They live in the
// same index as treatment reminders and get deterministic IDs the same
// way.
const (
	summaryEndOfDayID = "summary:eod"
	summaryWeeklyID   = "summary:weekly"
)

// Policy holds the reminder timing knobs. The defaults mirror product
// behavior but are configuration, not invariants.
type Policy struct {
	GracePeriod       time.Duration
	FollowupOffset    time.Duration
	SnoozeOffset      time.Duration
	WeeklySummaryDay  time.Weekday
	WeeklySummaryTime string
}

func DefaultPolicy() Policy {
	return Policy{
		GracePeriod:       30 * time.Minute,
		FollowupOffset:    2 * time.Hour,
		SnoozeOffset:      15 * time.Minute,
		WeeklySummaryDay:  time.Sunday,
		WeeklySummaryTime: "18:00",
	}
}

// ScheduleReader is the narrow read-only view of cached schedule state
// the engine depends on. Reads are zero network cost.
type ScheduleReader interface {
	MedicationSchedules(ctx context.Context, petID uuid.UUID) ([]model.MedicationSchedule, error)
	FluidSchedule(ctx context.Context, petID uuid.UUID) (*model.FluidSchedule, error)
}

// TreatmentReader answers which reminder slots have already been logged
// on a day. Keys are "scheduleID|HH:mm".
type TreatmentReader interface {
	LoggedSlots(ctx context.Context, petID uuid.UUID, day time.Time) (map[string]bool, error)
}

// SettingsReader provides the caregiver's notification settings.
type SettingsReader interface {
	Get(ctx context.Context, caregiverID uuid.UUID) (model.NotificationSettings, error)
}

// Engine reconciles the set of notifications that should exist for a
// scope against the device scheduler, keeping the persisted index in
// step. All dependencies are injected; the engine holds no hidden state
// beyond its per-scope locks.
type Engine struct {
	store      *IndexStore
	device     DeviceScheduler
	schedules  ScheduleReader
	treatments TreatmentReader
	settings   SettingsReader
	policy     Policy
	clock      func() time.Time
	logger     *logger.Logger
	metrics    *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(
	store *IndexStore,
	device DeviceScheduler,
	schedules ScheduleReader,
	treatments TreatmentReader,
	settings SettingsReader,
	policy Policy,
	log *logger.Logger,
	m *metrics.Metrics,
) *Engine {
	return &Engine{
		store:      store,
		device:     device,
		schedules:  schedules,
		treatments: treatments,
		settings:   settings,
		policy:     policy,
		clock:      time.Now,
		logger:     log,
		metrics:    m,
		locks:      make(map[string]*sync.Mutex),
	}
}

// WithClock overrides the engine's time source.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// scopeLock returns the mutex serializing reconciliation for one scope.
// Passes for different scopes interleave freely.
func (e *Engine) scopeLock(scope Scope) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := scope.Key()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	return l
}

// ComputeTargetEntries computes the full set of notifications that
// should exist for a scope on a day. It is pure: no store or device
// access, so behavior is testable in isolation.
func ComputeTargetEntries(
	caregiverID, petID uuid.UUID,
	day time.Time,
	meds []model.MedicationSchedule,
	fluid *model.FluidSchedule,
	settings model.NotificationSettings,
	logged map[string]bool,
	now time.Time,
	policy Policy,
) model.NotificationIndex {
	target := model.NewNotificationIndex()
	if !settings.Enabled {
		return target
	}

	cg, pet := caregiverID.String(), petID.String()

	emit := func(scheduleID string, tt model.TreatmentType, slot string, kind model.NotificationKind) {
		id := GenerateNotificationID(cg, pet, scheduleID, slot, kind)
		entry, err := model.NewScheduledNotificationEntry(id, scheduleID, tt, slot, kind)
		if err != nil {
			return
		}
		// Add reports false on an ID collision; the surviving entry
		// keeps covering its slot, which is the accepted degradation.
		target.Add(entry)
	}

	emitSlots := func(scheduleID string, tt model.TreatmentType, slots []string) {
		for _, slot := range slots {
			emit(scheduleID, tt, slot, model.KindInitial)

			if !settings.FollowupsEnabled || logged[slotKey(scheduleID, slot)] {
				continue
			}
			hm, err := timeutil.ParseTimeString(slot)
			if err != nil {
				continue
			}
			slotAt := hm.On(day)
			if now.Before(slotAt.Add(policy.GracePeriod)) {
				continue
			}
			followAt := slotAt.Add(policy.FollowupOffset)
			if followAt.Day() != day.Day() {
				// A follow-up past midnight belongs to no slot on this
				// day's index.
				continue
			}
			emit(scheduleID, tt, timeutil.FromTime(followAt).String(), model.KindFollowup)
		}
	}

	for i := range meds {
		s := &meds[i]
		emitSlots(s.ID.String(), model.TreatmentTypeMedication, s.ReminderTimesOnDate(day))
	}
	if fluid != nil {
		emitSlots(fluid.ID.String(), model.TreatmentTypeFluid, fluid.ReminderTimesOnDate(day))
	}

	if settings.EndOfDaySummary && timeutil.IsValidTimeString(settings.EndOfDayTime) {
		emit(summaryEndOfDayID, model.TreatmentTypeCare, settings.EndOfDayTime, model.KindSummary)
	}
	if settings.WeeklySummary && day.Weekday() == policy.WeeklySummaryDay &&
		timeutil.IsValidTimeString(policy.WeeklySummaryTime) {
		emit(summaryWeeklyID, model.TreatmentTypeCare, policy.WeeklySummaryTime, model.KindSummary)
	}

	return target
}

func slotKey(scheduleID, slot string) string {
	return scheduleID + "|" + slot
}

// Reconcile runs one full pass for a scope: compute the target set,
// diff it against the stored index, apply the minimal cancel/schedule
// set to the device, and persist the achieved state. Safe to re-run at
// any point; a second call for the same scope waits for the first.
func (e *Engine) Reconcile(ctx context.Context, caregiverID, petID uuid.UUID, day time.Time) error {
	scope := Scope{CaregiverID: caregiverID, PetID: petID, Day: day}
	lock := e.scopeLock(scope)
	lock.Lock()
	defer lock.Unlock()

	start := e.clock()
	err := e.reconcileLocked(ctx, scope)
	e.metrics.ReconcileDuration.Observe(e.clock().Sub(start).Seconds())
	if err != nil {
		e.metrics.ReconcileFailures.Inc()
		return err
	}
	e.metrics.ReconcilePasses.Inc()
	return nil
}

func (e *Engine) reconcileLocked(ctx context.Context, scope Scope) error {
	settings, err := e.settings.Get(ctx, scope.CaregiverID)
	if err != nil {
		return fmt.Errorf("failed to read notification settings: %w", err)
	}

	meds, err := e.schedules.MedicationSchedules(ctx, scope.PetID)
	if err != nil {
		return fmt.Errorf("failed to read medication schedules: %w", err)
	}
	fluid, err := e.schedules.FluidSchedule(ctx, scope.PetID)
	if err != nil {
		return fmt.Errorf("failed to read fluid schedule: %w", err)
	}
	logged, err := e.treatments.LoggedSlots(ctx, scope.PetID, scope.Day)
	if err != nil {
		return fmt.Errorf("failed to read treatment logs: %w", err)
	}

	target := ComputeTargetEntries(scope.CaregiverID, scope.PetID, scope.Day, meds, fluid, settings, logged, e.clock(), e.policy)

	current, corrupt, err := e.store.Load(ctx, scope)
	if err != nil {
		// Storage I/O failure: abandon the pass without persisting
		// anything; the next trigger retries.
		return err
	}
	if corrupt {
		e.metrics.IndexCorruptions.Inc()
		pending, err := e.device.PendingIDs(ctx)
		if err != nil {
			return apperrors.DeviceScheduling("list pending", 0, err)
		}
		current = RebuildFromDeviceState(pending, target.Sorted())
		e.metrics.IndexRebuilds.Inc()
		e.logger.Info("rebuilt notification index from device state",
			"scope", scope.String(), "recovered", current.Len())
	}

	// Snooze entries are additive state created outside the target-set
	// computation; a pending one must survive intermediate passes until
	// it fires. Expired snoozes fall out of the target and get cancelled
	// like any other stale entry.
	now := e.clock()
	for _, entry := range current.Sorted() {
		if entry.Kind != model.KindSnooze {
			continue
		}
		if at, err := fireTime(entry, scope.Day); err == nil && now.Before(at) {
			target.Add(entry)
		}
	}

	var toCancel, toSchedule []model.ScheduledNotificationEntry
	for _, entry := range current.Sorted() {
		if !target.Contains(entry) {
			toCancel = append(toCancel, entry)
		}
	}
	for _, entry := range target.Sorted() {
		if !current.Contains(entry) {
			toSchedule = append(toSchedule, entry)
		}
	}

	// achieved tracks what is actually on the device after this pass;
	// only that gets persisted, so failed operations are retried next
	// pass instead of being forgotten.
	achieved := model.NewNotificationIndex()
	for _, entry := range current.Sorted() {
		if target.Contains(entry) {
			achieved.Add(entry)
		}
	}

	for _, entry := range toCancel {
		if err := e.device.Cancel(ctx, entry.NotificationID); err != nil {
			e.logger.Error(apperrors.DeviceScheduling("cancel", entry.NotificationID, err),
				"device cancel failed", "scope", scope.String())
			achieved.Add(entry)
			continue
		}
		e.metrics.NotificationsCancelled.Inc()
	}

	for _, entry := range toSchedule {
		fireAt, err := fireTime(entry, scope.Day)
		if err != nil {
			continue
		}
		if err := e.device.Schedule(ctx, entry.NotificationID, fireAt, contentFor(entry)); err != nil {
			e.logger.Error(apperrors.DeviceScheduling("schedule", entry.NotificationID, err),
				"device schedule failed", "scope", scope.String())
			continue
		}
		achieved.Add(entry)
		e.metrics.NotificationsScheduled.Inc()
	}

	if err := e.store.Save(ctx, scope, achieved); err != nil {
		return err
	}
	return nil
}

// Snooze adds one snooze-kind entry firing after the policy offset. It
// is additive: the original entry stays in the index and no diff runs.
func (e *Engine) Snooze(ctx context.Context, caregiverID, petID uuid.UUID, day time.Time, original model.ScheduledNotificationEntry) (model.ScheduledNotificationEntry, error) {
	settings, err := e.settings.Get(ctx, caregiverID)
	if err != nil {
		return model.ScheduledNotificationEntry{}, fmt.Errorf("failed to read notification settings: %w", err)
	}
	if !settings.Enabled || !settings.SnoozeEnabled {
		return model.ScheduledNotificationEntry{}, apperrors.BadRequest("snooze is disabled in notification settings", nil)
	}

	fireAt := e.clock().Add(e.policy.SnoozeOffset)
	slot := timeutil.FromTime(fireAt).String()
	id := GenerateNotificationID(caregiverID.String(), petID.String(), original.ScheduleID, slot, model.KindSnooze)
	entry, err := model.NewScheduledNotificationEntry(id, original.ScheduleID, original.TreatmentType, slot, model.KindSnooze)
	if err != nil {
		return model.ScheduledNotificationEntry{}, err
	}

	scope := Scope{CaregiverID: caregiverID, PetID: petID, Day: day}
	lock := e.scopeLock(scope)
	lock.Lock()
	defer lock.Unlock()

	current, _, err := e.store.Load(ctx, scope)
	if err != nil {
		return model.ScheduledNotificationEntry{}, err
	}

	if err := e.device.Schedule(ctx, entry.NotificationID, fireAt, contentFor(entry)); err != nil {
		return model.ScheduledNotificationEntry{}, apperrors.DeviceScheduling("schedule", entry.NotificationID, err)
	}
	e.metrics.NotificationsScheduled.Inc()

	current.Add(entry)
	if err := e.store.Save(ctx, scope, current); err != nil {
		return model.ScheduledNotificationEntry{}, err
	}
	return entry, nil
}

// CurrentIndex exposes the stored index for a scope (diagnostics).
func (e *Engine) CurrentIndex(ctx context.Context, caregiverID, petID uuid.UUID, day time.Time) ([]model.ScheduledNotificationEntry, error) {
	scope := Scope{CaregiverID: caregiverID, PetID: petID, Day: day}
	idx, _, err := e.store.Load(ctx, scope)
	if err != nil {
		return nil, err
	}
	return idx.Sorted(), nil
}

// ClearScope drops the stored index (logout, cache reset).
func (e *Engine) ClearScope(ctx context.Context, caregiverID, petID uuid.UUID, day time.Time) error {
	return e.store.Clear(ctx, Scope{CaregiverID: caregiverID, PetID: petID, Day: day})
}

func fireTime(entry model.ScheduledNotificationEntry, day time.Time) (time.Time, error) {
	hm, err := timeutil.ParseTimeString(entry.TimeSlot)
	if err != nil {
		return time.Time{}, err
	}
	return hm.On(day), nil
}

// contentFor maps an entry to privacy-generic notification text. No
// treatment names or dosages, ever.
func contentFor(entry model.ScheduledNotificationEntry) Content {
	const channel = "treatment_reminders"
	switch entry.Kind {
	case model.KindFollowup:
		return Content{
			Title:   "Treatment follow-up",
			Body:    "A treatment from earlier today has not been logged yet.",
			Channel: channel,
		}
	case model.KindSnooze:
		return Content{
			Title:   "Snoozed reminder",
			Body:    "A snoozed treatment reminder is due.",
			Channel: channel,
		}
	case model.KindSummary:
		return Content{
			Title:   "Care summary",
			Body:    "Review today's care for your cat.",
			Channel: "care_summaries",
		}
	}
	if entry.TreatmentType == model.TreatmentTypeFluid {
		return Content{
			Title:   "Fluid therapy reminder",
			Body:    "A scheduled fluid session is due.",
			Channel: channel,
		}
	}
	return Content{
		Title:   "Medication reminder",
		Body:    "A scheduled dose is due.",
		Channel: channel,
	}
}
