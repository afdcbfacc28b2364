package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/repository/kv"
	apperrors "github.com/felicare/ckd-api/pkg/errors"
	"github.com/felicare/ckd-api/pkg/metrics"
)

var (
	testCaregiver = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testPet       = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testOtherPet  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	testDay       = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) // a Monday
)

type fakeSchedules struct {
	meds  []model.MedicationSchedule
	fluid *model.FluidSchedule
}

func (f *fakeSchedules) MedicationSchedules(_ context.Context, _ uuid.UUID) ([]model.MedicationSchedule, error) {
	return f.meds, nil
}

func (f *fakeSchedules) FluidSchedule(_ context.Context, _ uuid.UUID) (*model.FluidSchedule, error) {
	return f.fluid, nil
}

type fakeTreatments struct {
	logged map[string]bool
}

func (f *fakeTreatments) LoggedSlots(_ context.Context, _ uuid.UUID, _ time.Time) (map[string]bool, error) {
	if f.logged == nil {
		return map[string]bool{}, nil
	}
	return f.logged, nil
}

type fakeSettings struct {
	settings model.NotificationSettings
}

func (f *fakeSettings) Get(_ context.Context, _ uuid.UUID) (model.NotificationSettings, error) {
	return f.settings, nil
}

// recordingDevice wraps the queue and counts calls, optionally failing
// specific IDs to exercise partial-failure paths.
type recordingDevice struct {
	q             *NotificationQueue
	scheduleCalls int
	cancelCalls   int
	failSchedule  map[int32]bool
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{q: NewNotificationQueue(), failSchedule: map[int32]bool{}}
}

func (d *recordingDevice) Schedule(ctx context.Context, id int32, fireAt time.Time, content Content) error {
	d.scheduleCalls++
	if d.failSchedule[id] {
		return errors.New("notification permission revoked")
	}
	return d.q.Schedule(ctx, id, fireAt, content)
}

func (d *recordingDevice) Cancel(ctx context.Context, id int32) error {
	d.cancelCalls++
	return d.q.Cancel(ctx, id)
}

func (d *recordingDevice) PendingIDs(ctx context.Context) ([]int32, error) {
	return d.q.PendingIDs(ctx)
}

func dailyMedSchedule(id uuid.UUID, slots ...string) model.MedicationSchedule {
	return model.MedicationSchedule{
		Base:           model.Base{ID: id},
		PetID:          testPet,
		MedicationName: "benazepril",
		Dosage:         "2.5mg",
		Recurrence:     "FREQ=DAILY",
		StartDate:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		ReminderTimes:  pq.StringArray(slots),
		Active:         true,
	}
}

type testEnv struct {
	engine    *Engine
	device    *recordingDevice
	store     *IndexStore
	backing   kv.Store
	schedules *fakeSchedules
	treats    *fakeTreatments
	sets      *fakeSettings
	now       *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	now := testDay.Add(6 * time.Hour) // 06:00, before any slot
	env := &testEnv{
		device:    newRecordingDevice(),
		backing:   kv.NewMemoryStore(),
		schedules: &fakeSchedules{},
		treats:    &fakeTreatments{},
		sets:      &fakeSettings{settings: model.DefaultNotificationSettings(testCaregiver)},
		now:       &now,
	}
	env.store = NewIndexStore(env.backing, testLogger())
	env.engine = NewEngine(
		env.store,
		env.device,
		env.schedules,
		env.treats,
		env.sets,
		DefaultPolicy(),
		testLogger(),
		metrics.New("reminder_test"),
	).WithClock(func() time.Time { return *env.now })
	return env
}

func TestComputeTargetEntriesGracePeriod(t *testing.T) {
	schedID := uuid.New()
	meds := []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00")}
	settings := model.DefaultNotificationSettings(testCaregiver)
	policy := DefaultPolicy()

	findKind := func(idx model.NotificationIndex, kind model.NotificationKind) *model.ScheduledNotificationEntry {
		for _, e := range idx.Sorted() {
			if e.Kind == kind {
				entry := e
				return &entry
			}
		}
		return nil
	}

	t.Run("before grace elapses", func(t *testing.T) {
		now := testDay.Add(8*time.Hour + 29*time.Minute)
		target := ComputeTargetEntries(testCaregiver, testPet, testDay, meds, nil, settings, nil, now, policy)
		assert.Nil(t, findKind(target, model.KindFollowup))
	})

	t.Run("after grace elapses", func(t *testing.T) {
		now := testDay.Add(8*time.Hour + 31*time.Minute)
		target := ComputeTargetEntries(testCaregiver, testPet, testDay, meds, nil, settings, nil, now, policy)
		followup := findKind(target, model.KindFollowup)
		require.NotNil(t, followup)
		assert.Equal(t, "10:00", followup.TimeSlot, "follow-up fires at slot + 2h")
	})

	t.Run("logged slot suppresses followup", func(t *testing.T) {
		now := testDay.Add(9 * time.Hour)
		logged := map[string]bool{slotKey(schedID.String(), "08:00"): true}
		target := ComputeTargetEntries(testCaregiver, testPet, testDay, meds, nil, settings, logged, now, policy)
		assert.Nil(t, findKind(target, model.KindFollowup))
	})

	t.Run("followups disabled", func(t *testing.T) {
		off := settings
		off.FollowupsEnabled = false
		now := testDay.Add(9 * time.Hour)
		target := ComputeTargetEntries(testCaregiver, testPet, testDay, meds, nil, off, nil, now, policy)
		assert.Nil(t, findKind(target, model.KindFollowup))
	})
}

func TestComputeTargetEntriesMasterToggle(t *testing.T) {
	meds := []model.MedicationSchedule{dailyMedSchedule(uuid.New(), "08:00")}
	settings := model.DefaultNotificationSettings(testCaregiver)
	settings.Enabled = false

	target := ComputeTargetEntries(testCaregiver, testPet, testDay, meds, nil, settings, nil, testDay, DefaultPolicy())
	assert.Equal(t, 0, target.Len())
}

func TestComputeTargetEntriesSkipsInactiveSchedules(t *testing.T) {
	sched := dailyMedSchedule(uuid.New(), "08:00")
	sched.Active = false

	target := ComputeTargetEntries(testCaregiver, testPet, testDay,
		[]model.MedicationSchedule{sched}, nil,
		model.DefaultNotificationSettings(testCaregiver), nil, testDay, DefaultPolicy())
	assert.Equal(t, 0, target.Len())
}

func TestComputeTargetEntriesIncludesFluid(t *testing.T) {
	fluid := &model.FluidSchedule{
		Base:          model.Base{ID: uuid.New()},
		PetID:         testPet,
		VolumeML:      100,
		Recurrence:    "FREQ=DAILY",
		StartDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		ReminderTimes: pq.StringArray{"19:00"},
		Active:        true,
	}

	target := ComputeTargetEntries(testCaregiver, testPet, testDay, nil, fluid,
		model.DefaultNotificationSettings(testCaregiver), nil, testDay, DefaultPolicy())

	require.Equal(t, 1, target.Len())
	entry := target.Sorted()[0]
	assert.Equal(t, model.TreatmentTypeFluid, entry.TreatmentType)
	assert.Equal(t, "19:00", entry.TimeSlot)
	assert.Equal(t, model.KindInitial, entry.Kind)
}

func TestComputeTargetEntriesSummaries(t *testing.T) {
	settings := model.DefaultNotificationSettings(testCaregiver)
	settings.EndOfDaySummary = true
	settings.EndOfDayTime = "21:30"
	settings.WeeklySummary = true

	// Monday: end-of-day only.
	target := ComputeTargetEntries(testCaregiver, testPet, testDay, nil, nil, settings, nil, testDay, DefaultPolicy())
	require.Equal(t, 1, target.Len())
	assert.Equal(t, "21:30", target.Sorted()[0].TimeSlot)
	assert.Equal(t, model.KindSummary, target.Sorted()[0].Kind)

	// Sunday: weekly summary joins.
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	target = ComputeTargetEntries(testCaregiver, testPet, sunday, nil, nil, settings, nil, sunday, DefaultPolicy())
	assert.Equal(t, 2, target.Len())
}

func TestReconcileFirstPassSchedulesEverything(t *testing.T) {
	env := newTestEnv(t)
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(uuid.New(), "08:00", "20:00")}

	require.NoError(t, env.engine.Reconcile(context.Background(), testCaregiver, testPet, testDay))

	assert.Equal(t, 2, env.device.scheduleCalls)
	assert.Equal(t, 0, env.device.cancelCalls)
	assert.Equal(t, 2, env.device.q.Len())

	idx, corrupt, err := env.store.Load(context.Background(), Scope{CaregiverID: testCaregiver, PetID: testPet, Day: testDay})
	require.NoError(t, err)
	assert.False(t, corrupt)
	assert.Equal(t, 2, idx.Len())
}

func TestReconcileIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(uuid.New(), "08:00", "20:00")}
	ctx := context.Background()

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))
	schedules, cancels := env.device.scheduleCalls, env.device.cancelCalls

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	assert.Equal(t, schedules, env.device.scheduleCalls, "second pass must schedule nothing")
	assert.Equal(t, cancels, env.device.cancelCalls, "second pass must cancel nothing")
}

func TestReconcileDiffAddsOnlyNewSlot(t *testing.T) {
	env := newTestEnv(t)
	schedID := uuid.New()
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00")}
	ctx := context.Background()

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))
	require.Equal(t, 1, env.device.scheduleCalls)

	// Caregiver adds an evening slot to the same schedule.
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00", "20:00")}
	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	assert.Equal(t, 2, env.device.scheduleCalls, "exactly one new schedule call")
	assert.Equal(t, 0, env.device.cancelCalls, "the 08:00 entry is untouched")
}

func TestReconcileSlotEditReplacesEntry(t *testing.T) {
	env := newTestEnv(t)
	schedID := uuid.New()
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00")}
	ctx := context.Background()

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "09:00")}
	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	assert.Equal(t, 2, env.device.scheduleCalls)
	assert.Equal(t, 1, env.device.cancelCalls, "old slot's notification is cancelled")
	assert.Equal(t, 1, env.device.q.Len())
}

func TestReconcilePartialFailureRetries(t *testing.T) {
	env := newTestEnv(t)
	schedID := uuid.New()
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00", "20:00")}
	ctx := context.Background()

	failingID := GenerateNotificationID(testCaregiver.String(), testPet.String(), schedID.String(), "20:00", model.KindInitial)
	env.device.failSchedule[failingID] = true

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	idx, _, err := env.store.Load(ctx, Scope{CaregiverID: testCaregiver, PetID: testPet, Day: testDay})
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len(), "failed entry must not be persisted as achieved")

	// Device recovers; the next pass retries just the failed entry.
	env.device.failSchedule = map[int32]bool{}
	before := env.device.scheduleCalls
	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	assert.Equal(t, before+1, env.device.scheduleCalls)
	idx, _, err = env.store.Load(ctx, Scope{CaregiverID: testCaregiver, PetID: testPet, Day: testDay})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestReconcileCorruptionRecovery(t *testing.T) {
	env := newTestEnv(t)
	schedID := uuid.New()
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00", "20:00")}
	ctx := context.Background()
	scope := Scope{CaregiverID: testCaregiver, PetID: testPet, Day: testDay}

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))
	require.Equal(t, 2, env.device.q.Len())

	// Corrupt the stored blob; the device still holds both notifications.
	require.NoError(t, env.backing.SetString(ctx, scope.Key(), `{"checksum":"00000000","entries":[]}`))

	before := env.device.scheduleCalls
	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	assert.Equal(t, before, env.device.scheduleCalls,
		"rebuild from device state must prevent duplicate scheduling")
	idx, corrupt, err := env.store.Load(ctx, scope)
	require.NoError(t, err)
	assert.False(t, corrupt, "index is rewritten with a valid checksum")
	assert.Equal(t, 2, idx.Len())
}

func TestSnoozeIsAdditive(t *testing.T) {
	env := newTestEnv(t)
	schedID := uuid.New()
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00")}
	ctx := context.Background()
	scope := Scope{CaregiverID: testCaregiver, PetID: testPet, Day: testDay}

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))
	idx, _, err := env.store.Load(ctx, scope)
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())
	original := idx.Sorted()[0]

	*env.now = testDay.Add(8*time.Hour + 10*time.Minute) // 08:10
	snoozed, err := env.engine.Snooze(ctx, testCaregiver, testPet, testDay, original)
	require.NoError(t, err)

	assert.Equal(t, model.KindSnooze, snoozed.Kind)
	assert.Equal(t, "08:25", snoozed.TimeSlot, "snooze fires 15 minutes after trigger")

	idx, _, err = env.store.Load(ctx, scope)
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())
	assert.True(t, idx.Contains(original), "original entry is untouched")
	assert.True(t, idx.Contains(snoozed))
}

func TestSnoozeRejectedWhenDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.sets.settings.SnoozeEnabled = false

	_, err := env.engine.Snooze(context.Background(), testCaregiver, testPet, testDay,
		mustEntry(t, 100, "sched-1", "08:00", model.KindInitial))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestReconcileMultiPetIsolation(t *testing.T) {
	env := newTestEnv(t)
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(uuid.New(), "08:00")}
	ctx := context.Background()

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	otherScope := Scope{CaregiverID: testCaregiver, PetID: testOtherPet, Day: testDay}
	idx, corrupt, err := env.store.Load(ctx, otherScope)
	require.NoError(t, err)
	assert.False(t, corrupt)
	assert.Equal(t, 0, idx.Len(), "reconciling petA must not touch petB's index")
}

func TestClearScope(t *testing.T) {
	env := newTestEnv(t)
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(uuid.New(), "08:00")}
	ctx := context.Background()

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))
	require.NoError(t, env.engine.ClearScope(ctx, testCaregiver, testPet, testDay))

	entries, err := env.engine.CurrentIndex(ctx, testCaregiver, testPet, testDay)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReconcilePreservesPendingSnooze(t *testing.T) {
	env := newTestEnv(t)
	schedID := uuid.New()
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00")}
	ctx := context.Background()
	scope := Scope{CaregiverID: testCaregiver, PetID: testPet, Day: testDay}

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))
	idx, _, err := env.store.Load(ctx, scope)
	require.NoError(t, err)
	original := idx.Sorted()[0]

	*env.now = testDay.Add(8*time.Hour + 10*time.Minute) // 08:10
	snoozed, err := env.engine.Snooze(ctx, testCaregiver, testPet, testDay, original)
	require.NoError(t, err)
	require.Equal(t, "08:25", snoozed.TimeSlot)

	// A periodic pass lands before the snooze fires.
	*env.now = testDay.Add(8*time.Hour + 12*time.Minute)
	cancelsBefore := env.device.cancelCalls
	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	idx, _, err = env.store.Load(ctx, scope)
	require.NoError(t, err)
	assert.True(t, idx.Contains(snoozed), "pending snooze must survive an intermediate pass")
	assert.True(t, idx.Contains(original))
	assert.Equal(t, cancelsBefore, env.device.cancelCalls, "the pending snooze is not cancelled")

	// Once the snooze has fired it is stale state and falls out.
	*env.now = testDay.Add(8*time.Hour + 40*time.Minute)
	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	idx, _, err = env.store.Load(ctx, scope)
	require.NoError(t, err)
	assert.False(t, idx.Contains(snoozed), "expired snooze is cleaned up")
	assert.Equal(t, cancelsBefore+1, env.device.cancelCalls)
}

// flakyStore wraps a working store and fails reads or writes on demand.
type flakyStore struct {
	kv.Store
	failGet bool
	failSet bool
}

func (s *flakyStore) GetString(ctx context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errors.New("disk read failed")
	}
	return s.Store.GetString(ctx, key)
}

func (s *flakyStore) SetString(ctx context.Context, key, value string) error {
	if s.failSet {
		return errors.New("disk write failed")
	}
	return s.Store.SetString(ctx, key, value)
}

func newFlakyEnv(t *testing.T) (*testEnv, *flakyStore) {
	t.Helper()

	env := newTestEnv(t)
	flaky := &flakyStore{Store: env.backing}
	env.store = NewIndexStore(flaky, testLogger())
	env.engine = NewEngine(
		env.store,
		env.device,
		env.schedules,
		env.treats,
		env.sets,
		DefaultPolicy(),
		testLogger(),
		metrics.New("reminder_test"),
	).WithClock(func() time.Time { return *env.now })
	return env, flaky
}

func TestReconcileAbandonsPassOnLoadFailure(t *testing.T) {
	env, flaky := newFlakyEnv(t)
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(uuid.New(), "08:00")}
	flaky.failGet = true

	err := env.engine.Reconcile(context.Background(), testCaregiver, testPet, testDay)

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrStorageIO))
	assert.Equal(t, 0, env.device.scheduleCalls, "no device calls when the index cannot be read")
	assert.Equal(t, 0, env.device.cancelCalls)

	// Storage recovers; the next trigger completes normally.
	flaky.failGet = false
	require.NoError(t, env.engine.Reconcile(context.Background(), testCaregiver, testPet, testDay))
	assert.Equal(t, 1, env.device.scheduleCalls)
}

func TestReconcileAbandonsPassOnSaveFailure(t *testing.T) {
	env, flaky := newFlakyEnv(t)
	schedID := uuid.New()
	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00")}
	ctx := context.Background()
	scope := Scope{CaregiverID: testCaregiver, PetID: testPet, Day: testDay}

	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))

	env.schedules.meds = []model.MedicationSchedule{dailyMedSchedule(schedID, "08:00", "20:00")}
	flaky.failSet = true

	err := env.engine.Reconcile(ctx, testCaregiver, testPet, testDay)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrStorageIO))

	idx, _, err := env.store.Load(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len(), "prior index stays intact when the write fails")

	// Storage recovers; the next trigger persists both entries.
	flaky.failSet = false
	require.NoError(t, env.engine.Reconcile(ctx, testCaregiver, testPet, testDay))
	idx, _, err = env.store.Load(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}
