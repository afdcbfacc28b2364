package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/felicare/ckd-api/internal/model"
	"github.com/felicare/ckd-api/internal/repository/kv"
	apperrors "github.com/felicare/ckd-api/pkg/errors"
	"github.com/felicare/ckd-api/pkg/logger"
)

const indexNamespace = "notif_index"

// Scope identifies one notification index: one caregiver, one pet, one
// calendar day.
type Scope struct {
	CaregiverID uuid.UUID
	PetID       uuid.UUID
	Day         time.Time
}

// Key is the composite storage key, {namespace}_{caregiver}_{pet}_{yyyy-mm-dd}.
func (s Scope) Key() string {
	return fmt.Sprintf("%s_%s_%s_%s", indexNamespace, s.CaregiverID, s.PetID, s.Day.Format("2006-01-02"))
}

func (s Scope) String() string {
	return fmt.Sprintf("%s/%s/%s", s.CaregiverID, s.PetID, s.Day.Format("2006-01-02"))
}

// indexBlob is the persisted layout: entries plus the checksum computed
// over their canonical serialization, written as one atomic value.
type indexBlob struct {
	Checksum string            `json:"checksum"`
	Entries  []json.RawMessage `json:"entries"`
}

// IndexStore owns the on-disk representation of notification indexes.
// Indexes are fully rewritten on every save, never patched in place.
type IndexStore struct {
	store  kv.Store
	logger *logger.Logger
}

func NewIndexStore(store kv.Store, logger *logger.Logger) *IndexStore {
	return &IndexStore{store: store, logger: logger}
}

// Load reads the index for a scope. It reports corrupt=true when the
// stored checksum does not match the stored entries; the caller then
// holds an empty index and should rebuild from device state. Only
// storage I/O failures are returned as errors.
func (s *IndexStore) Load(ctx context.Context, scope Scope) (idx model.NotificationIndex, corrupt bool, err error) {
	idx = model.NewNotificationIndex()

	raw, found, err := s.store.GetString(ctx, scope.Key())
	if err != nil {
		return idx, false, apperrors.StorageIO("read", err)
	}
	if !found {
		return idx, false, nil
	}

	var blob indexBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		s.logger.Warn("notification index blob unreadable, treating as corrupt",
			"scope", scope.String())
		return idx, true, nil
	}

	canonical, err := json.Marshal(blob.Entries)
	if err != nil {
		return idx, true, nil
	}
	if got := Checksum(canonical); got != blob.Checksum {
		s.logger.Warn("notification index checksum mismatch",
			"scope", scope.String(), "stored", blob.Checksum, "computed", got)
		return model.NewNotificationIndex(), true, nil
	}

	// Checksum passed; still decode rows individually so one bad row
	// written by an older build cannot take down the whole index.
	for _, rawEntry := range blob.Entries {
		entry, ok := model.EntryFromJSON(rawEntry)
		if !ok {
			s.logger.Warn("skipping invalid notification index row", "scope", scope.String())
			continue
		}
		if !idx.Add(entry) {
			s.logger.Warn("skipping duplicate notification ID in index",
				"scope", scope.String(), "notification_id", entry.NotificationID)
		}
	}
	return idx, false, nil
}

// Save replaces the stored index for a scope with the given one. The
// checksum is recomputed over the canonical (sorted by notification ID)
// serialization and the whole blob is written as a single value, so a
// concurrent reader never observes half-written state.
func (s *IndexStore) Save(ctx context.Context, scope Scope, idx model.NotificationIndex) error {
	sorted := idx.Sorted()
	rawEntries := make([]json.RawMessage, 0, len(sorted))
	for _, e := range sorted {
		raw, err := e.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to serialize index entry: %w", err)
		}
		rawEntries = append(rawEntries, raw)
	}

	canonical, err := json.Marshal(rawEntries)
	if err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}

	blob, err := json.Marshal(indexBlob{
		Checksum: Checksum(canonical),
		Entries:  rawEntries,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize index blob: %w", err)
	}

	if err := s.store.SetString(ctx, scope.Key(), string(blob)); err != nil {
		return apperrors.StorageIO("write", err)
	}
	return nil
}

// Clear removes the stored index for a scope (logout, cache reset).
func (s *IndexStore) Clear(ctx context.Context, scope Scope) error {
	if err := s.store.Delete(ctx, scope.Key()); err != nil {
		return apperrors.StorageIO("delete", err)
	}
	return nil
}

// Checksum renders the 32-bit FNV-1a hash of data as an 8-character hex
// string. Corruption detection only, not security.
func Checksum(data []byte) string {
	h := fnv.New32a()
	h.Write(data)
	return fmt.Sprintf("%08x", h.Sum32())
}

// RebuildFromDeviceState reconstructs an index after the stored one was
// lost or corrupted. Only target entries whose IDs the device scheduler
// still holds are kept, which prevents duplicate scheduling while never
// trusting device state beyond what the schedules can explain.
func RebuildFromDeviceState(pendingIDs []int32, target []model.ScheduledNotificationEntry) model.NotificationIndex {
	pending := make(map[int32]struct{}, len(pendingIDs))
	for _, id := range pendingIDs {
		pending[id] = struct{}{}
	}

	idx := model.NewNotificationIndex()
	for _, e := range target {
		if _, ok := pending[e.NotificationID]; ok {
			idx.Add(e)
		}
	}
	return idx
}
