// Package memory is an in-process implementation of the repository contracts.
// It is used by tests and by the memory store driver for local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/repository/contract"
	"feature-catalog-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store holds every record and reference row behind a single mutex, so each
// repository call is atomic the way a single SQL statement is.
type Store struct {
	mu       sync.Mutex
	records  map[uuid.UUID]*storedRecord
	refs     map[entity.Category][]*entity.ReferenceEntity
	counters map[entity.Category]int64
	seq      int64
	now      func() time.Time
}

type storedRecord struct {
	record *entity.FeatureRecord
	seq    int64
}

func NewStore() *Store {
	return &Store{
		records:  make(map[uuid.UUID]*storedRecord),
		refs:     make(map[entity.Category][]*entity.ReferenceEntity),
		counters: make(map[entity.Category]int64),
		now:      time.Now,
	}
}

// NewRepositoryFactory exposes the store through the same factory the GORM layer implements
func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork applies every call immediately under the store mutex
type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) FeatureRecordRepository() contract.FeatureRecordRepository {
	return &featureRecordRepository{store: u.store}
}

func (u *unitOfWork) ReferenceRepository() contract.ReferenceRepository {
	return &referenceRepository{store: u.store}
}

func cloneRecord(r *entity.FeatureRecord) *entity.FeatureRecord {
	c := *r
	if r.SampleLocation != nil {
		loc := *r.SampleLocation
		c.SampleLocation = &loc
	}
	if r.SampleMeta != nil {
		meta := *r.SampleMeta
		c.SampleMeta = &meta
	}
	for _, category := range entity.Categories {
		if id := r.RefId(category); id != nil {
			v := *id
			c.SetRefId(category, &v)
		}
	}
	return &c
}

func cloneReference(e *entity.ReferenceEntity) *entity.ReferenceEntity {
	c := *e
	return &c
}

func matches(r *entity.FeatureRecord, q entity.RecordQuery) bool {
	for category, want := range q.Equals {
		if strings.TrimSpace(want) == "" {
			continue
		}
		if r.Value(category) != want {
			return false
		}
	}
	if len(q.Terms) == 0 {
		return true
	}
	fields := []string{r.SystemName, r.Module, r.Feature, r.Description, r.Client, r.Source}
	for _, term := range q.Terms {
		needle := strings.ToLower(term)
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), needle) {
				return true
			}
		}
	}
	return false
}

// sortedMatches returns matching records newest first; caller holds the lock
func (s *Store) sortedMatches(q entity.RecordQuery) []*storedRecord {
	out := make([]*storedRecord, 0, len(s.records))
	for _, sr := range s.records {
		if matches(sr.record, q) {
			out = append(out, sr)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.record.CreatedAt.Equal(b.record.CreatedAt) {
			return a.record.CreatedAt.After(b.record.CreatedAt)
		}
		return a.seq > b.seq
	})
	return out
}

func (s *Store) referenced(category entity.Category, name string) bool {
	for _, sr := range s.records {
		if sr.record.Value(category) == name {
			return true
		}
	}
	return false
}

func (s *Store) activeRow(category entity.Category, name string) *entity.ReferenceEntity {
	for _, e := range s.refs[category] {
		if e.IsActive && e.Name == name {
			return e
		}
	}
	return nil
}

type featureRecordRepository struct {
	store *Store
}

func (r *featureRecordRepository) Create(ctx context.Context, record *entity.FeatureRecord) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.Id == uuid.Nil {
		record.Id = uuid.New()
	}
	if _, exists := s.records[record.Id]; exists {
		return apperror.ErrConflict
	}
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.seq++
	s.records[record.Id] = &storedRecord{record: cloneRecord(record), seq: s.seq}
	return nil
}

func (r *featureRecordRepository) Update(ctx context.Context, record *entity.FeatureRecord) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sr, ok := s.records[record.Id]
	if !ok {
		return &apperror.NotFoundError{Resource: "feature record", ID: record.Id.String()}
	}
	record.CreatedAt = sr.record.CreatedAt
	record.UpdatedAt = s.now()
	sr.record = cloneRecord(record)
	return nil
}

func (r *featureRecordRepository) UpdateRefIds(ctx context.Context, id uuid.UUID, ids map[entity.Category]*int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sr, ok := s.records[id]
	if !ok {
		return &apperror.NotFoundError{Resource: "feature record", ID: id.String()}
	}
	for category, refID := range ids {
		if refID == nil {
			sr.record.SetRefId(category, nil)
			continue
		}
		v := *refID
		sr.record.SetRefId(category, &v)
	}
	return nil
}

func (r *featureRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return &apperror.NotFoundError{Resource: "feature record", ID: id.String()}
	}
	delete(s.records, id)
	return nil
}

func (r *featureRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FeatureRecord, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if sr, ok := s.records[id]; ok {
		return cloneRecord(sr.record), nil
	}
	return nil, nil
}

func (r *featureRecordRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.FeatureRecord, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entity.FeatureRecord, 0, len(ids))
	for _, id := range ids {
		if sr, ok := s.records[id]; ok {
			out = append(out, cloneRecord(sr.record))
		}
	}
	return out, nil
}

func (r *featureRecordRepository) List(ctx context.Context, q entity.RecordQuery) ([]*entity.FeatureRecord, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sortedMatches(q)
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > len(all) {
		start = len(all)
	}
	end := len(all)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	out := make([]*entity.FeatureRecord, 0, end-start)
	for _, sr := range all[start:end] {
		out = append(out, cloneRecord(sr.record))
	}
	return out, nil
}

func (r *featureRecordRepository) Count(ctx context.Context, q entity.RecordQuery) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, sr := range s.records {
		if matches(sr.record, q) {
			n++
		}
	}
	return n, nil
}

func (r *featureRecordRepository) CountByField(ctx context.Context, category entity.Category, value string, exclude *uuid.UUID) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sr := range s.records {
		if exclude != nil && id == *exclude {
			continue
		}
		if sr.record.Value(category) == value {
			n++
		}
	}
	return n, nil
}

func (r *featureRecordRepository) CountDistinct(ctx context.Context, category entity.Category) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, sr := range s.records {
		seen[sr.record.Value(category)] = struct{}{}
	}
	return int64(len(seen)), nil
}

func (r *featureRecordRepository) DistinctValues(ctx context.Context, target entity.Category, constraints map[entity.Category]string) ([]string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, sr := range s.records {
		if !matches(sr.record, entity.RecordQuery{Equals: constraints}) {
			continue
		}
		v := sr.record.Value(target)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

type referenceRepository struct {
	store *Store
}

func (r *referenceRepository) FindActiveByName(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.activeRow(category, name); e != nil {
		return cloneReference(e), nil
	}
	return nil, nil
}

func (r *referenceRepository) FindLatestInactiveByName(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *entity.ReferenceEntity
	for _, e := range s.refs[category] {
		if !e.IsActive && e.Name == name && (latest == nil || e.Id > latest.Id) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneReference(latest), nil
}

func (r *referenceRepository) Insert(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeRow(category, name) != nil {
		return nil, apperror.ErrConflict
	}
	s.counters[category]++
	now := s.now()
	e := &entity.ReferenceEntity{
		Id:        s.counters[category],
		Category:  category,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.refs[category] = append(s.refs[category], e)
	return cloneReference(e), nil
}

func (r *referenceRepository) ActivateByID(ctx context.Context, category entity.Category, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.refs[category] {
		if e.Id != id {
			continue
		}
		if e.IsActive {
			return false, nil
		}
		if s.activeRow(category, e.Name) != nil {
			return false, apperror.ErrConflict
		}
		e.IsActive = true
		e.UpdatedAt = s.now()
		return true, nil
	}
	return false, nil
}

func (r *referenceRepository) RenameActive(ctx context.Context, category entity.Category, oldName, newName string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.activeRow(category, oldName)
	if e == nil {
		return false, nil
	}
	if s.activeRow(category, newName) != nil {
		return false, apperror.ErrConflict
	}
	e.Name = newName
	e.UpdatedAt = s.now()
	return true, nil
}

func (r *referenceRepository) DeactivateIfUnreferenced(ctx context.Context, category entity.Category, name string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.activeRow(category, name)
	if e == nil || s.referenced(category, name) {
		return false, nil
	}
	e.IsActive = false
	e.UpdatedAt = s.now()
	return true, nil
}

func (r *referenceRepository) ListActiveNames(ctx context.Context, category entity.Category) ([]string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.refs[category]))
	for _, e := range s.refs[category] {
		if e.IsActive {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *referenceRepository) FindAll(ctx context.Context, category entity.Category, includeInactive bool) ([]*entity.ReferenceEntity, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entity.ReferenceEntity, 0, len(s.refs[category]))
	for _, e := range s.refs[category] {
		if e.IsActive || includeInactive {
			out = append(out, cloneReference(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (r *referenceRepository) PurgeInactive(ctx context.Context, category entity.Category) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.refs[category][:0]
	var purged int64
	for _, e := range s.refs[category] {
		if e.IsActive {
			kept = append(kept, e)
		} else {
			purged++
		}
	}
	s.refs[category] = kept
	return purged, nil
}
