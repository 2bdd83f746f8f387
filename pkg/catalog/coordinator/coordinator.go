// Package coordinator keeps the denormalized feature record store and the five
// reference dictionaries consistent across create, update and delete.
//
// Reference maintenance is best-effort relative to the record write: once the
// record store accepts a mutation the operation succeeds, and dictionary
// failures are logged. The dictionaries converge again on the next write that
// touches the same names.
package coordinator

import (
	"context"
	"errors"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/internal/repository/contract"
	"feature-catalog-be/internal/repository/unitofwork"
	"feature-catalog-be/pkg/catalog/events"
	"feature-catalog-be/pkg/catalog/reference"
	"feature-catalog-be/pkg/filestore"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const logModule = "COORDINATOR"

var tracer = otel.Tracer("feature-catalog/coordinator")

type Coordinator struct {
	uowFactory unitofwork.RepositoryFactory
	refs       *reference.Store
	files      filestore.FileStore
	publisher  events.Publisher
	logger     logger.ILogger
}

func New(
	uowFactory unitofwork.RepositoryFactory,
	refs *reference.Store,
	files filestore.FileStore,
	publisher events.Publisher,
	logger logger.ILogger,
) *Coordinator {
	return &Coordinator{
		uowFactory: uowFactory,
		refs:       refs,
		files:      files,
		publisher:  publisher,
		logger:     logger,
	}
}

// DeleteResult reports the side effects of removing one record
type DeleteResult struct {
	FileDeleted       bool
	ReferencesRetired int
}

// BulkDeleteResult reports per-id outcomes; a failed id never aborts the batch
type BulkDeleteResult struct {
	DeletedCount      int
	FailedIDs         []string
	FilesDeleted      int
	ReferencesRetired int
}

func (c *Coordinator) records(ctx context.Context) contract.FeatureRecordRepository {
	return c.uowFactory.NewUnitOfWork(ctx).FeatureRecordRepository()
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func notFound(id uuid.UUID) error {
	return &apperror.NotFoundError{Resource: "feature record", ID: id.String()}
}

// CreateRecord validates the input, stores the sample, ensures the five
// reference entities and persists the record with their ids stamped on it.
func (c *Coordinator) CreateRecord(ctx context.Context, in RecordInput) (rec *entity.FeatureRecord, err error) {
	ctx, span := tracer.Start(ctx, "coordinator.CreateRecord")
	defer func() { finishSpan(span, err) }()

	if err := in.validate(true); err != nil {
		return nil, err
	}

	location, meta, err := c.storeSample(ctx, in)
	if err != nil {
		return nil, err
	}

	rec = &entity.FeatureRecord{
		Id:          uuid.New(),
		SystemName:  in.SystemName,
		Module:      in.Module,
		Feature:     in.Feature,
		Client:      in.Client,
		Source:      in.Source,
		Description: in.Description,
		SampleMeta:  meta,
	}
	switch {
	case location != "":
		rec.SampleLocation = &location
	case in.SampleURL != "":
		url := in.SampleURL
		rec.SampleLocation = &url
	}
	c.stampIds(ctx, rec)

	if err := c.records(ctx).Create(ctx, rec); err != nil {
		c.discardSample(ctx, location)
		return nil, err
	}
	span.SetAttributes(attribute.String("record.id", rec.Id.String()))

	c.healIds(ctx, rec)
	c.publisher.PublishRecordCreated(ctx, rec)
	return rec, nil
}

// UpdateRecord rewrites a record. A changed value whose old name is used by no
// other record is renamed in place so its id survives; otherwise the new name is
// ensured and the old one is retired once nothing references it.
func (c *Coordinator) UpdateRecord(ctx context.Context, id uuid.UUID, in RecordInput) (rec *entity.FeatureRecord, err error) {
	ctx, span := tracer.Start(ctx, "coordinator.UpdateRecord", trace.WithAttributes(attribute.String("record.id", id.String())))
	defer func() { finishSpan(span, err) }()

	if err := in.validate(false); err != nil {
		return nil, err
	}

	repo := c.records(ctx)
	existing, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound(id)
	}

	location, meta, err := c.storeSample(ctx, in)
	if err != nil {
		return nil, err
	}

	rec = cloneRecord(existing)
	rec.Description = in.Description
	changed := make(map[entity.Category]string)
	for _, category := range entity.Categories {
		oldValue, newValue := existing.Value(category), in.value(category)
		if oldValue != newValue {
			changed[category] = oldValue
			c.propagateRename(ctx, repo, id, category, oldValue, newValue)
		}
		rec.SetValue(category, newValue)
	}
	c.stampIds(ctx, rec)

	previous := existing.SampleLocation
	switch {
	case location != "":
		rec.SampleLocation = &location
		rec.SampleMeta = meta
	case in.SampleURL != "":
		url := in.SampleURL
		rec.SampleLocation = &url
		rec.SampleMeta = nil
	case in.RemoveSample:
		rec.SampleLocation = nil
		rec.SampleMeta = nil
	}

	if err := repo.Update(ctx, rec); err != nil {
		c.discardSample(ctx, location)
		return nil, err
	}

	for category, oldValue := range changed {
		if c.retire(ctx, repo, category, oldValue) {
			c.logger.Info(logModule, "Old reference value retired after update", map[string]interface{}{
				"record_id": id.String(), "category": category.String(), "name": oldValue,
			})
		}
	}
	c.healIds(ctx, rec)

	if previous != nil && (rec.SampleLocation == nil || *rec.SampleLocation != *previous) {
		c.discardSample(ctx, *previous)
	}

	c.publisher.PublishRecordUpdated(ctx, rec)
	return rec, nil
}

// DeleteRecord removes the record and its artifact, then retires every
// reference value the record was the last user of.
func (c *Coordinator) DeleteRecord(ctx context.Context, id uuid.UUID) (res *DeleteResult, err error) {
	ctx, span := tracer.Start(ctx, "coordinator.DeleteRecord", trace.WithAttributes(attribute.String("record.id", id.String())))
	defer func() { finishSpan(span, err) }()

	repo := c.records(ctx)
	rec, fileDeleted, err := c.deleteOne(ctx, repo, id)
	if err != nil {
		return nil, err
	}

	res = &DeleteResult{FileDeleted: fileDeleted}
	for _, category := range entity.Categories {
		if c.retire(ctx, repo, category, rec.Value(category)) {
			res.ReferencesRetired++
		}
	}
	c.publisher.PublishRecordDeleted(ctx, id)
	return res, nil
}

// BulkDelete deletes each id independently and retires each affected
// reference value once, after all deletions.
func (c *Coordinator) BulkDelete(ctx context.Context, ids []string) (res *BulkDeleteResult, err error) {
	ctx, span := tracer.Start(ctx, "coordinator.BulkDelete", trace.WithAttributes(attribute.Int("ids", len(ids))))
	defer func() { finishSpan(span, err) }()

	if len(ids) == 0 {
		v := apperror.NewValidationError()
		v.Add("ids", "At least one id is required")
		return nil, v
	}

	type refKey struct {
		category entity.Category
		name     string
	}

	repo := c.records(ctx)
	res = &BulkDeleteResult{FailedIDs: []string{}}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	touched := make(map[refKey]struct{})
	var order []refKey

	type target struct {
		raw string
		id  uuid.UUID
	}
	targets := make([]target, 0, len(ids))
	for _, raw := range ids {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			res.FailedIDs = append(res.FailedIDs, raw)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, target{raw: raw, id: id})
	}

	found := make(map[uuid.UUID]*entity.FeatureRecord, len(targets))
	if len(targets) > 0 {
		lookup := make([]uuid.UUID, len(targets))
		for i, t := range targets {
			lookup[i] = t.id
		}
		records, err := repo.FindByIDs(ctx, lookup)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			found[rec.Id] = rec
		}
	}

	for _, t := range targets {
		raw, id := t.raw, t.id
		rec, ok := found[id]
		if !ok {
			res.FailedIDs = append(res.FailedIDs, raw)
			continue
		}

		fileDeleted, delErr := c.removeRecord(ctx, repo, rec)
		if delErr != nil {
			if !apperror.IsNotFound(delErr) {
				c.logger.Error(logModule, "Bulk delete of record failed", map[string]interface{}{
					"record_id": raw, "error": delErr.Error(),
				})
			}
			res.FailedIDs = append(res.FailedIDs, raw)
			continue
		}

		res.DeletedCount++
		if fileDeleted {
			res.FilesDeleted++
		}
		for _, category := range entity.Categories {
			k := refKey{category, rec.Value(category)}
			if _, ok := touched[k]; !ok {
				touched[k] = struct{}{}
				order = append(order, k)
			}
		}
		c.publisher.PublishRecordDeleted(ctx, id)
	}

	for _, k := range order {
		if c.retire(ctx, repo, k.category, k.name) {
			res.ReferencesRetired++
		}
	}

	span.SetAttributes(attribute.Int("deleted", res.DeletedCount), attribute.Int("failed", len(res.FailedIDs)))
	return res, nil
}

// GetRecord loads one record
func (c *Coordinator) GetRecord(ctx context.Context, id uuid.UUID) (*entity.FeatureRecord, error) {
	rec, err := c.records(ctx).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFound(id)
	}
	return rec, nil
}

// ListRecords returns a page of records newest first, filtered by exact field values, with the total
func (c *Coordinator) ListRecords(ctx context.Context, filter map[entity.Category]string, limit, offset int) ([]*entity.FeatureRecord, int64, error) {
	repo := c.records(ctx)
	query := entity.RecordQuery{Equals: filter}
	total, err := repo.Count(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	query.Limit, query.Offset = max(limit, 0), max(offset, 0)
	records, err := repo.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountRecords counts records matching the exact field filter
func (c *Coordinator) CountRecords(ctx context.Context, filter map[entity.Category]string) (int64, error) {
	return c.records(ctx).Count(ctx, entity.RecordQuery{Equals: filter})
}

// Statistics summarises the catalog
func (c *Coordinator) Statistics(ctx context.Context) (*entity.CatalogStatistics, error) {
	repo := c.records(ctx)
	total, err := repo.Count(ctx, entity.RecordQuery{})
	if err != nil {
		return nil, err
	}
	stats := &entity.CatalogStatistics{TotalRecords: total, Distinct: make(map[entity.Category]int)}
	for _, category := range entity.Categories {
		n, err := repo.CountDistinct(ctx, category)
		if err != nil {
			return nil, err
		}
		stats.Distinct[category] = int(n)
	}
	return stats, nil
}

// deleteOne removes a record and its artifact. Artifact failures are logged.
func (c *Coordinator) deleteOne(ctx context.Context, repo contract.FeatureRecordRepository, id uuid.UUID) (*entity.FeatureRecord, bool, error) {
	rec, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, notFound(id)
	}
	fileDeleted, err := c.removeRecord(ctx, repo, rec)
	if err != nil {
		return nil, false, err
	}
	return rec, fileDeleted, nil
}

// removeRecord deletes an already loaded record, then its artifact
func (c *Coordinator) removeRecord(ctx context.Context, repo contract.FeatureRecordRepository, rec *entity.FeatureRecord) (bool, error) {
	if err := repo.Delete(ctx, rec.Id); err != nil {
		return false, err
	}
	if rec.SampleLocation == nil {
		return false, nil
	}
	return c.discardSample(ctx, *rec.SampleLocation), nil
}

// storeSample writes an uploaded file. Upload policy violations are validation
// errors on sample_file; I/O failures abort as StorageError.
func (c *Coordinator) storeSample(ctx context.Context, in RecordInput) (string, *entity.SampleMeta, error) {
	if in.SampleFile == nil || in.SampleFile.Content == nil {
		return "", nil, nil
	}
	location, err := c.files.Put(ctx, in.SampleFile.Filename, in.SampleFile.Content)
	if err != nil {
		if filestore.IsPolicyError(err) {
			v := apperror.NewValidationError()
			v.Add("sample_file", err.Error())
			return "", nil, v
		}
		return "", nil, &apperror.StorageError{Op: "put", Err: err}
	}
	return location, &entity.SampleMeta{FileName: in.SampleFile.Filename, FileSize: in.SampleFile.Size}, nil
}

// discardSample deletes an artifact the catalog no longer points at
func (c *Coordinator) discardSample(ctx context.Context, location string) bool {
	if location == "" || c.files.IsRemoteURL(location) {
		return false
	}
	deleted, err := c.files.Delete(ctx, location)
	if err != nil {
		c.logger.Error(logModule, "Failed to delete sample artifact", map[string]interface{}{
			"location": location, "error": (&apperror.StorageError{Op: "delete", Err: err}).Error(),
		})
		return false
	}
	return deleted
}

// propagateRename renames the old reference in place when no other record uses it
func (c *Coordinator) propagateRename(ctx context.Context, repo contract.FeatureRecordRepository, id uuid.UUID, category entity.Category, oldValue, newValue string) {
	others, err := repo.CountByField(ctx, category, oldValue, &id)
	if err != nil {
		c.logReferenceFailure("count", category, oldValue, err)
		return
	}
	if others > 0 {
		return
	}
	outcome, err := c.refs.Rename(ctx, category, oldValue, newValue)
	if err != nil {
		c.logReferenceFailure("rename", category, oldValue, err)
		return
	}
	if outcome == reference.RenameInPlace {
		c.publisher.PublishReferenceRenamed(ctx, category, oldValue, newValue)
	}
}

// stampIds ensures the five reference entities and records their ids on rec
func (c *Coordinator) stampIds(ctx context.Context, rec *entity.FeatureRecord) {
	for _, category := range entity.Categories {
		name := rec.Value(category)
		id, err := c.refs.EnsureEntity(ctx, category, name)
		if err != nil {
			c.logReferenceFailure("ensure", category, name, err)
			rec.SetRefId(category, nil)
			continue
		}
		rec.SetRefId(category, &id)
	}
}

// healIds re-ensures the entities after the record is visible. A concurrent
// delete may have retired one of them between stampIds and the write. Only the
// id columns are rewritten so a concurrent update of the record survives.
func (c *Coordinator) healIds(ctx context.Context, rec *entity.FeatureRecord) {
	drifted := make(map[entity.Category]*int64)
	for _, category := range entity.Categories {
		name := rec.Value(category)
		id, err := c.refs.EnsureEntity(ctx, category, name)
		if err != nil {
			c.logReferenceFailure("ensure", category, name, err)
			continue
		}
		if current := rec.RefId(category); current == nil || *current != id {
			rec.SetRefId(category, &id)
			drifted[category] = &id
		}
	}
	if len(drifted) == 0 {
		return
	}
	if err := c.records(ctx).UpdateRefIds(ctx, rec.Id, drifted); err != nil && !apperror.IsNotFound(err) {
		c.logger.Error(logModule, "Failed to restamp reference ids", map[string]interface{}{
			"record_id": rec.Id.String(), "error": err.Error(),
		})
	}
}

// retire deactivates name when no record references it anymore
func (c *Coordinator) retire(ctx context.Context, repo contract.FeatureRecordRepository, category entity.Category, name string) bool {
	if name == "" {
		return false
	}
	remaining, err := repo.CountByField(ctx, category, name, nil)
	if err != nil {
		c.logReferenceFailure("count", category, name, err)
		return false
	}
	retired, err := c.refs.RetireIfUnused(ctx, category, name, remaining)
	if err != nil {
		c.logReferenceFailure("retire", category, name, err)
		return false
	}
	if retired {
		c.publisher.PublishReferenceRetired(ctx, category, name)
	}
	return retired
}

func (c *Coordinator) logReferenceFailure(op string, category entity.Category, name string, err error) {
	details := map[string]interface{}{
		"op":       op,
		"category": category.String(),
		"name":     name,
		"error":    err.Error(),
	}
	var bs *apperror.BackingStoreError
	if errors.As(err, &bs) {
		details["transient"] = bs.Transient
	}
	c.logger.Error(logModule, "Reference maintenance failed", details)
}

func cloneRecord(r *entity.FeatureRecord) *entity.FeatureRecord {
	c := *r
	return &c
}
