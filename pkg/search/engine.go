// Package search implements synonym-aware matching over feature records.
package search

import (
	"context"
	"strings"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/repository/contract"
	"feature-catalog-be/internal/repository/unitofwork"
)

type Engine struct {
	uowFactory unitofwork.RepositoryFactory
	synonyms   Synonyms
}

func NewEngine(uowFactory unitofwork.RepositoryFactory, synonyms Synonyms) *Engine {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Engine{uowFactory: uowFactory, synonyms: synonyms}
}

// Plan is the query a search term resolves to
type Plan struct {
	Query    entity.RecordQuery
	Terms    []string
	Fallback bool // expansion matched nothing, literal term used instead
}

// Result is one page of a search plus the total for the pager
type Result struct {
	Records []*entity.FeatureRecord
	Total   int64
	Plan    Plan
}

// Expand exposes the dictionary expansion of a single term
func (e *Engine) Expand(term string) []string {
	return e.synonyms.Expand(term)
}

// plan resolves term into a record query. An empty term is the unfiltered
// listing. Otherwise any expanded term may appear in any searchable field; when
// that matches no record at all, the original term is matched literally.
func (e *Engine) plan(ctx context.Context, repo contract.FeatureRecordRepository, term string) (Plan, error) {
	parsed := ParseQuery(term)
	p := Plan{Query: entity.RecordQuery{Equals: parsed.Filters}}
	if parsed.Text == "" {
		return p, nil
	}

	if parsed.Strategy == StrategyLiteral {
		p.Terms = []string{parsed.Text}
		p.Query.Terms = p.Terms
		return p, nil
	}

	expanded := e.synonyms.Expand(parsed.Text)
	p.Terms = expanded
	p.Query.Terms = expanded
	n, err := repo.Count(ctx, p.Query)
	if err != nil {
		return Plan{}, err
	}
	if n > 0 {
		return p, nil
	}

	literal := strings.TrimSpace(parsed.Text)
	p.Terms = []string{literal}
	p.Query.Terms = p.Terms
	p.Fallback = true
	return p, nil
}

// Search returns matching records newest first. A zero limit means no limit.
func (e *Engine) Search(ctx context.Context, term string, limit, offset int) ([]*entity.FeatureRecord, error) {
	res, err := e.Page(ctx, term, limit, offset)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Count is the total a search for term would return across all pages
func (e *Engine) Count(ctx context.Context, term string) (int64, error) {
	repo := e.uowFactory.NewUnitOfWork(ctx).FeatureRecordRepository()
	p, err := e.plan(ctx, repo, term)
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx, p.Query)
}

// Page runs one search and reports the page together with the total
func (e *Engine) Page(ctx context.Context, term string, limit, offset int) (*Result, error) {
	repo := e.uowFactory.NewUnitOfWork(ctx).FeatureRecordRepository()
	p, err := e.plan(ctx, repo, term)
	if err != nil {
		return nil, err
	}

	total, err := repo.Count(ctx, p.Query)
	if err != nil {
		return nil, err
	}

	q := p.Query
	q.Limit = max(limit, 0)
	q.Offset = max(offset, 0)
	records, err := repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Total: total, Plan: p}, nil
}
