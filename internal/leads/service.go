// Package leads accepts new intake submissions and pages through stored ones.
package leads

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"leadintake/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Records is the whole-collection persistence the service reads and rewrites.
// *store.File[domain.Lead] satisfies it.
type Records interface {
	Load(ctx context.Context) ([]domain.Lead, error)
	Save(ctx context.Context, leads []domain.Lead) error
}

// CreatedHook runs after a lead has been saved.
type CreatedHook func(ctx context.Context, lead domain.Lead)

type Service struct {
	Records Records
	Log     *zap.Logger
	Now     func() time.Time
	Hooks   []CreatedHook
}

func NewService(records Records, log *zap.Logger, hooks ...CreatedHook) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Records: records, Log: log, Now: time.Now, Hooks: hooks}
}

// Page is one slice of the lead list, newest first.
type Page struct {
	Records     []domain.Lead `json:"records"`
	TotalCount  int           `json:"totalCount"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

// Submit validates s and appends it to the store as a new PENDING lead.
// Invalid input returns *ValidationError and nothing is written.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) (domain.Lead, error) {
	if v := Validate(sub); len(v) > 0 {
		return domain.Lead{}, &ValidationError{Violations: v}
	}

	current, err := s.Records.Load(ctx)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("load leads: %w", err)
	}

	now := s.Now()
	lead := domain.Lead{
		ID:              nextID(now, current),
		FirstName:       domain.Deref(sub.FirstName),
		LastName:        domain.Deref(sub.LastName),
		Email:           domain.Deref(sub.Email),
		LinkedInProfile: domain.Deref(sub.LinkedInProfile),
		Country:         domain.Deref(sub.Country),
		VisasOfInterest: sub.VisasOfInterest,
		ResumeFileName:  domain.Deref(sub.ResumeFileName),
		AdditionalInfo:  domain.Deref(sub.AdditionalInfo),
		Status:          domain.StatusPending,
		SubmissionDate:  now.Local().Format(domain.SubmissionDateLayout),
	}

	if err := s.Records.Save(ctx, append(current, lead)); err != nil {
		return domain.Lead{}, fmt.Errorf("save leads: %w", err)
	}

	s.Log.Info("lead saved",
		zap.Int64("id", lead.ID),
		zap.String("country", lead.Country),
		zap.Strings("visas", lead.VisasOfInterest),
	)

	for _, h := range s.Hooks {
		h(ctx, lead)
	}
	return lead, nil
}

// nextID is the clock in milliseconds, moved past the largest stored id when
// the clock has not advanced beyond it.
func nextID(now time.Time, existing []domain.Lead) int64 {
	id := now.UnixMilli()
	for _, l := range existing {
		if l.ID >= id {
			id = l.ID + 1
		}
	}
	return id
}

// List returns page (1-based) of size limit from all leads sorted by
// submission date, newest first. Pages past the end are empty.
func (s *Service) List(ctx context.Context, page, limit int) (Page, error) {
	if page < 1 || limit < 1 {
		return Page{}, ErrInvalidPagination
	}

	all, err := s.Records.Load(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("load leads: %w", err)
	}

	sorted := sortNewestFirst(all)
	total := len(sorted)

	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := start + min(limit, total-start)

	out := make([]domain.Lead, end-start)
	copy(out, sorted[start:end])

	res := Page{
		Records:     out,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
	}

	s.Log.Debug("listed leads",
		zap.Int("page", page),
		zap.Int("limit", limit),
		zap.Int("total", total),
		zap.Int("total_pages", res.TotalPages),
	)
	return res, nil
}

// totalPages is ceil(total/limit) without the overflow of total+limit-1.
func totalPages(total, limit int) int {
	n := total / limit
	if total%limit != 0 {
		n++
	}
	return n
}

type datedLead struct {
	lead domain.Lead
	at   time.Time
	ok   bool
}

// sortNewestFirst is stable: equal dates keep file order. Dates that do not
// parse sort after all dated leads.
func sortNewestFirst(leads []domain.Lead) []domain.Lead {
	keyed := make([]datedLead, len(leads))
	for i, l := range leads {
		at, ok := domain.ParseSubmissionDate(l.SubmissionDate)
		keyed[i] = datedLead{lead: l, at: at, ok: ok}
	}

	slices.SortStableFunc(keyed, func(a, b datedLead) int {
		switch {
		case a.ok && b.ok:
			return b.at.Compare(a.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	out := make([]domain.Lead, len(keyed))
	for i, k := range keyed {
		out[i] = k.lead
	}
	return out
}
