package remittance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=remittance
type Repository interface {
	GetRemittance(ctx context.Context, id uuid.UUID) (*Remittance, error)
	GetRemittanceByRef(ctx context.Context, ref string) (*Remittance, error)
	ListRemittances(ctx context.Context, filter ListFilter) ([]*Remittance, error)

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, refs []string) ([]*Remittance, error)
	CreateRemittances(ctx context.Context, rems []*Remittance) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams describes one remittance as read from a bank file. Net is derived from
// Instructed and Charges when the file does not carry it.
type CreateParams struct {
	RemRef        string
	RemDate       time.Time
	Currency      string
	Instructed    decimal.Decimal
	Charges       decimal.Decimal
	Net           *decimal.Decimal
	SenderRefNo   string
	SenderRefDate *time.Time
	RemitterName  string
	Bank          string
}

// ListFilter narrows remittance listings. Status is derived and applied after loading.
type ListFilter struct {
	Status    *status.Remittance
	StartDate *time.Time
	EndDate   *time.Time
	Currency  *string
	Remitter  *string
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Remittance, error) {
	return s.repo.GetRemittance(ctx, id)
}

func (s *Service) GetByRef(ctx context.Context, ref string) (*Remittance, error) {
	return s.repo.GetRemittanceByRef(ctx, strings.TrimSpace(ref))
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Remittance, error) {
	rems, err := s.repo.ListRemittances(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Status == nil {
		return rems, nil
	}

	filtered := make([]*Remittance, 0, len(rems))

	for _, r := range rems {
		if r.Status() == *filter.Status {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}

type ImportResult struct {
	Imported  []*Remittance
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict is an incoming remittance whose reference is already on record.
type Conflict struct {
	Incoming CreateParams
	Existing *Remittance
}

// ImportBatch stores params unless any of them repeats a known remittance reference, in
// which case nothing is written and the conflicts are returned for review.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, refs(params))
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[string]*Remittance, len(duplicates))
	for _, d := range duplicates {
		lookup[d.RemRef] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	seen := make(map[string]struct{}, len(params))

	for _, p := range params {
		ref := strings.TrimSpace(p.RemRef)

		existing, found := lookup[ref]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		// A reference repeated within the same file is kept once.
		if _, dup := seen[ref]; dup {
			continue
		}

		seen[ref] = struct{}{}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	rems := paramsToRemittances(newParams)
	if err := itx.CreateRemittances(ctx, rems); err != nil {
		return nil, fmt.Errorf("create remittances: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: rems}, nil
}

// CreateBatch stores params without duplicate detection. It is used once the caller has
// resolved the conflicts reported by ImportBatch.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Remittance, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	rems := paramsToRemittances(params)
	if err := itx.CreateRemittances(ctx, rems); err != nil {
		return nil, fmt.Errorf("create remittances: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return rems, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].RemDate
	maxDate := params[0].RemDate

	for _, p := range params[1:] {
		if p.RemDate.Before(minDate) {
			minDate = p.RemDate
		}

		if p.RemDate.After(maxDate) {
			maxDate = p.RemDate
		}
	}

	return minDate, maxDate
}

func refs(params []CreateParams) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = strings.TrimSpace(p.RemRef)
	}

	return out
}

func paramsToRemittances(params []CreateParams) []*Remittance {
	rems := make([]*Remittance, len(params))
	for i, p := range params {
		net := p.Instructed.Sub(p.Charges)
		if p.Net != nil {
			net = *p.Net
		}

		rems[i] = &Remittance{
			RemRef:        strings.TrimSpace(p.RemRef),
			RemDate:       p.RemDate,
			Currency:      strings.ToUpper(strings.TrimSpace(p.Currency)),
			Instructed:    p.Instructed,
			Charges:       p.Charges,
			Net:           net,
			SenderRefNo:   p.SenderRefNo,
			SenderRefDate: p.SenderRefDate,
			RemitterName:  p.RemitterName,
			Bank:          p.Bank,
		}
	}

	return rems
}
