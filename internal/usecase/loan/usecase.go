package loan

import (
	"context"
	"errors"
	"sort"
	"time"

	domainCollateral "microfin-ledger/internal/domain/collateral"
	domainLoan "microfin-ledger/internal/domain/loan"
	"microfin-ledger/internal/domain/uow"
	collateraluc "microfin-ledger/internal/usecase/collateral"
	"microfin-ledger/internal/usecase/schedule"
	"microfin-ledger/pkg/id"
	"microfin-ledger/pkg/money"
	"microfin-ledger/pkg/retry"
)

// maxIDAttempts bounds the loan ID insert-retry loop.
const maxIDAttempts = 5

// Config carries the system-wide lending parameters (read-only inputs from
// the settings surface).
type Config struct {
	InterestRate          float64
	DefaultCollateralRate float64
	Brackets              []domainCollateral.Bracket
}

type Usecase struct {
	loans domainLoan.Repository
	insts domainLoan.InstallmentRepository
	cols  domainCollateral.Repository
	uow   uow.UnitOfWork
	cfg   Config
}

func NewUsecase(loans domainLoan.Repository, insts domainLoan.InstallmentRepository, cols domainCollateral.Repository, tx uow.UnitOfWork, cfg Config) *Usecase {
	return &Usecase{loans: loans, insts: insts, cols: cols, uow: tx, cfg: cfg}
}

func isCollision(err error) bool { return errors.Is(err, domainLoan.ErrLoanIDCollision) }

// allocateLoanID reserves a fresh loan identifier, regenerating on registry
// collisions up to maxIDAttempts.
func allocateLoanID(ctx context.Context, r uow.Repos, kind string) (string, error) {
	rec := &domainLoan.IDRecord{Kind: kind}
	err := retry.Do(maxIDAttempts, isCollision, func() error {
		rec.LoanID = id.NewLoanID()
		rec.ID = 0
		return r.Loans.AllocateID(ctx, rec)
	})
	if errors.Is(err, retry.ErrExhausted) {
		return "", domainLoan.ErrIDAllocationExhausted
	}
	if err != nil {
		return "", err
	}
	return rec.LoanID, nil
}

// createSubLoan writes one (sub-)loan row with its installment series and
// binds collateral for its member. Caller supplies the transaction.
func (u *Usecase) createSubLoan(ctx context.Context, r uow.Repos, loanID, memberID string, groupID *string, principal float64, freq domainLoan.Frequency, count int, disbursed time.Time, strict bool) (*domainLoan.Loan, *domainCollateral.Collateral, error) {
	plan, err := schedule.Build(schedule.Input{
		Principal:        principal,
		Frequency:        freq,
		Count:            count,
		DisbursementDate: disbursed,
		InterestRate:     u.cfg.InterestRate,
	})
	if err != nil {
		return nil, nil, err
	}

	if _, err := r.Members.GetByMemberID(ctx, memberID); err != nil {
		return nil, nil, err
	}

	slot := memberID
	l := &domainLoan.Loan{
		LoanID:           loanID,
		MemberID:         memberID,
		GroupID:          groupID,
		OpenMemberSlot:   &slot,
		Principal:        money.Round2(principal),
		InterestRate:     u.cfg.InterestRate,
		InstallmentCount: count,
		Frequency:        freq,
		DisbursementDate: disbursed,
		Status:           domainLoan.StatusAwaitingCollateral,
		StatusUpdatedAt:  time.Now().UTC(),
	}
	if err := r.Loans.Create(ctx, l); err != nil {
		return nil, nil, err
	}

	for i := range plan {
		plan[i].LoanRef = l.ID
	}
	if err := r.Installments.CreateBatch(ctx, plan); err != nil {
		return nil, nil, err
	}

	required := collateraluc.RequiredAmount(principal, u.cfg.Brackets, u.cfg.DefaultCollateralRate)
	col, err := collateraluc.Bind(ctx, r, loanID, memberID, required, strict)
	if err != nil {
		return nil, nil, err
	}

	if col.Status == domainCollateral.StatusComplete {
		l.Status = domainLoan.StatusAwaitingApproval
		l.StatusUpdatedAt = time.Now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return nil, nil, err
		}
	}
	return l, col, nil
}

type CreateIndividualInput struct {
	MemberID         string
	Principal        float64
	Frequency        domainLoan.Frequency
	Count            int
	DisbursementDate time.Time
}

// CreateIndividual runs schedule generation, loan + installment inserts and
// strict collateral binding in one transaction: an insufficient collateral or
// a duplicate open loan leaves nothing behind.
func (u *Usecase) CreateIndividual(ctx context.Context, in CreateIndividualInput) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loanID, err := allocateLoanID(ctx, r, "individual")
		if err != nil {
			return err
		}
		l, col, err := u.createSubLoan(ctx, r, loanID, in.MemberID, nil, in.Principal, in.Frequency, in.Count, in.DisbursementDate, true)
		if err != nil {
			return err
		}
		dto = toLoanDTO(l, col)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

type CreateGroupInput struct {
	GroupID          string
	Total            float64
	MemberAmounts    map[string]float64
	Frequency        domainLoan.Frequency
	Count            int
	DisbursementDate time.Time
}

// CreateGroup distributes a group principal into per-member sub-loans under
// one shared loan ID. Collateral is bound leniently per member: a short
// member leaves the whole group in awaiting_collateral rather than failing
// the disbursement.
func (u *Usecase) CreateGroup(ctx context.Context, in CreateGroupInput) (*GroupLoanDTO, error) {
	if len(in.MemberAmounts) == 0 {
		return nil, domainLoan.ErrAmountMismatch
	}
	var sum float64
	for _, amount := range in.MemberAmounts {
		sum = money.Round2(sum + amount)
	}
	if !money.Equal(sum, in.Total) {
		return nil, domainLoan.ErrAmountMismatch
	}

	// deterministic member order: stable IDs, stable failures
	members := make([]string, 0, len(in.MemberAmounts))
	for m := range in.MemberAmounts {
		members = append(members, m)
	}
	sort.Strings(members)

	var dto *GroupLoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loanID, err := allocateLoanID(ctx, r, "group")
		if err != nil {
			return err
		}
		groupID := in.GroupID
		out := &GroupLoanDTO{LoanID: loanID, GroupID: groupID, Total: in.Total}
		allComplete := true
		var subs []*domainLoan.Loan
		for _, memberID := range members {
			l, col, err := u.createSubLoan(ctx, r, loanID, memberID, &groupID, in.MemberAmounts[memberID], in.Frequency, in.Count, in.DisbursementDate, false)
			if err != nil {
				return err
			}
			if col.Status != domainCollateral.StatusComplete {
				allComplete = false
			}
			subs = append(subs, l)
			out.Members = append(out.Members, *toLoanDTO(l, col))
		}
		// createSubLoan already advanced complete members; when one member is
		// short, nobody proceeds past awaiting_collateral.
		if !allComplete {
			for _, l := range subs {
				if l.Status != domainLoan.StatusAwaitingCollateral {
					l.Status = domainLoan.StatusAwaitingCollateral
					l.StatusUpdatedAt = time.Now().UTC()
					if err := r.Loans.Save(ctx, l); err != nil {
						return err
					}
				}
			}
			for i := range out.Members {
				out.Members[i].Status = string(domainLoan.StatusAwaitingCollateral)
			}
		}
		out.Status = string(domainLoan.StatusAwaitingCollateral)
		if allComplete {
			out.Status = string(domainLoan.StatusAwaitingApproval)
		}
		dto = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// RebindCollateral retries collateral binding for one member after new
// deposits. When every member of the loan reaches complete, all sub-loans
// advance to awaiting_approval together.
func (u *Usecase) RebindCollateral(ctx context.Context, loanID, memberID string) (*CollateralDTO, error) {
	var dto *CollateralDTO
	err := u.uow.WithinLoanTx(ctx, loanID, memberID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusAwaitingCollateral {
			return domainLoan.ErrInvalidTransition
		}
		existing, err := r.Collaterals.GetByLoanAndMember(ctx, loanID, memberID)
		if err != nil {
			return err
		}
		col, err := collateraluc.Bind(ctx, r, loanID, memberID, existing.Required, false)
		if err != nil {
			return err
		}
		dto = toCollateralDTO(col)
		if col.Status != domainCollateral.StatusComplete {
			return nil
		}

		cols, err := r.Collaterals.ListByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		for _, c := range cols {
			if c.Status != domainCollateral.StatusComplete {
				return nil
			}
		}
		subs, err := r.Loans.ListByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		for i := range subs {
			if subs[i].Status != domainLoan.StatusAwaitingCollateral {
				continue
			}
			subs[i].Status = domainLoan.StatusAwaitingApproval
			subs[i].StatusUpdatedAt = time.Now().UTC()
			if err := r.Loans.Save(ctx, &subs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Activate consumes the external approval signal: every sub-loan must be
// awaiting_approval; capital outstanding starts at the member's principal.
func (u *Usecase) Activate(ctx context.Context, loanID string) (*LoanStatusDTO, error) {
	var dto *LoanStatusDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		subs, err := r.Loans.ListByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			return domainLoan.ErrNotFound
		}
		for i := range subs {
			if subs[i].Status != domainLoan.StatusAwaitingApproval {
				return domainLoan.ErrInvalidTransition
			}
		}
		for i := range subs {
			subs[i].Status = domainLoan.StatusActive
			subs[i].CapitalOutstanding = subs[i].Principal
			subs[i].StatusUpdatedAt = time.Now().UTC()
			if err := r.Loans.Save(ctx, &subs[i]); err != nil {
				return err
			}
		}
		dto = &LoanStatusDTO{LoanID: loanID, Status: string(domainLoan.StatusActive)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Reject consumes the external rejection signal. Only pre-active loans can be
// rejected; every savings transaction pledged to the loan is released in the
// same transaction.
func (u *Usecase) Reject(ctx context.Context, loanID string) (*LoanStatusDTO, error) {
	var dto *LoanStatusDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		subs, err := r.Loans.ListByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			return domainLoan.ErrNotFound
		}
		for i := range subs {
			switch subs[i].Status {
			case domainLoan.StatusAwaitingCollateral, domainLoan.StatusAwaitingApproval:
			default:
				return domainLoan.ErrInvalidTransition
			}
		}
		for i := range subs {
			subs[i].Status = domainLoan.StatusRejected
			subs[i].OpenMemberSlot = nil
			subs[i].StatusUpdatedAt = time.Now().UTC()
			if err := r.Loans.Save(ctx, &subs[i]); err != nil {
				return err
			}
		}
		if err := collateraluc.Unbind(ctx, r, loanID); err != nil {
			return err
		}
		dto = &LoanStatusDTO{LoanID: loanID, Status: string(domainLoan.StatusRejected)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ---- read-only projections ----

var statusRank = map[domainLoan.Status]int{
	domainLoan.StatusRejected:           0,
	domainLoan.StatusAwaitingCollateral: 1,
	domainLoan.StatusAwaitingApproval:   2,
	domainLoan.StatusActive:             3,
	domainLoan.StatusCompleted:          4,
}

// groupStatus reports the least-advanced status across a loan's sub-loans:
// a loan is only as far along as its slowest member, and completed only once
// every member has paid off their schedule.
func groupStatus(subs []domainLoan.Loan) domainLoan.Status {
	out := subs[0].Status
	for i := 1; i < len(subs); i++ {
		if statusRank[subs[i].Status] < statusRank[out] {
			out = subs[i].Status
		}
	}
	return out
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*GroupLoanDTO, error) {
	subs, err := u.loans.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, domainLoan.ErrNotFound
	}
	cols, err := u.cols.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	byMember := make(map[string]*domainCollateral.Collateral, len(cols))
	for i := range cols {
		byMember[cols[i].MemberID] = &cols[i]
	}

	out := &GroupLoanDTO{LoanID: loanID, Status: string(groupStatus(subs))}
	if subs[0].GroupID != nil {
		out.GroupID = *subs[0].GroupID
	}
	for i := range subs {
		out.Total = money.Round2(out.Total + subs[i].Principal)
		out.Members = append(out.Members, *toLoanDTO(&subs[i], byMember[subs[i].MemberID]))
	}
	return out, nil
}

func (u *Usecase) Schedule(ctx context.Context, loanID, memberID string) ([]InstallmentDTO, error) {
	l, err := u.loans.GetByLoanIDAndMember(ctx, loanID, memberID)
	if err != nil {
		return nil, err
	}
	insts, err := u.insts.ListByLoanRef(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]InstallmentDTO, 0, len(insts))
	for i := range insts {
		out = append(out, *toInstallmentDTO(&insts[i]))
	}
	return out, nil
}

func (u *Usecase) CollateralStatus(ctx context.Context, loanID string) ([]CollateralDTO, error) {
	cols, err := u.cols.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, domainCollateral.ErrNotFound
	}
	out := make([]CollateralDTO, 0, len(cols))
	for i := range cols {
		out = append(out, *toCollateralDTO(&cols[i]))
	}
	return out, nil
}
