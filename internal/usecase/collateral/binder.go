package collateral

import (
	"context"
	"errors"

	domainCollateral "microfin-ledger/internal/domain/collateral"
	"microfin-ledger/internal/domain/uow"
	"microfin-ledger/pkg/id"
	"microfin-ledger/pkg/money"
)

// Bind pledges a member's unblocked deposits against a loan until the
// required amount is covered, then upserts the Collateral record. It runs
// inside the caller's transaction so blocking and the upsert commit or roll
// back together.
//
// Selection is greedy FIFO: oldest unblocked deposits first. In strict mode
// an available balance below the requirement aborts with
// ErrInsufficientCollateral before anything is written; in lenient mode
// (group members) whatever is available gets blocked and the record is left
// partial. Coverage is always measured against the available balance, not the
// face value of the blocked rows, so prior withdrawals keep the record
// partial until the member genuinely holds the requirement.
func Bind(ctx context.Context, r uow.Repos, loanID, memberID string, required float64, strict bool) (*domainCollateral.Collateral, error) {
	already, err := r.Savings.SumBlockedForLoan(ctx, loanID, memberID)
	if err != nil {
		return nil, err
	}
	balance, err := r.Savings.Balance(ctx, memberID)
	if err != nil {
		return nil, err
	}
	// Blocked rows keep their face value, but withdrawals made before the
	// block can leave the account holding less. Coverage is what the member
	// actually has.
	if already > balance {
		already = money.Round2(balance)
	}
	shortfall := money.Round2(required - already)

	if shortfall > money.Epsilon {
		available, err := r.Savings.AvailableBalance(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if strict && available+money.Epsilon < shortfall {
			return nil, domainCollateral.ErrInsufficientCollateral
		}

		deposits, err := r.Savings.ListUnblockedDeposits(ctx, memberID)
		if err != nil {
			return nil, err
		}
		var refs []uint64
		var picked float64
		for _, d := range deposits {
			if picked+money.Epsilon >= shortfall {
				break
			}
			refs = append(refs, d.ID)
			picked = money.Round2(picked + d.Amount)
		}
		if len(refs) > 0 {
			if err := r.Savings.BlockForLoan(ctx, refs, loanID); err != nil {
				return nil, err
			}
		}
		// Same face-value caveat for the fresh picks: only the available
		// balance counts toward the requirement.
		credit := picked
		if credit > available {
			credit = available
		}
		if credit < 0 {
			credit = 0
		}
		already = money.Round2(already + credit)
	}

	// deposited is capped at required so deposited + remaining == required
	// holds even when the blocked deposits overshoot.
	deposited := already
	if deposited > required {
		deposited = required
	}
	remaining := money.Round2(required - deposited)
	if remaining < 0 {
		remaining = 0
	}

	c := &domainCollateral.Collateral{
		LoanID:    loanID,
		MemberID:  memberID,
		Required:  required,
		Deposited: deposited,
		Remaining: remaining,
		Status:    domainCollateral.StatusPartial,
	}
	if remaining <= money.Epsilon {
		c.Deposited = required
		c.Remaining = 0
		c.Status = domainCollateral.StatusComplete
	}

	if existing, err := r.Collaterals.GetByLoanAndMember(ctx, loanID, memberID); err == nil {
		c.ID = existing.ID
		c.CollateralID = existing.CollateralID
	} else if !errors.Is(err, domainCollateral.ErrNotFound) {
		return nil, err
	} else {
		c.CollateralID = id.NewID32()
	}
	if err := r.Collaterals.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Unbind releases every savings transaction pledged to loanID, for all
// members. Used on loan rejection.
func Unbind(ctx context.Context, r uow.Repos, loanID string) error {
	return r.Savings.UnblockForLoan(ctx, loanID)
}
