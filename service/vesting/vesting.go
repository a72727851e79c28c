package vesting

import (
	"context"
	"time"

	"amplify/core"
	"amplify/internal/amplify"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

const maxBatchLength = 100

type vestingService struct {
	core.Ownable

	system        *core.System
	address       string
	vestingStore  core.IVestingStore
	walletService core.IWalletService
}

// New new vesting ledger service. The address is the ledger's own token
// account; grants are paid out of it, and a grant is only accepted while the
// balance covers it plus every earlier unpaid grant, so a claim payout can
// never bounce against the ledger.
func New(system *core.System,
	address string,
	vestingStore core.IVestingStore,
	walletService core.IWalletService) core.IVestingService {
	return &vestingService{
		Ownable:       core.Ownable{Owner: system.Owner},
		system:        system,
		address:       address,
		vestingStore:  vestingStore,
		walletService: walletService,
	}
}

func (s *vestingService) CreateEntry(ctx context.Context, caller string, req core.VestingEntryReq, now time.Time) (uint64, error) {
	if err := s.RequireOwner(caller); err != nil {
		return 0, err
	}

	if err := validateReq(req, now); err != nil {
		return 0, err
	}

	if err := s.requireFunds(ctx, req.Amount); err != nil {
		return 0, err
	}

	if req.UnlockedAmount.IsPositive() {
		if err := s.walletService.Transfer(ctx, s.system.AmptAsset, s.address, req.Recipient, req.UnlockedAmount, "vesting unlock"); err != nil {
			return 0, err
		}
	}

	// a fully unlocked grant is just a transfer, nothing to schedule
	if req.UnlockedAmount.Equal(req.Amount) {
		return 0, nil
	}

	entry := newEntry(req)
	if err := s.vestingStore.Create(ctx, entry); err != nil {
		return 0, err
	}

	return entry.ID, nil
}

func (s *vestingService) CreateEntries(ctx context.Context, caller string, reqs []core.VestingEntryReq, now time.Time) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if len(reqs) == 0 || len(reqs) > maxBatchLength {
		return core.Errorf(core.ErrExceedMaxLength, "batch of %d entries exceeds %d", len(reqs), maxBatchLength)
	}

	total := decimal.Zero
	for _, req := range reqs {
		if err := validateReq(req, now); err != nil {
			return err
		}

		total = total.Add(req.Amount)
	}

	if err := s.requireFunds(ctx, total); err != nil {
		return err
	}

	entries := make([]*core.VestingEntry, 0, len(reqs))
	for _, req := range reqs {
		if req.UnlockedAmount.IsPositive() {
			if err := s.walletService.Transfer(ctx, s.system.AmptAsset, s.address, req.Recipient, req.UnlockedAmount, "vesting unlock"); err != nil {
				return err
			}
		}

		if req.UnlockedAmount.Equal(req.Amount) {
			continue
		}

		entries = append(entries, newEntry(req))
	}

	if len(entries) == 0 {
		return nil
	}

	return s.vestingStore.CreateBatch(ctx, entries)
}

func (s *vestingService) EntryBalance(ctx context.Context, id uint64, now time.Time) (decimal.Decimal, error) {
	entry, err := s.vestingStore.Find(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	if entry.ID == 0 {
		return decimal.Zero, core.Errorf(core.ErrEntryNotFound, "vesting entry %d not found", id)
	}

	return entryBalance(entry, now), nil
}

func (s *vestingService) RecipientBalance(ctx context.Context, recipient string, now time.Time) (decimal.Decimal, error) {
	entries, err := s.vestingStore.ListByRecipient(ctx, recipient)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		if entry.Fired {
			continue
		}

		total = total.Add(entryBalance(entry, now))
	}

	return total, nil
}

// TotalBalance the ledger account's full token balance, a diagnostic read.
func (s *vestingService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.walletService.BalanceOf(ctx, s.system.AmptAsset, s.address)
}

// Claim checkpoints every non-fired entry of the caller and pays the summed
// vested delta in one transfer. Checkpoints persist before the payout.
func (s *vestingService) Claim(ctx context.Context, caller string, now time.Time) (decimal.Decimal, error) {
	entries, err := s.vestingStore.ListByRecipient(ctx, caller)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		if entry.Fired {
			continue
		}

		delta := entryBalance(entry, now)
		if !delta.IsPositive() {
			continue
		}

		entry.Claimed = entry.Claimed.Add(delta)
		entry.LastUpdate = checkpoint(entry, now)

		if err := s.vestingStore.Update(ctx, entry); err != nil {
			return decimal.Zero, err
		}

		total = total.Add(delta)
	}

	if !total.IsPositive() {
		return decimal.Zero, nil
	}

	if err := s.walletService.Transfer(ctx, s.system.AmptAsset, s.address, caller, total, "vesting claim"); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("vesting: pay claim")
		return decimal.Zero, err
	}

	return total, nil
}

// FireEntry freezes the entry's principal at the vested-as-of-now value and
// stops all further accrual. Transfers nothing itself.
func (s *vestingService) FireEntry(ctx context.Context, caller string, id uint64, now time.Time) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	entry, err := s.vestingStore.Find(ctx, id)
	if err != nil {
		return err
	}

	if entry.ID == 0 {
		return core.Errorf(core.ErrEntryNotFound, "vesting entry %d not found", id)
	}

	if !entry.Revocable || entry.Fired {
		return core.Errorf(core.ErrEntryNotFireable, "vesting entry %d is not fireable", id)
	}

	vested := entry.Claimed.Add(entryBalance(entry, now))

	entry.Amount = vested
	entry.LastUpdate = checkpoint(entry, now)
	entry.Fired = true

	return s.vestingStore.Update(ctx, entry)
}

func (s *vestingService) GetSnapshot(ctx context.Context, recipient string, now time.Time) ([]*core.VestingEntryView, error) {
	entries, err := s.vestingStore.ListByRecipient(ctx, recipient)
	if err != nil {
		return nil, err
	}

	views := make([]*core.VestingEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, &core.VestingEntryView{
			ID:        entry.ID,
			Recipient: entry.Recipient,
			Amount:    entry.Amount,
			Claimed:   entry.Claimed,
			Start:     entry.Start,
			End:       entry.End,
			Cliff:     entry.Cliff,
			Revocable: entry.Revocable,
			Fired:     entry.Fired,
			Vested:    entryBalance(entry, now),
		})
	}

	return views, nil
}

// requireFunds rejects a grant the ledger balance cannot cover on top of the
// outstanding obligation of every entry already scheduled. Claims then only
// ever draw on funds reserved for them.
func (s *vestingService) requireFunds(ctx context.Context, amount decimal.Decimal) error {
	balance, err := s.walletService.BalanceOf(ctx, s.system.AmptAsset, s.address)
	if err != nil {
		return err
	}

	outstanding, err := s.vestingStore.Outstanding(ctx)
	if err != nil {
		return err
	}

	if balance.LessThan(outstanding.Add(amount)) {
		return core.Errorf(core.ErrInsufficientBalance, "vesting ledger holds %s, owes %s and needs %s more", balance, outstanding, amount)
	}

	return nil
}

func validateReq(req core.VestingEntryReq, now time.Time) error {
	switch {
	case req.Recipient == "":
		return core.Errorf(core.ErrInvalidArgument, "empty recipient")
	case !req.Amount.IsPositive():
		return core.Errorf(core.ErrInvalidArgument, "amount %s is not positive", req.Amount)
	case req.UnlockedAmount.IsNegative() || req.UnlockedAmount.GreaterThan(req.Amount):
		return core.Errorf(core.ErrInvalidArgument, "unlocked amount %s exceeds %s", req.UnlockedAmount, req.Amount)
	case req.Start <= now.UTC().Unix():
		return core.Errorf(core.ErrInvalidArgument, "start %d is not in the future", req.Start)
	case req.End <= req.Start:
		return core.Errorf(core.ErrInvalidArgument, "end %d is not after start %d", req.End, req.Start)
	case req.Cliff >= req.End:
		return core.Errorf(core.ErrInvalidArgument, "cliff %d is not before end %d", req.Cliff, req.End)
	}

	return nil
}

func newEntry(req core.VestingEntryReq) *core.VestingEntry {
	return &core.VestingEntry{
		Recipient:  req.Recipient,
		Amount:     req.Amount.Sub(req.UnlockedAmount),
		Start:      req.Start,
		End:        req.End,
		Cliff:      req.Cliff,
		LastUpdate: req.Start,
		Claimed:    decimal.Zero,
		Revocable:  req.Revocable,
	}
}

// entryBalance the claimable-if-claimed-now amount. A fired entry reports the
// frozen vested value minus what was already claimed, constant over time.
func entryBalance(entry *core.VestingEntry, now time.Time) decimal.Decimal {
	if entry.Fired {
		return entry.Amount.Sub(entry.Claimed)
	}

	// past the end the whole remainder is vested, truncation dust included
	if now.UTC().Unix() >= entry.End {
		return entry.Amount.Sub(entry.Claimed)
	}

	delta := amplify.VestedDelta(entry.Amount, entry.Start, entry.End, entry.LastUpdate, now.UTC().Unix())

	if remaining := entry.Amount.Sub(entry.Claimed); delta.GreaterThan(remaining) {
		return remaining
	}

	return delta
}

func checkpoint(entry *core.VestingEntry, now time.Time) int64 {
	t := now.UTC().Unix()
	if t > entry.End {
		return entry.End
	}

	return t
}
