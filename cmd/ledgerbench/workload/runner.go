package workload

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

// Backend is the subset of client.Client a Runner needs, abstracted out
// so the same worker loop can drive either the native ledger or a
// comparison backend (e.g. a real TigerBeetle cluster) side by side.
type Backend interface {
	CreateAccount(ctx context.Context, a wire.Account) (wire.ResultCode, error)
	CreateTransfer(ctx context.Context, t wire.Transfer) (wire.ResultCode, error)
	CreateLinkedAccounts(ctx context.Context, accounts []wire.Account) ([]wire.ResultCode, error)
	LookupAccount(ctx context.Context, id u128.U128) (*wire.Account, error)
}

// Runner drives Config against a Backend and accumulates Metrics.
type Runner struct {
	Client Backend
	Config Config
	Name   string
}

// Run provisions NumAccounts accounts, fans out NumWorkers workers for
// DurationSec, and returns the collected Metrics when done.
func (r *Runner) Run(ctx context.Context) (*Metrics, error) {
	if err := r.seedAccounts(ctx); err != nil {
		return nil, fmt.Errorf("workload: seed accounts: %w", err)
	}

	metrics := &Metrics{StartTime: time.Now()}
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(r.Config.DurationSec)*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < r.Config.NumWorkers; i++ {
		wg.Add(1)
		go r.runWorker(runCtx, &wg, i, metrics)
	}
	wg.Wait()
	metrics.EndTime = time.Now()
	return metrics, nil
}

func (r *Runner) seedAccounts(ctx context.Context) error {
	const chainSize = 50
	accounts := make([]wire.Account, 0, chainSize)
	for id := 1; id <= r.Config.NumAccounts; id++ {
		a := wire.Account{
			ID:     u128.FromUint64(uint64(id)),
			Ledger: r.Config.LedgerID,
			Code:   1,
		}
		if r.Config.Kind == KindTwoPhase || r.Config.Kind == KindMixed {
			a.Flags = wire.AccountHistory
		}
		accounts = append(accounts, a)
		if len(accounts) == chainSize || id == r.Config.NumAccounts {
			if _, err := r.Client.CreateLinkedAccounts(ctx, accounts); err != nil {
				return err
			}
			accounts = accounts[:0]
		}
	}
	return nil
}

func (r *Runner) idGenerator(workerID int) Generator {
	seed := time.Now().UnixNano() + int64(workerID)
	if r.Config.HotAccountSkew < 0.01 {
		return NewUniformGenerator(r.Config.NumAccounts, seed)
	}
	return NewZipfGenerator(r.Config.NumAccounts, r.Config.HotAccountSkew, seed)
}

func (r *Runner) runWorker(ctx context.Context, wg *sync.WaitGroup, workerID int, metrics *Metrics) {
	defer wg.Done()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
	idGen := r.idGenerator(workerID)
	var counter uint64

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := time.Now()
		var err error
		switch r.Config.Kind {
		case KindLookup:
			err = r.performLookup(ctx, idGen, metrics)
		case KindTwoPhase:
			err = r.performTwoPhase(ctx, workerID, &counter, idGen, rng, metrics)
		case KindMixed:
			if rng.Float64() < r.Config.TransferRatio {
				err = r.performTransfer(ctx, workerID, &counter, idGen, rng, metrics)
			} else {
				err = r.performLookup(ctx, idGen, metrics)
			}
		default:
			err = r.performTransfer(ctx, workerID, &counter, idGen, rng, metrics)
		}
		metrics.RecordLatency(time.Since(start), err == nil)
	}
}

func (r *Runner) performLookup(ctx context.Context, idGen Generator, metrics *Metrics) error {
	id := u128.FromUint64(idGen.Next())
	if _, err := r.Client.LookupAccount(ctx, id); err != nil {
		return err
	}
	metrics.AccountsLookedUp.Add(1)
	return nil
}

func (r *Runner) performTransfer(ctx context.Context, workerID int, counter *uint64, idGen Generator, rng *rand.Rand, metrics *Metrics) error {
	*counter++
	debit := idGen.Next()
	credit := idGen.Next()
	for credit == debit {
		credit = idGen.Next()
	}

	t := wire.Transfer{
		ID:              transferID(workerID, *counter),
		DebitAccountID:  u128.FromUint64(debit),
		CreditAccountID: u128.FromUint64(credit),
		Amount:          u128.FromUint64(RandomAmount(rng)),
		Ledger:          r.Config.LedgerID,
		Code:            10,
	}
	code, err := r.Client.CreateTransfer(ctx, t)
	if err != nil {
		return err
	}
	if code != wire.ResultOK {
		return fmt.Errorf("create_transfer: %s", code)
	}
	metrics.TransfersCreated.Add(1)
	return nil
}

// performTwoPhase drives a pending transfer through to post or void,
// posting with probability TwoPhaseRatio and voiding otherwise.
func (r *Runner) performTwoPhase(ctx context.Context, workerID int, counter *uint64, idGen Generator, rng *rand.Rand, metrics *Metrics) error {
	*counter++
	debit := idGen.Next()
	credit := idGen.Next()
	for credit == debit {
		credit = idGen.Next()
	}

	pendingID := transferID(workerID, *counter)
	pending := wire.Transfer{
		ID:              pendingID,
		DebitAccountID:  u128.FromUint64(debit),
		CreditAccountID: u128.FromUint64(credit),
		Amount:          u128.FromUint64(RandomAmount(rng)),
		Ledger:          r.Config.LedgerID,
		Code:            10,
		Flags:           wire.TransferPending,
	}
	code, err := r.Client.CreateTransfer(ctx, pending)
	if err != nil {
		return err
	}
	if code != wire.ResultOK {
		return fmt.Errorf("create_transfer(pending): %s", code)
	}
	metrics.TwoPhaseCreated.Add(1)
	metrics.TwoPhasePending.Add(1)

	*counter++
	resolution := wire.Transfer{
		ID:              transferID(workerID, *counter),
		DebitAccountID:  u128.FromUint64(debit),
		CreditAccountID: u128.FromUint64(credit),
		Ledger:          r.Config.LedgerID,
		Code:            10,
		PendingID:       pendingID,
	}
	if rng.Float64() < r.Config.TwoPhaseRatio {
		resolution.Flags = wire.TransferPostPending
	} else {
		resolution.Flags = wire.TransferVoidPending
	}
	code, err = r.Client.CreateTransfer(ctx, resolution)
	if err != nil {
		return err
	}
	if code != wire.ResultOK {
		return fmt.Errorf("create_transfer(resolution): %s", code)
	}
	if resolution.Flags.Has(wire.TransferPostPending) {
		metrics.TwoPhasePosted.Add(1)
	} else {
		metrics.TwoPhaseVoided.Add(1)
	}
	return nil
}

// transferID derives a deterministic non-zero id from a worker id and a
// per-worker counter, avoiding cross-worker collisions without a shared
// sequence.
func transferID(workerID int, counter uint64) u128.U128 {
	return u128.FromUint64(uint64(workerID+1)<<48 | counter)
}
