package engine

import (
	"context"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// Pass is the handle of one dispatched registration pass.
type Pass struct {
	registration string
	done         chan struct{}

	unseen int
	err    error
}

func newPass(registration string) *Pass {
	return &Pass{registration: registration, done: make(chan struct{})}
}

func (p *Pass) finish(unseen int, err error) {
	p.unseen = unseen
	p.err = err
	close(p.done)
}

// Registration returns the name of the registration the pass runs for.
func (p *Pass) Registration() string { return p.registration }

// Done is closed when the pass has finished.
func (p *Pass) Done() <-chan struct{} { return p.done }

// Wait blocks until the pass finishes or ctx is done. The error is ctx's;
// the pass's own failure is reported in the result.
func (p *Pass) Wait(ctx context.Context) (domain.PassResult, error) {
	select {
	case <-p.done:
		return p.Result(), nil
	case <-ctx.Done():
		return domain.PassResult{Registration: p.registration}, ctx.Err()
	}
}

// Result returns the outcome of a finished pass. Before Done is closed it
// only carries the registration name.
func (p *Pass) Result() domain.PassResult {
	res := domain.PassResult{Registration: p.registration}
	select {
	case <-p.done:
	default:
		return res
	}
	res.Unseen = p.unseen
	if p.err != nil {
		res.Error = p.err.Error()
	}
	return res
}

// Err returns the pass's failure once it has finished.
func (p *Pass) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}
