package orders

import "context"

// mutation is a reversible optimistic update: the previous state is captured
// alongside the applied change so a failed network call restores it exactly.
type mutation struct {
	apply  func()
	revert func()
}

func (a *Accessor) run(ctx context.Context, m mutation, call func(ctx context.Context) error) error {
	a.mu.Lock()
	m.apply()
	a.mu.Unlock()

	if err := call(ctx); err != nil {
		a.mu.Lock()
		m.revert()
		a.mu.Unlock()
		return err
	}
	return nil
}
