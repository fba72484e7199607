package dashboard

import "context"

// singleflightBuild collapses concurrent builds of the same key into one call.
// The shared build ignores the cancellation of whichever caller started it;
// each caller still stops waiting when its own ctx is done.
func (s *Service) singleflightBuild(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	shared := context.WithoutCancel(ctx)
	resultChan := s.group.DoChan(key, func() (any, error) {
		return fn(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.Val, res.Err
	}
}
