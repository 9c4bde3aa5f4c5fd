package refresh

import (
	"context"
	"time"

	"github.com/sig-0/fxvol/surface/types"
)

type (
	pairDelegate     func() string
	intervalDelegate func() time.Duration
	buildDelegate    func(context.Context) (*types.Surface, error)
)

// mockJob is a callback-driven Job mock
type mockJob struct {
	pairFn     pairDelegate
	intervalFn intervalDelegate
	buildFn    buildDelegate
}

func (m *mockJob) Pair() string {
	if m.pairFn != nil {
		return m.pairFn()
	}

	return ""
}

func (m *mockJob) Interval() time.Duration {
	if m.intervalFn != nil {
		return m.intervalFn()
	}

	return 0
}

func (m *mockJob) Build(ctx context.Context) (*types.Surface, error) {
	if m.buildFn != nil {
		return m.buildFn(ctx)
	}

	return nil, nil
}
