package monitoring

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// A ProgressBar tracks how far a replay has advanced on the virtual clock.
type ProgressBar struct {
	sync.Mutex
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	StartTime time.Time     `json:"start_time"`
	Total     time.Duration `json:"total"`
	Finished  time.Duration `json:"finished"`
}

func newProgressBar(name string, total time.Duration) *ProgressBar {
	return &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}
}

// MoveTo records the virtual time the replay has reached. The progress never
// goes backwards.
func (b *ProgressBar) MoveTo(now time.Duration) {
	b.Lock()
	defer b.Unlock()

	if now > b.Finished {
		b.Finished = now
	}
}

// Done tells whether the replay has reached the end.
func (b *ProgressBar) Done() bool {
	b.Lock()
	defer b.Unlock()

	return b.Finished >= b.Total
}
