package migration

import (
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// Observer receives a status snapshot after every processed record and on
// every lifecycle transition. Snapshots are value copies; observers may keep
// them without racing the orchestrator.
type Observer interface {
	Notify(status entity.MigrationStatus)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(status entity.MigrationStatus)

func (f ObserverFunc) Notify(status entity.MigrationStatus) { f(status) }

// ChannelObserver publishes snapshots on a bounded channel so a UI (or test)
// can consume discrete transitions without polling. When the consumer falls
// behind, the oldest buffered snapshot is dropped in favor of the newest.
type ChannelObserver struct {
	ch chan entity.MigrationStatus
}

func NewChannelObserver(size int) *ChannelObserver {
	if size <= 0 {
		size = 64
	}
	return &ChannelObserver{ch: make(chan entity.MigrationStatus, size)}
}

// C is the receive side.
func (o *ChannelObserver) C() <-chan entity.MigrationStatus {
	return o.ch
}

func (o *ChannelObserver) Notify(status entity.MigrationStatus) {
	for {
		select {
		case o.ch <- status:
			return
		default:
			select {
			case <-o.ch: // drop oldest
			default:
			}
		}
	}
}

// Close closes the channel; call only after the run has finished.
func (o *ChannelObserver) Close() {
	close(o.ch)
}
