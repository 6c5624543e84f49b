package retropark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyCommitWakesAllWaiters(t *testing.T) {
	tbl := New()

	const waiters = 5
	woken := make(chan struct{}, waiters)

	for i := 0; i < waiters; i++ {
		go func() {
			tbl.Lock()
			tbl.WaitForCommit()
			tbl.Unlock()
			woken <- struct{}{}
		}()
	}

	// Give the goroutines a chance to register as waiters before we notify.
	time.Sleep(20 * time.Millisecond)
	tbl.NotifyCommit()

	for i := 0; i < waiters; i++ {
		select {
		case <-woken:
		case <-time.After(time.Second):
			t.Fatal("NotifyCommit did not wake all parked readers")
		}
	}
}

func TestNotifyDrainWakesSingleWaiter(t *testing.T) {
	tbl := New()
	woken := make(chan struct{}, 1)

	go func() {
		tbl.Lock()
		tbl.WaitForDrain()
		tbl.Unlock()
		woken <- struct{}{}
	}()

	time.Sleep(20 * time.Millisecond)
	tbl.NotifyDrain()

	select {
	case <-woken:
	case <-time.After(time.Second):
		t.Fatal("NotifyDrain did not wake the parked writer")
	}
}

func TestLockUnlockAreIndependentOfConds(t *testing.T) {
	tbl := New()
	tbl.Lock()
	tbl.Unlock()
	assert.NotNil(t, tbl)
}
