package contract

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"okinoko_vault/sdk"
)

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, uniqueSorted([]string{"c", "a", "b", "a", "c"}))
	assert.Empty(t, uniqueSorted(nil))
}

func TestLockTableSerializesSameName(t *testing.T) {
	lt := newLockTable()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := lt.acquire([]string{"vault:1", "user:hive:a"})
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Zero(t, lt.size())
}

func TestLockTableOppositeOrderNoDeadlock(t *testing.T) {
	lt := newLockTable()
	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() { defer wg.Done(); lt.acquire([]string{"a", "b"})() }()
			go func() { defer wg.Done(); lt.acquire([]string{"b", "a"})() }()
		}
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock acquisition deadlocked")
	}
	assert.Zero(t, lt.size())
}

func TestLockPlans(t *testing.T) {
	reg := &GlobalRegistry{GovernanceAsset: "pda:gov", StakedAsset: "pda:st"}
	sender := sdk.Address("hive:alice")

	vote := (&VoteArgs{VaultID: 3}).locks("p", reg, sender)
	assert.ElementsMatch(t, []string{"vault:3", "voter:3/hive:alice", "user:hive:alice", "asset:pda:st"}, vote)

	claim := (&ClaimArgs{VaultID: 3}).locks("p", reg, sender)
	assert.ElementsMatch(t, []string{"vault:3", "voter:3/hive:alice", "user:hive:alice"}, claim)

	convert := (&ConvertArgs{}).locks("p", nil, sender)
	assert.Equal(t, []string{"user:hive:alice"}, convert)

	assert.Contains(t, (&CreateVaultArgs{VaultID: 3}).locks("p", reg, sender), lockVaultIndex)
}
