package feed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatest_Empty(t *testing.T) {
	l := NewLatest()

	select {
	case u := <-l.C():
		t.Fatalf("unexpected update %v", u)
	default:
	}
}

func TestLatest_KeepsNewest(t *testing.T) {
	l := NewLatest()

	l.Observe(nil, StatusConnecting)
	l.Observe(nil, StatusConnected)
	l.Observe(Snapshot{"n": 3}, StatusConnected)

	u := <-l.C()
	assert.Equal(t, StatusConnected, u.Status)
	assert.Equal(t, 3, u.Snapshot["n"])

	select {
	case <-l.C():
		t.Fatal("mailbox should hold a single update")
	default:
	}
}

func TestLatest_ObserveNeverBlocks(t *testing.T) {
	l := NewLatest()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Observe(Snapshot{"n": n}, StatusConnected)
			}
		}(i)
	}
	wg.Wait()

	u := <-l.C()
	assert.Equal(t, StatusConnected, u.Status)
	assert.Len(t, l.C(), 0)
}

func TestSame(t *testing.T) {
	a := Snapshot{"n": 1}
	b := Snapshot{"n": 1}
	alias := a

	assert.True(t, Same(a, alias))
	assert.False(t, Same(a, b), "equal contents from different frames are different snapshots")
	assert.False(t, Same(nil, a))
	assert.False(t, Same(nil, nil))
}
