package lists

import (
	"context"
	"strconv"
	"sync"
	"testing"

	cfgpkg "github.com/rzbill/listx/internal/config"
	"github.com/stretchr/testify/require"
)

func TestReplicationReplayMatchesConcurrentWrites(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				v := strconv.Itoa(w*perWriter + i)
				if _, err := f.svc.Execute(ctx, "", [][]byte{[]byte("LPUSH"), []byte("k"), []byte(v)}); err != nil {
					t.Errorf("LPUSH %s: %v", v, err)
					return
				}
				if i%5 == 0 {
					argv := [][]byte{[]byte(cmdFilter), []byte("k"), []byte("even"), []byte("0"), []byte(v)}
					if _, err := f.svc.Execute(ctx, "", argv); err != nil {
						t.Errorf("FILTER: %v", err)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()

	replica := newFixture(t, func(c *cfgpkg.Config) { c.Replication.Enabled = false })
	for _, call := range f.replicated(t) {
		replica.mustExec(t, call...)
	}
	require.Equal(t, f.list(t, "k"), replica.list(t, "k"))
	require.Equal(t, f.list(t, "even"), replica.list(t, "even"))
	require.Len(t, f.list(t, "k"), writers*perWriter)
}

func TestRangeDuringConcurrentWrites(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.mustExec(t, "RPUSH", "k", "a", "b", "c", "d", "e", "f")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if _, err := f.svc.Execute(ctx, "", [][]byte{[]byte("RPUSH"), []byte("k"), []byte(strconv.Itoa(i))}); err != nil {
				t.Errorf("RPUSH: %v", err)
				return
			}
			if _, err := f.svc.Execute(ctx, "", [][]byte{[]byte("LPOP"), []byte("k")}); err != nil {
				t.Errorf("LPOP: %v", err)
				return
			}
		}
	}()

	var failure error
	for i := 0; i < 300 && failure == nil; i++ {
		r, err := f.svc.Execute(ctx, "", [][]byte{[]byte("LRANGE"), []byte("k"), []byte("0"), []byte("-1")})
		if err != nil {
			failure = err
			break
		}
		if n := len(r.Array); n != 6 && n != 7 {
			t.Errorf("LRANGE returned %d elements", n)
			break
		}
	}
	close(stop)
	wg.Wait()
	require.NoError(t, failure)
}
