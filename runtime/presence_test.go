package runtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresence_ConcurrentConnectDisconnect(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	connected := 100
	disconnected := 40

	var wg sync.WaitGroup
	for i := 0; i < connected; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			presence.Connect(fmt.Sprintf("user-%d", n), fmt.Sprintf("session-%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < disconnected; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			presence.Disconnect(fmt.Sprintf("user-%d", n))
		}(i)
	}
	wg.Wait()

	req.Equal(connected-disconnected, presence.Count())
}

func TestPresence_ReconnectReplacesSession(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Connect("user-1", "session-a")
	presence.Connect("user-1", "session-b")

	req.Equal(1, presence.Count())
	req.Equal("session-b", presence.Snapshot()["user-1"])
}

func TestPresence_SnapshotIsIsolated(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Connect("user-1", "session-a")

	snapshot := presence.Snapshot()
	snapshot["user-2"] = "session-b"
	delete(snapshot, "user-1")

	req.Equal(1, presence.Count())
	req.Equal("session-a", presence.Snapshot()["user-1"])
}

func TestPresence_DisconnectUnknownUserIsNoop(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Disconnect("ghost")

	req.Equal(0, presence.Count())
}
