package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/no-hao/DFA/pkg/adapters/memory"
	"github.com/no-hao/DFA/pkg/domain"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.Record(ctx, sid, &domain.Result{Verdict: domain.VerdictAccepted})
		_ = mgr.Delete(ctx, sid)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
