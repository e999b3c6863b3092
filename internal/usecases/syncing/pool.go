package syncing

import (
	"context"
	"sync"

	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/leverads/meta-sync-api/pkg/apiErrors"
)

// runPool entrega os índices [0, total) para até workers goroutines.
// Com workers == 1 os índices são processados em sequência, na ordem.
func runPool(ctx context.Context, total, workers int, fn func(ctx context.Context, i int)) {
	if total == 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(ctx, i)
			}
		}()
	}

	for i := 0; i < total; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}

// runGuard guarda o estado compartilhado entre contas de uma mesma rodada:
// credenciais com token expirado e a contagem de falhas consecutivas.
type runGuard struct {
	mu sync.Mutex

	expired map[string]error

	maxConsecutive int
	consecutive    int
}

func newRunGuard(maxConsecutive int) *runGuard {
	return &runGuard{
		expired:        make(map[string]error),
		maxConsecutive: maxConsecutive,
	}
}

// skipReason devolve o motivo para não processar a conta, ou nil
func (g *runGuard) skipReason(connectionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err, ok := g.expired[connectionID]; ok {
		return err
	}

	if g.maxConsecutive > 0 && g.consecutive >= g.maxConsecutive {
		return ErrCircuitOpen
	}

	return nil
}

func (g *runGuard) record(connectionID string, status domain.SyncStatus, cause error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cause != nil && isTokenExpired(cause) {
		if _, ok := g.expired[connectionID]; !ok {
			g.expired[connectionID] = NewSyncError(ErrTokenExpired, apiErrors.ErrTokenMetaSync, cause.Error())
		}
	}

	if status == domain.SyncStatusError {
		g.consecutive++
		return
	}
	g.consecutive = 0
}
