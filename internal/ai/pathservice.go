package ai

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/terrain"
)

// PathRequest is a single async pathfinding job, submitted during a tick and
// resolved at a later tick boundary (spec §9's "coroutine becomes request/
// response over a queue" design note).
type PathRequest struct {
	ID          string
	Entity      ecs.EntityID
	ZoneID      int32
	StartX, StartY int32
	GoalX, GoalY   int32
}

// PathResponse is the resolved outcome of a PathRequest.
type PathResponse struct {
	RequestID string
	Entity    ecs.EntityID
	Waypoints []Waypoint
	Succeeded bool
}

// PathService runs a bounded pool of pathfinding workers off the tick
// goroutine, using golang.org/x/sync/errgroup to cap concurrency. Workers
// never return an error, and a panicking worker is not recovered.
// Submit is safe to call from the tick goroutine; results are buffered
// until the next Drain call, giving deterministic delivery timing.
type PathService struct {
	zone          *terrain.ZoneTable
	maxExpansions int
	workers       int

	mu      sync.Mutex
	pending []PathRequest
	done    []PathResponse
}

func NewPathService(zone *terrain.ZoneTable, maxExpansions, workers int) *PathService {
	if workers < 1 {
		workers = 1
	}
	return &PathService{zone: zone, maxExpansions: maxExpansions, workers: workers}
}

// Submit enqueues a path request, assigning it a fresh request id.
func (s *PathService) Submit(entity ecs.EntityID, zoneID, startX, startY, goalX, goalY int32) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.pending = append(s.pending, PathRequest{
		ID: id, Entity: entity, ZoneID: zoneID,
		StartX: startX, StartY: startY, GoalX: goalX, GoalY: goalY,
	})
	s.mu.Unlock()
	return id
}

// RunPending drains the pending queue through a bounded worker pool and
// buffers the results for the next Drain call. Intended to run once per
// tick from a system in PhasePreUpdate or PhaseUpdate.
func (s *PathService) RunPending(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	results := make([]PathResponse, len(batch))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, req := range batch {
		i, req := i, req
		g.Go(func() error {
			path, ok := FindPath(s.zone, req.ZoneID, req.StartX, req.StartY, req.GoalX, req.GoalY, s.maxExpansions)
			if ok {
				path = SmoothPath(s.zone, req.ZoneID, path)
			}
			results[i] = PathResponse{RequestID: req.ID, Entity: req.Entity, Waypoints: path, Succeeded: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.done = append(s.done, results...)
	s.mu.Unlock()
	return nil
}

// Drain returns every response computed so far and clears the buffer.
// Called once per tick by the world's aiSystem (PhasePreUpdate), right
// after RunPending, so path results are delivered at a deterministic stage
// boundary instead of whenever a worker happens to finish.
func (s *PathService) Drain() []PathResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.done
	s.done = nil
	return out
}

// PendingCount reports the queue depth, for the queue-full rejection policy
// (spec §7's QueueFull/PathRequestDropped error kind).
func (s *PathService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
