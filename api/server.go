// Package api implements the Matching Orchestration Engine's HTTP surface:
// the synchronous match/compare/explain/algorithms/health routes (§6.1)
// and the async queued routes (§6.2), wired the way the teacher's
// modules/*/handler packages register onto a shared *gin.RouterGroup.
package api

import (
	"time"

	"github.com/andreypavlenko/jobmatch/domain/candidateprofile"
	"github.com/andreypavlenko/jobmatch/domain/jobposting"
	"github.com/andreypavlenko/jobmatch/domain/matchstats"
	"github.com/andreypavlenko/jobmatch/internal/matching/orchestrator"
	"github.com/andreypavlenko/jobmatch/internal/matching/queue"
	"github.com/andreypavlenko/jobmatch/internal/matching/selector"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
	"github.com/andreypavlenko/jobmatch/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

// Server bundles every collaborator the matching API's handlers need.
type Server struct {
	orchestrator *orchestrator.Orchestrator
	selector     *selector.Selector
	registry     map[variants.Name]variants.Variant
	queue        *queue.Queue

	jobs       *jobposting.Service
	candidates *candidateprofile.Service
	stats      *matchstats.Service

	log       *logger.Logger
	startedAt time.Time
	version   string
}

// NewServer builds a Server. stats may be nil: outcome recording is then
// silently skipped rather than failing the request that triggered it.
func NewServer(
	orch *orchestrator.Orchestrator,
	sel *selector.Selector,
	registry map[variants.Name]variants.Variant,
	q *queue.Queue,
	jobs *jobposting.Service,
	candidates *candidateprofile.Service,
	stats *matchstats.Service,
	log *logger.Logger,
) *Server {
	return &Server{
		orchestrator: orch,
		selector:     sel,
		registry:     registry,
		queue:        q,
		jobs:         jobs,
		candidates:   candidates,
		stats:        stats,
		log:          log,
		startedAt:    time.Now(),
		version:      "1.0.0",
	}
}

// RegisterRoutes registers §6.1's synchronous routes and §6.2's async
// routes onto rg. /health is exempt from mw since it must answer even
// when the caller has no token yet, matching the teacher's convention of
// leaving liveness/readiness endpoints outside the auth group.
func (s *Server) RegisterRoutes(rg *gin.RouterGroup, mw gin.HandlerFunc) {
	rg.GET("/health", s.Health)

	guarded := rg.Group("")
	guarded.Use(mw)
	{
		guarded.POST("/match", s.Match)
		guarded.POST("/compare", s.Compare)
		guarded.POST("/explain", s.Explain)
		guarded.GET("/algorithms", s.Algorithms)

		guarded.POST("/v2/match", s.AsyncMatch)
		guarded.POST("/v2/find-jobs", s.AsyncFindJobs)
		guarded.POST("/v2/find-candidates", s.AsyncFindCandidates)
	}
}
