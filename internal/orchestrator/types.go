// Package orchestrator assembles the Match Orchestrator pipeline (spec
// §4.7): validate -> embed -> vector query -> join with catalog -> score ->
// rank -> rationale -> (optional) persist.
package orchestrator

import (
	"time"

	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// Request is a single match(assignment) call.
type Request struct {
	Assignment   scoring.Assignment
	AssignmentID string // optional; governs whether persistence runs
}

// Response is the MatchResponse returned to callers (spec §3).
type Response struct {
	Assignment scoring.Assignment `json:"assignment"`
	Matches    []scoring.Match    `json:"matches"`
	Reasoning  string             `json:"reasoning"`
	IsFallback bool               `json:"isFallback"`
	Timestamp  time.Time          `json:"timestamp"`
}

const noSuitableCreatorsMessage = "no suitable creators found"
