package engine

import "sync"

// RiskPolicy is the fixed per-process risk configuration.
type RiskPolicy struct {
	ConfidenceThreshold int
	PositionSizePct     float64
	StopLossPct         float64
	TakeProfitPct       float64
	MaxTradesPerDay     int
}

// BotState is the process-lifetime loop state. The loop is the only
// writer during scanning; the midnight reset runs on the cron goroutine,
// which is why the counter is guarded.
type BotState struct {
	mu          sync.Mutex
	tradesToday int
	running     bool
	policy      RiskPolicy
}

func NewBotState(policy RiskPolicy) *BotState {
	return &BotState{policy: policy}
}

func (s *BotState) Policy() RiskPolicy {
	return s.policy
}

func (s *BotState) TradesToday() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tradesToday
}

// CanTrade reports whether the daily buy cap still has room.
func (s *BotState) CanTrade() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tradesToday < s.policy.MaxTradesPerDay
}

// RecordTrade bumps the daily counter after a successful buy and returns
// the new count.
func (s *BotState) RecordTrade() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tradesToday++
	return s.tradesToday
}

// ResetDaily zeroes the counter at the calendar-day boundary and returns
// the count that was discarded.
func (s *BotState) ResetDaily() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := s.tradesToday
	s.tradesToday = 0
	return prior
}

func (s *BotState) setRunning(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = v
}

func (s *BotState) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
