package metrics

import "time"

// TotalCost returns the total cost for metrics matching the filter.
func (s *Store) TotalCost(f Filter) float64 {
	var total float64
	for _, m := range s.List(f, 0) {
		total += m.CostUSD
	}
	return total
}

// TotalTokens returns the total tokens for metrics matching the filter.
func (s *Store) TotalTokens(f Filter) int {
	var total int
	for _, m := range s.List(f, 0) {
		total += m.TotalTokens
	}
	return total
}

// TotalTime returns the total wall time for metrics matching the filter.
func (s *Store) TotalTime(f Filter) time.Duration {
	var total float64
	for _, m := range s.List(f, 0) {
		total += m.TotalSeconds
	}
	return time.Duration(total * float64(time.Second))
}

// Summary provides a summary of metrics for a filter.
type Summary struct {
	Count          int           `json:"count"`
	TotalCostUSD   float64       `json:"total_cost_usd"`
	TotalTokens    int           `json:"total_tokens"`
	TotalTime      time.Duration `json:"total_time"`
	SuccessCount   int           `json:"success_count"`
	ErrorCount     int           `json:"error_count"`
	AvgCostUSD     float64       `json:"avg_cost_usd"`
	AvgTokens      float64       `json:"avg_tokens"`
	AvgTimeSeconds float64       `json:"avg_time_seconds"`
}

// GetSummary returns a summary of metrics matching the filter.
func (s *Store) GetSummary(f Filter) *Summary {
	list := s.List(f, 0)

	sum := &Summary{Count: len(list)}
	for _, m := range list {
		sum.TotalCostUSD += m.CostUSD
		sum.TotalTokens += m.TotalTokens
		sum.TotalTime += time.Duration(m.TotalSeconds * float64(time.Second))
		if m.Success {
			sum.SuccessCount++
		} else {
			sum.ErrorCount++
		}
	}

	if sum.Count > 0 {
		sum.AvgCostUSD = sum.TotalCostUSD / float64(sum.Count)
		sum.AvgTokens = float64(sum.TotalTokens) / float64(sum.Count)
		sum.AvgTimeSeconds = sum.TotalTime.Seconds() / float64(sum.Count)
	}

	return sum
}

// CostByStage returns cost breakdown by pipeline stage.
func (s *Store) CostByStage(f Filter) map[string]float64 {
	breakdown := make(map[string]float64)
	for _, m := range s.List(f, 0) {
		breakdown[m.Stage] += m.CostUSD
	}
	return breakdown
}

// CostByProvider returns cost breakdown by provider.
func (s *Store) CostByProvider(f Filter) map[string]float64 {
	breakdown := make(map[string]float64)
	for _, m := range s.List(f, 0) {
		breakdown[m.Provider] += m.CostUSD
	}
	return breakdown
}

// CostByModel returns cost breakdown by model.
func (s *Store) CostByModel(f Filter) map[string]float64 {
	breakdown := make(map[string]float64)
	for _, m := range s.List(f, 0) {
		breakdown[m.Model] += m.CostUSD
	}
	return breakdown
}
