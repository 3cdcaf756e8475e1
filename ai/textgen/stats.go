package textgen

import "time"

// Stats accumulates usage over the life of a client. The server surfaces the
// counters on /api/status and pushes usage_update events when they change.
type Stats struct {
	Requests         int64     `json:"requests"`
	Failures         int64     `json:"failures"`
	PromptTokens     int64     `json:"prompt_tokens"`
	CompletionTokens int64     `json:"completion_tokens"`
	TotalTokens      int64     `json:"total_tokens"`
	CostUSD          float64   `json:"cost_usd"`
	LastRequestAt    time.Time `json:"last_request_at"`
}

// Stats returns a snapshot of accumulated usage
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Client) recordSuccess(model string, usage Usage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Requests++
	c.stats.PromptTokens += int64(usage.PromptTokens)
	c.stats.CompletionTokens += int64(usage.CompletionTokens)
	c.stats.TotalTokens += int64(usage.TotalTokens)
	c.stats.CostUSD += CalculateCost(model, usage.PromptTokens, usage.CompletionTokens)
	c.stats.LastRequestAt = time.Now()
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Requests++
	c.stats.Failures++
	c.stats.LastRequestAt = time.Now()
}
