package queries

import "mappamentis/pkg/utils"

// GetMindMapQuery fetches a full map with nodes, links and notes
type GetMindMapQuery struct {
	MapID string `validate:"required,uuid"`
}

func (q GetMindMapQuery) Validate() error { return utils.ValidateStruct(q) }

// ListMindMapsQuery lists map summaries, oldest first
type ListMindMapsQuery struct {
	Limit  int `validate:"gte=0,lte=1000"`
	Offset int `validate:"gte=0"`
}

func (q ListMindMapsQuery) Validate() error { return utils.ValidateStruct(q) }

// GetNodeQuery fetches one node of a map
type GetNodeQuery struct {
	MapID  string `validate:"required,uuid"`
	NodeID string `validate:"required,uuid"`
}

func (q GetNodeQuery) Validate() error { return utils.ValidateStruct(q) }

// SearchNodesQuery matches node content against a keyword
type SearchNodesQuery struct {
	MapID   string `validate:"required,uuid"`
	Keyword string `validate:"max=200"`
}

func (q SearchNodesQuery) Validate() error { return utils.ValidateStruct(q) }

// GetChildNodesQuery lists the direct targets of a node's outgoing links
type GetChildNodesQuery struct {
	MapID    string `validate:"required,uuid"`
	ParentID string `validate:"required,uuid"`
}

func (q GetChildNodesQuery) Validate() error { return utils.ValidateStruct(q) }

// GetTimerQuery fetches one pomodoro timer
type GetTimerQuery struct {
	TimerID string `validate:"required,uuid"`
}

func (q GetTimerQuery) Validate() error { return utils.ValidateStruct(q) }

// Volatile excludes timer reads from caching; elapsed time moves on its own
func (GetTimerQuery) Volatile() {}

// ListTimersQuery lists the timers attached to a map
type ListTimersQuery struct {
	MapID string `validate:"required,uuid"`
}

func (q ListTimersQuery) Validate() error { return utils.ValidateStruct(q) }

func (ListTimersQuery) Volatile() {}
