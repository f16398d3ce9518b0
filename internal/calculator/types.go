package calculator

import "go-chi-calculator/internal/engine"

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys and
// POST /calculator/evaluate.
type KeysRequest struct {
	Keys []string `json:"keys"` // keypad labels, e.g. "7", "+", "=", "AC"
}

// Snapshot is what the view needs to re-render a calculator.
type Snapshot struct {
	SessionID       string   `json:"session_id,omitempty"`
	Display         string   `json:"display"`
	History         []string `json:"history"`
	PendingOperand  *float64 `json:"pending_operand,omitempty"`
	PendingOperator string   `json:"pending_operator,omitempty"`
	AwaitingOperand bool     `json:"awaiting_operand"`
	Error           string   `json:"error,omitempty"`
}

// StepResult records the display after one replayed key.
type StepResult struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Steps  []StepResult `json:"steps"`
	Result Snapshot     `json:"result"`
}

func newSnapshot(id string, st engine.State) Snapshot {
	snap := Snapshot{
		SessionID:       id,
		Display:         st.Display(),
		History:         st.History(),
		AwaitingOperand: st.AwaitingOperand(),
	}

	if p, ok := st.Pending(); ok {
		operand := p.Operand
		snap.PendingOperand = &operand
		snap.PendingOperator = p.Op.String()
	}

	if err := st.Fault(); err != nil {
		snap.Error = err.Error()
	}

	return snap
}
