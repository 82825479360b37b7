package signal

import (
	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/core"
)

func (ctl *SignalWSController) handlePing(
	conn core.SignalConnection,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleState(
	o *orch.Orchestrator,
	conn core.SignalConnection,
) {
	ctl.sendJSON(conn, NewStateFrame(o.Snapshot()))
}
