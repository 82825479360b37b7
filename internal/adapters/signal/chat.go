package signal

import (
	"encoding/json"

	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleMessage(
	sid core.SessionID,
	o *orch.Orchestrator,
	conn core.SignalConnection,
	data []byte,
) {
	type messagePayload struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("message rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}
	o.SendMessage(p.Text)
}
