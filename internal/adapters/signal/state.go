package signal

import (
	"time"

	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/domain"
)

type MessageDTO struct {
	ID        domain.MessageID `json:"id"`
	Text      string           `json:"text"`
	Origin    domain.Origin    `json:"origin"`
	Time      string           `json:"time"`
	CreatedAt time.Time        `json:"created_at"`
}

// StateFrame is pushed on every change; clients drop frames with an older Version.
type StateFrame struct {
	Type            string            `json:"type"`
	Phase           domain.Phase      `json:"phase"`
	ConnectionCount int               `json:"connection_count"`
	Messages        []MessageDTO      `json:"messages"`
	Media           domain.MediaState `json:"media"`
	Version         uint64            `json:"version"`
}

func NewStateFrame(st orch.State) StateFrame {
	msgs := make([]MessageDTO, 0, len(st.Messages))
	for _, m := range st.Messages {
		msgs = append(msgs, MessageDTO{
			ID:        m.ID,
			Text:      m.Text,
			Origin:    m.Origin,
			Time:      m.Clock(),
			CreatedAt: m.CreatedAt,
		})
	}
	return StateFrame{
		Type:            "state",
		Phase:           st.Phase,
		ConnectionCount: st.ConnectionCount,
		Messages:        msgs,
		Media:           st.Media,
		Version:         st.Version,
	}
}
