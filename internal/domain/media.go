package domain

// MediaState mirrors the local capture stream. Flags are false without a stream.
type MediaState struct {
	HasStream    bool   `json:"has_stream"`
	StreamID     string `json:"stream_id,omitempty"`
	VideoEnabled bool   `json:"video_enabled"`
	AudioEnabled bool   `json:"audio_enabled"`
}
