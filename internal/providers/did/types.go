package did

// TalkScript is the narration part of a talk request.
type TalkScript struct {
	Type     string         `json:"type"`
	Input    string         `json:"input"`
	Provider ScriptProvider `json:"provider"`
}

// ScriptProvider selects the speech-synthesis backend and voice.
type ScriptProvider struct {
	Type    string `json:"type"`
	VoiceID string `json:"voice_id"`
}

// TalkConfig carries render options.
type TalkConfig struct {
	Stitch bool `json:"stitch"`
}

// TalkRequest is the body of POST /talks.
type TalkRequest struct {
	Script      TalkScript `json:"script"`
	Config      TalkConfig `json:"config"`
	PresenterID string     `json:"presenter_id"`
}

// Talk is the service's view of a render job. Status uses the external
// vocabulary (created/started/done/error plus anything the vendor adds);
// ResultURL is present once Status is "done".
type Talk struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url,omitempty"`
	Error     string `json:"error,omitempty"`
}
