package session

// controlMessage is a client→server text frame. Unrecognized events
// are ignored; the session keeps running.
type controlMessage struct {
	Event      string `json:"event"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Lang       string `json:"lang,omitempty"`
	Value      string `json:"value,omitempty"`
}

// readyEvent acknowledges a "start" control message.
type readyEvent struct {
	Event string `json:"event"`
}

// finalEvent carries one emitted utterance to the client. T is seconds
// since session start, or null for the flush on stop/disconnect.
type finalEvent struct {
	Event string   `json:"event"`
	Text  string   `json:"text"`
	T     *float64 `json:"t"`
}
