package combat

// InitiationStatus is the transient progress of one combat initiation run
type InitiationStatus struct {
	Active    bool   `json:"active"`
	Step      string `json:"step"`
	Progress  int    `json:"progress"`
	Narrative string `json:"narrative,omitempty"`
}

// Message authors
const (
	AuthorSystem   = "system"
	AuthorNarrator = "narrator"
)

// Message is a line appended to the encounter log
type Message struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}
