package chat

import "github.com/monk-manager/monk/pkg/ai"

// History is the ordered conversation transcript for one session. Messages
// are only ever appended; past turns are never reordered or mutated. The
// session loop is the sole owner, so no locking is needed.
type History struct {
	msgs []ai.Message
}

// Append adds a message to the end of the transcript.
func (h *History) Append(role, content string) {
	h.msgs = append(h.msgs, ai.Message{Role: role, Content: content})
}

// Messages returns a copy of the transcript in turn order, safe to hand to
// an in-flight AI call while the session keeps appending.
func (h *History) Messages() []ai.Message {
	out := make([]ai.Message, len(h.msgs))
	copy(out, h.msgs)
	return out
}

// Len reports the number of recorded messages.
func (h *History) Len() int { return len(h.msgs) }
