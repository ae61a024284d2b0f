package domain

import "fmt"

// messageTemplate poses the question. Its two %s verbs take the names in display order.
const messageTemplate = `One of these two is a real life recording artist, and one was generated by a neural network:

%s or %s

- which one is real?? Reply with your guess.`

// Message is a composed post. It is never persisted.
type Message struct {
	// Real is the name drawn from the real corpus
	Real string

	// Fake is the name drawn from the generated pool
	Fake string

	// RealFirst reports whether the real name occupies the first slot
	RealFirst bool
}

// NewMessage builds a Message. The caller decides the slot order.
func NewMessage(realName, fakeName string, realFirst bool) Message {
	return Message{Real: realName, Fake: fakeName, RealFirst: realFirst}
}

// Slots returns the names in display order.
func (m Message) Slots() (first, second string) {
	if m.RealFirst {
		return m.Real, m.Fake
	}
	return m.Fake, m.Real
}

// Text renders the message body.
func (m Message) Text() string {
	first, second := m.Slots()
	return fmt.Sprintf(messageTemplate, first, second)
}
