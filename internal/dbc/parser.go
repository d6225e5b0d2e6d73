package dbc

import (
	"fmt"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/brutella/can"
)

const (
	// A message times out after this many expected periods without a frame.
	timeoutPeriods = 10
	maxBadCounter  = 5
)

// MessageCheck names a message to parse and its expected rate. A zero
// frequency parses the message without a timeout check.
type MessageCheck struct {
	Name      string
	Frequency float64
}

type messageState struct {
	msg       *Message
	values    models.SourceMessage
	threshold time.Duration

	seen        bool
	lastSeen    time.Duration
	counter     int64
	counterFail int
}

// Parser decodes the frames of one bus and tracks whether the checked messages
// are arriving on time with good checksums and counters.
type Parser struct {
	dbc    *DBC
	states map[uint32]*messageState
	order  []uint32

	lastMonoTime time.Duration
	canValid     bool
}

func NewParser(d *DBC, checks []MessageCheck) (*Parser, error) {
	p := &Parser{
		dbc:    d,
		states: make(map[uint32]*messageState, len(checks)),
	}
	for _, check := range checks {
		msg, err := d.Message(check.Name)
		if err != nil {
			return nil, fmt.Errorf("failed building parser: %w", err)
		}
		state := &messageState{
			msg:    msg,
			values: make(models.SourceMessage, len(msg.Signals)),
		}
		if check.Frequency > 0 {
			state.threshold = time.Duration(float64(time.Second)/check.Frequency) * timeoutPeriods
		}
		for _, sig := range msg.Signals {
			state.values[sig.Name] = 0
		}
		p.states[msg.Address] = state
		p.order = append(p.order, msg.Address)
	}
	return p, nil
}

// Update decodes a batch of frames and returns the addresses that received a
// good frame, in first-arrival order.
func (p *Parser) Update(monoTime time.Duration, frames []can.Frame) []uint32 {
	p.lastMonoTime = monoTime

	updated := make([]uint32, 0, len(frames))
	seen := make(map[uint32]bool, len(frames))
	for i := range frames {
		state, ok := p.states[frames[i].ID]
		if !ok {
			continue
		}
		if !p.decode(state, monoTime, frames[i]) {
			continue
		}
		if !seen[frames[i].ID] {
			seen[frames[i].ID] = true
			updated = append(updated, frames[i].ID)
		}
	}

	p.canValid = p.checkValid(monoTime)
	return updated
}

func (p *Parser) decode(state *messageState, monoTime time.Duration, frame can.Frame) bool {
	length := int(frame.Length)
	if length > len(frame.Data) {
		length = len(frame.Data)
	}
	data := frame.Data[:length]
	word := wordFromBytes(data)

	if sig, ok := state.msg.Signal(SignalChecksum); ok {
		expected, ok := p.dbc.computeChecksum(state.msg, data)
		if ok && int64(expected) != sig.Raw(word) {
			return false
		}
	}

	if sig, ok := state.msg.Signal(SignalCounter); ok {
		counter := sig.Raw(word)
		if state.seen && counter != (state.counter+1)%(int64(1)<<sig.Size) {
			if state.counterFail < maxBadCounter {
				state.counterFail++
			}
		} else if state.counterFail > 0 {
			state.counterFail--
		}
		state.counter = counter
	}

	for i := range state.msg.Signals {
		state.values[state.msg.Signals[i].Name] = state.msg.Signals[i].Decode(word)
	}
	state.seen = true
	state.lastSeen = monoTime
	return true
}

func (p *Parser) checkValid(monoTime time.Duration) bool {
	for _, address := range p.order {
		state := p.states[address]
		if state.threshold == 0 {
			continue
		}
		if !state.seen || monoTime-state.lastSeen > state.threshold {
			return false
		}
		if state.counterFail >= maxBadCounter {
			return false
		}
	}
	return true
}

// CanValid reports whether every checked message was on time at the last update.
func (p *Parser) CanValid() bool {
	return p.canValid
}

// Values returns a copy of the last decoded values of a message. Messages the
// parser does not track return nil.
func (p *Parser) Values(name string) models.SourceMessage {
	msg, err := p.dbc.Message(name)
	if err != nil {
		return nil
	}
	state, ok := p.states[msg.Address]
	if !ok {
		return nil
	}
	return state.values.Copy()
}

// Seen reports whether a good frame of the message has arrived at least once.
func (p *Parser) Seen(name string) bool {
	msg, err := p.dbc.Message(name)
	if err != nil {
		return false
	}
	state, ok := p.states[msg.Address]
	return ok && state.seen
}
