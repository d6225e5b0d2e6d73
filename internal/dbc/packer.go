package dbc

import (
	"fmt"

	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
)

// Packer turns outbound messages into frames. Messages that carry no explicit
// counter get one from the packer's own per-address sequence.
type Packer struct {
	dbc      *DBC
	counters map[uint32]int
}

func NewPacker(d *DBC) *Packer {
	return &Packer{
		dbc:      d,
		counters: make(map[uint32]int),
	}
}

func (p *Packer) Pack(msg models.CanMessage) (vehicle.BusFrame, error) {
	def, err := p.lookup(msg)
	if err != nil {
		return vehicle.BusFrame{}, err
	}

	var word uint64
	for name, value := range msg.Values {
		sig, ok := def.Signal(name)
		if !ok {
			return vehicle.BusFrame{}, fmt.Errorf("%w: %s.%s", ErrUnknownSignal, def.Name, name)
		}
		word = sig.Encode(word, value)
	}

	if counter, ok := def.Signal(SignalCounter); ok {
		if _, set := msg.Values[SignalCounter]; !set {
			next := p.counters[def.Address]
			word = counter.Encode(word, float64(next))
			p.counters[def.Address] = (next + 1) % (1 << counter.Size)
		}
	}

	data := bytesFromWord(word)
	if checksum, ok := p.dbc.computeChecksum(def, data[:def.Size]); ok {
		sig, _ := def.Signal(SignalChecksum)
		word = sig.Encode(word, float64(checksum))
		data = bytesFromWord(word)
	}

	return vehicle.BusFrame{
		Bus: msg.Bus,
		Frame: can.Frame{
			ID:     def.Address,
			Length: def.Size,
			Data:   data,
		},
	}, nil
}

func (p *Packer) PackMany(msgs []models.CanMessage) ([]vehicle.BusFrame, error) {
	frames := make([]vehicle.BusFrame, 0, len(msgs))
	for i := range msgs {
		frame, err := p.Pack(msgs[i])
		if err != nil {
			return frames, fmt.Errorf("failed packing %s: %w", msgs[i].Name, err)
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

func (p *Packer) lookup(msg models.CanMessage) (*Message, error) {
	if msg.Name != "" {
		return p.dbc.Message(msg.Name)
	}
	def, ok := p.dbc.MessageByAddress(msg.Address)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%X in %s", ErrUnknownMessage, msg.Address, p.dbc.Name)
	}
	return def, nil
}
