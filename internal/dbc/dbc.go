// Package dbc is the bus codec: message and signal tables for the supported
// electronics generations, a packer for outbound messages and a parser that
// tracks per-message validity.
//
// Signals use Intel (little-endian) bit numbering. A frame is read as a 64 bit
// little-endian word and a signal occupies Size bits starting at StartBit.
package dbc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Speshl/gorrc_subaru/internal/vehicle"
)

var (
	ErrUnknownMessage = errors.New("unknown message")
	ErrUnknownSignal  = errors.New("unknown signal")
)

const (
	SignalCounter  = "Counter"
	SignalChecksum = "Checksum"
)

type ChecksumType int

const (
	ChecksumNone ChecksumType = iota
	ChecksumSubaru
	ChecksumSubaruPreGlobal
)

type Signal struct {
	Name     string
	StartBit uint
	Size     uint
	Signed   bool
	Factor   float64
	Offset   float64
}

type Message struct {
	Name    string
	Address uint32
	Size    uint8
	Signals []Signal

	signalsByName map[string]*Signal
}

type DBC struct {
	Name     string
	Checksum ChecksumType

	messagesByName    map[string]*Message
	messagesByAddress map[uint32]*Message
}

func New(name string, checksum ChecksumType, messages []Message) *DBC {
	d := &DBC{
		Name:              name,
		Checksum:          checksum,
		messagesByName:    make(map[string]*Message, len(messages)),
		messagesByAddress: make(map[uint32]*Message, len(messages)),
	}
	for i := range messages {
		msg := messages[i]
		msg.signalsByName = make(map[string]*Signal, len(msg.Signals))
		for j := range msg.Signals {
			if msg.Signals[j].Factor == 0 {
				msg.Signals[j].Factor = 1
			}
			msg.signalsByName[msg.Signals[j].Name] = &msg.Signals[j]
		}
		d.messagesByName[msg.Name] = &msg
		d.messagesByAddress[msg.Address] = &msg
	}
	return d
}

// ForVariant selects the powertrain table for the vehicle generation.
func ForVariant(v vehicle.Variant) (*DBC, error) {
	switch v.Generation {
	case vehicle.GenerationGlobal:
		return Global, nil
	case vehicle.GenerationPreGlobal:
		return PreGlobal, nil
	}
	return nil, fmt.Errorf("no bus table for generation %s: %w", v.Generation, vehicle.ErrUnknownGeneration)
}

func (d *DBC) Message(name string) (*Message, error) {
	msg, ok := d.messagesByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnknownMessage, name, d.Name)
	}
	return msg, nil
}

func (d *DBC) MessageByAddress(address uint32) (*Message, bool) {
	msg, ok := d.messagesByAddress[address]
	return msg, ok
}

// Address resolves a message name, returning 0 when the table does not carry it.
func (d *DBC) Address(name string) uint32 {
	msg, ok := d.messagesByName[name]
	if !ok {
		return 0
	}
	return msg.Address
}

func (m *Message) Signal(name string) (*Signal, bool) {
	sig, ok := m.signalsByName[name]
	return sig, ok
}

func (s *Signal) mask() uint64 {
	if s.Size >= 64 {
		return math.MaxUint64
	}
	return (uint64(1) << s.Size) - 1
}

// Raw extracts the unscaled integer value of the signal.
func (s *Signal) Raw(word uint64) int64 {
	raw := (word >> s.StartBit) & s.mask()
	if s.Signed && s.Size < 64 && raw&(uint64(1)<<(s.Size-1)) != 0 {
		return int64(raw) - int64(uint64(1)<<s.Size)
	}
	return int64(raw)
}

func (s *Signal) Decode(word uint64) float64 {
	return float64(s.Raw(word))*s.Factor + s.Offset
}

// Encode writes the scaled value into word, saturating to the signal range.
func (s *Signal) Encode(word uint64, value float64) uint64 {
	raw := int64(math.Round((value - s.Offset) / s.Factor))
	if s.Signed {
		limit := int64(1) << (s.Size - 1)
		if raw > limit-1 {
			raw = limit - 1
		} else if raw < -limit {
			raw = -limit
		}
	} else if raw < 0 {
		raw = 0
	} else if uint64(raw) > s.mask() {
		raw = int64(s.mask())
	}

	word &^= s.mask() << s.StartBit
	word |= (uint64(raw) & s.mask()) << s.StartBit
	return word
}

func wordFromBytes(data []byte) uint64 {
	var buf [8]byte
	copy(buf[:], data)
	return binary.LittleEndian.Uint64(buf[:])
}

func bytesFromWord(word uint64) [8]byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], word)
	return buf
}
