// Package ans provides entropy coding using rANS (range Asymmetric
// Numeral Systems), the final stage behind pkg/compress's Unzlate
// method: a byte-pair-encoded token stream still carries a skewed
// byte-frequency distribution, which rANS squeezes further.
package ans

import (
	"encoding/binary"
	"errors"
)

const (
	ProbBits  = 14
	ProbScale = 1 << ProbBits
	RansL     = 1 << 23
)

var (
	ErrEmpty     = errors.New("ans: empty input")
	ErrCorrupted = errors.New("ans: corrupted data")
)

// Symbol holds one byte value's frequency information.
type Symbol struct {
	CumFreq uint32
	Freq    uint32
}

// SymbolTable holds encode/decode tables for all 256 byte values.
type SymbolTable struct {
	Symbols  [256]Symbol
	CumToSym [ProbScale]uint16
}

// BuildTable normalizes byte-frequency counts to ProbScale and builds
// the cumulative-frequency lookup table rANS needs for both directions.
func BuildTable(counts []uint32) *SymbolTable {
	tab := &SymbolTable{}

	var total uint64
	for _, c := range counts {
		total += uint64(c)
	}
	if total == 0 {
		tab.Symbols[0] = Symbol{Freq: ProbScale}
		return tab
	}

	var normalized [256]uint32
	var normTotal uint32
	for i, c := range counts {
		if c == 0 {
			continue
		}
		n := uint32((uint64(c) * ProbScale) / total)
		if n == 0 {
			n = 1
		}
		normalized[i] = n
		normTotal += n
	}

	// Rounding during normalization can drift the total off ProbScale;
	// absorb the drift into whichever symbol is already the largest.
	if normTotal != ProbScale {
		maxIdx := 0
		for i, n := range normalized {
			if n > normalized[maxIdx] {
				maxIdx = i
			}
		}
		if normTotal > ProbScale {
			normalized[maxIdx] -= normTotal - ProbScale
		} else {
			normalized[maxIdx] += ProbScale - normTotal
		}
	}

	var cumFreq uint32
	for i, n := range normalized {
		tab.Symbols[i] = Symbol{CumFreq: cumFreq, Freq: n}
		for j := uint32(0); j < n; j++ {
			tab.CumToSym[cumFreq+j] = uint16(i)
		}
		cumFreq += n
	}

	return tab
}

// Encoder encodes symbols into a rANS bitstream, most-recent-first;
// callers must feed symbols in reverse order so Finish's output reads
// forward during decoding.
type Encoder struct {
	state  uint32
	output []byte
}

func NewEncoder() *Encoder {
	return &Encoder{state: RansL}
}

// Encode folds one symbol into the encoder's state.
func (e *Encoder) Encode(sym byte, tab *SymbolTable) {
	s := &tab.Symbols[sym]
	if s.Freq == 0 {
		return
	}

	maxState := ((RansL >> ProbBits) << 8) * s.Freq
	for e.state >= maxState {
		e.output = append(e.output, byte(e.state))
		e.state >>= 8
	}

	e.state = ((e.state / s.Freq) << ProbBits) + s.CumFreq + (e.state % s.Freq)
}

// Finish flushes the final state and returns the complete bitstream.
func (e *Encoder) Finish() []byte {
	stateBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(stateBytes, e.state)

	for i, j := 0, len(e.output)-1; i < j; i, j = i+1, j-1 {
		e.output[i], e.output[j] = e.output[j], e.output[i]
	}

	result := make([]byte, 4+len(e.output))
	copy(result[:4], stateBytes)
	copy(result[4:], e.output)
	return result
}

// Decoder decodes symbols from a rANS bitstream produced by Encoder.
type Decoder struct {
	state uint32
	data  []byte
	pos   int
}

func NewDecoder(data []byte) (*Decoder, error) {
	if len(data) < 4 {
		return nil, ErrCorrupted
	}
	return &Decoder{state: binary.LittleEndian.Uint32(data[:4]), data: data, pos: 4}, nil
}

// Decode extracts the next symbol. Symbols come out in the reverse of
// the order they were passed to Encoder.Encode.
func (d *Decoder) Decode(tab *SymbolTable) byte {
	cumFreq := d.state & (ProbScale - 1)
	sym := tab.CumToSym[cumFreq]
	s := &tab.Symbols[sym]

	d.state = s.Freq*(d.state>>ProbBits) + cumFreq - s.CumFreq

	for d.state < RansL && d.pos < len(d.data) {
		d.state = (d.state << 8) | uint32(d.data[d.pos])
		d.pos++
	}

	return byte(sym)
}

// Compress rANS-encodes data, storing the byte-frequency table
// alongside the bitstream so Decompress is self-contained.
func Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{0, 0, 0, 0}, nil
	}

	counts := make([]uint32, 256)
	for _, b := range data {
		counts[b]++
	}
	tab := BuildTable(counts)

	enc := NewEncoder()
	for i := len(data) - 1; i >= 0; i-- {
		enc.Encode(data[i], tab)
	}
	compressed := enc.Finish()

	// layout: origLen(4) | freq table (256 * uint16) | bitstream
	output := make([]byte, 4+256*2+len(compressed))
	binary.LittleEndian.PutUint32(output[:4], uint32(len(data)))
	for i := 0; i < 256; i++ {
		binary.LittleEndian.PutUint16(output[4+i*2:], uint16(tab.Symbols[i].Freq))
	}
	copy(output[4+256*2:], compressed)

	return output, nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, ErrCorrupted
	}

	origLen := int(binary.LittleEndian.Uint32(data[:4]))
	if origLen == 0 {
		return []byte{}, nil
	}
	if len(data) < 4+256*2+4 {
		return nil, ErrCorrupted
	}

	counts := make([]uint32, 256)
	for i := 0; i < 256; i++ {
		counts[i] = uint32(binary.LittleEndian.Uint16(data[4+i*2:]))
	}
	tab := BuildTable(counts)

	dec, err := NewDecoder(data[4+256*2:])
	if err != nil {
		return nil, err
	}

	output := make([]byte, origLen)
	for i := 0; i < origLen; i++ {
		output[i] = dec.Decode(tab)
	}

	return output, nil
}
