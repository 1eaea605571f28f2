// Package messaging defines the packets that travel through the on-chip
// network.
package messaging

import (
	"fmt"

	"github.com/sarchlab/nocsim/sim"
)

// A Coord is the (row, column) address of a processing element.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Index returns the row-major index of the coordinate in a grid with the
// given number of columns.
func (c Coord) Index(cols int) int {
	return c.Row*cols + c.Col
}

// InGrid tells if the coordinate lies inside a rows x cols grid.
func (c Coord) InGrid(rows, cols int) bool {
	return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < cols
}

// CoordOf is the inverse of Coord.Index.
func CoordOf(index, cols int) Coord {
	return Coord{Row: index / cols, Col: index % cols}
}

// PacketKind tells what a packet carries.
type PacketKind int

// The kinds of packets exchanged by the remote access protocol.
const (
	WriteRequest PacketKind = iota
	ReadRequest
	ReadResponse
)

func (k PacketKind) String() string {
	switch k {
	case WriteRequest:
		return "WriteRequest"
	case ReadRequest:
		return "ReadRequest"
	case ReadResponse:
		return "ReadResponse"
	default:
		return fmt.Sprintf("PacketKind(%d)", int(k))
	}
}

// A Packet is one network transaction unit.
type Packet struct {
	ID   string
	Src  Coord
	Dst  Coord
	Kind PacketKind

	// CorrelationID is the transaction ID shared by the fragments of a write
	// or the ID that pairs a read request with its responses.
	CorrelationID uint64

	FragmentIndex int

	// FragmentCount is the number of fragments of the transaction. Write
	// fragments only carry it on fragment 0. Read requests carry the number
	// of response fragments requested.
	FragmentCount int

	// Size is the number of payload bytes in this fragment.
	Size int

	LabelID  int
	Priority int

	InjectTime  sim.VTimeInPs
	DeliverTime sim.VTimeInPs
}

func (p *Packet) String() string {
	return fmt.Sprintf("%s[%s %s->%s tx=%d frag=%d/%d]",
		p.ID, p.Kind, p.Src, p.Dst,
		p.CorrelationID, p.FragmentIndex, p.FragmentCount)
}

// Latency returns how long the packet spent in the network.
func (p *Packet) Latency() sim.VTimeInPs {
	return p.DeliverTime - p.InjectTime
}
