// Package persist implements the engine's save-game record (spec 6.4): a single fixed-size
// structure plus a whole-record CRC-32, written and read atomically -- there is no partial
// update, so a load either recovers the exact state of the last successful save or is
// treated as empty.
package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/config"
)

// MaxMoveHistory bounds the move list embedded in a record, matching board.MaxStackDepth so
// a record can always hold a full game.
const MaxMoveHistory = board.MaxStackDepth

// GameState is the full state a save restores: configuration, PRNG state, autosave flag,
// time-keeping snapshot and the complete move history (menu/HMI sub-states are the host
// application's concern and are not modeled here).
type GameState struct {
	Config       config.Word
	PRNGState    uint64
	Autosave     bool
	WhiteMillis  uint32
	BlackMillis  uint32
	Moves        []board.Move
}

// Record is the on-disk layout: the game state plus a CRC-32 computed over it.
type Record struct {
	Game GameState
	CRC  uint32
}

// Encode serializes state into a Record ready to write, with CRC already computed.
func Encode(state GameState) Record {
	return Record{Game: state, CRC: crc32.ChecksumIEEE(encodeGame(state))}
}

// Marshal renders a Record into its fixed-size wire form: config word, PRNG state, autosave
// flag, clock snapshot, a move-count-prefixed move list zero-padded to MaxMoveHistory, then
// the trailing CRC-32. The padding keeps every record the same size regardless of game
// length.
func (r Record) Marshal() []byte {
	body := encodeGame(r.Game)
	var buf bytes.Buffer
	buf.Write(body)
	_ = binary.Write(&buf, binary.BigEndian, r.CRC)
	return buf.Bytes()
}

// Unmarshal parses buf into a Record and verifies its CRC-32 over the embedded game state.
// On mismatch it returns ok=false and the caller must treat the save as empty -- there is no
// partial recovery.
func Unmarshal(buf []byte) (Record, bool) {
	if len(buf) < 4 {
		return Record{}, false
	}
	body, tail := buf[:len(buf)-4], buf[len(buf)-4:]
	crc := binary.BigEndian.Uint32(tail)

	game, err := decodeGame(body)
	if err != nil {
		return Record{}, false
	}
	if crc32.ChecksumIEEE(body) != crc {
		return Record{}, false
	}
	return Record{Game: game, CRC: crc}, true
}

func encodeGame(g GameState) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, g.Config.Pack())
	_ = binary.Write(&buf, binary.BigEndian, g.PRNGState)
	if g.Autosave {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	_ = binary.Write(&buf, binary.BigEndian, g.WhiteMillis)
	_ = binary.Write(&buf, binary.BigEndian, g.BlackMillis)

	n := len(g.Moves)
	if n > MaxMoveHistory {
		n = MaxMoveHistory
	}
	_ = binary.Write(&buf, binary.BigEndian, uint32(n))
	for i := 0; i < n; i++ {
		_ = binary.Write(&buf, binary.BigEndian, uint16(g.Moves[i].Compress()))
	}
	for i := n; i < MaxMoveHistory; i++ {
		_ = binary.Write(&buf, binary.BigEndian, uint16(0))
	}
	return buf.Bytes()
}

func decodeGame(body []byte) (GameState, error) {
	r := bytes.NewReader(body)

	var word uint64
	if err := binary.Read(r, binary.BigEndian, &word); err != nil {
		return GameState{}, err
	}
	cfg, ok := config.Unpack(word)
	if !ok {
		return GameState{}, fmt.Errorf("incompatible configuration version")
	}

	var g GameState
	g.Config = cfg

	if err := binary.Read(r, binary.BigEndian, &g.PRNGState); err != nil {
		return GameState{}, err
	}
	autosave, err := r.ReadByte()
	if err != nil {
		return GameState{}, err
	}
	g.Autosave = autosave != 0

	if err := binary.Read(r, binary.BigEndian, &g.WhiteMillis); err != nil {
		return GameState{}, err
	}
	if err := binary.Read(r, binary.BigEndian, &g.BlackMillis); err != nil {
		return GameState{}, err
	}

	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return GameState{}, err
	}
	if n > MaxMoveHistory {
		return GameState{}, fmt.Errorf("move history too long: %v", n)
	}
	g.Moves = make([]board.Move, n)
	for i := range g.Moves {
		var packed uint16
		if err := binary.Read(r, binary.BigEndian, &packed); err != nil {
			return GameState{}, err
		}
		g.Moves[i] = board.CompressedMove(packed).Decompress()
	}
	return g, nil
}
