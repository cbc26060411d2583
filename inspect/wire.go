package inspect

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot wire format: a versioned CBOR envelope around the graph,
// encoded canonically so identical graphs produce identical bytes.

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

type snapshotEnvelope struct {
	Version int    `cbor:"1,keyasint"`
	Graph   *Graph `cbor:"2,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("inspect: failed to create CBOR encoding mode: %v", err))
	}
	cborEncMode = em
}

// MarshalSnapshot encodes a graph into snapshot bytes.
func MarshalSnapshot(g *Graph) ([]byte, error) {
	env := snapshotEnvelope{Version: SnapshotVersion, Graph: g}
	data, err := cborEncMode.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("inspect: marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes snapshot bytes and validates the graph's ID
// scheme before returning it.
func UnmarshalSnapshot(data []byte) (*Graph, error) {
	var env snapshotEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("inspect: unmarshal snapshot: %w", err)
	}
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("inspect: unsupported snapshot version %d", env.Version)
	}
	if env.Graph == nil {
		return nil, fmt.Errorf("inspect: snapshot carries no graph")
	}
	if err := env.Graph.validate(); err != nil {
		return nil, err
	}
	return env.Graph, nil
}

// WriteSnapshot writes a snapshot of the graph to w.
func WriteSnapshot(w io.Writer, g *Graph) error {
	data, err := MarshalSnapshot(g)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("inspect: write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot reads a single snapshot from r.
func ReadSnapshot(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inspect: read snapshot: %w", err)
	}
	return UnmarshalSnapshot(data)
}
