package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

func encodeEdges(edges []KVEdge) ([]byte, error) {
	bb, err := binary.Marshal(edges)
	if err != nil {
		return nil, err
	}
	return compress(bb)
}

func loadEdges(bbCompressed []byte) ([]KVEdge, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var edges []KVEdge
	if err := binary.Unmarshal(bb, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}
