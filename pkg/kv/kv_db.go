package kv

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"

	"github.com/dgraph-io/badger/v4"
	"github.com/uber/h3-go/v4"
)

var ErrEdgesNotFound = errors.New("edges not found")

const cellResolution = 9

// KVEdge is the disk-resident form of a road segment: just enough to find
// candidate edges near a coordinate when the in-memory index misses.
type KVEdge struct {
	CenterLoc    [2]float64
	FromVertexID int32
	ToVertexID   int32
	TagsRef      int32
}

type Graph interface {
	GetVertex(id int32) (datastructure.Coordinate, error)
	ForEachArc(fn func(from int32, edge datastructure.Edge))
}

// KVDB buckets road segments by h3 cell in badger so nearby-edge lookups
// survive process restarts without replaying the pbf file.
type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

// BuildH3IndexedEdges groups every stored segment by the h3 cell of its
// midpoint and writes the buckets in batches.
func (k *KVDB) BuildH3IndexedEdges(ctx context.Context, g Graph) error {
	log.Printf("creating & saving h3 indexed street to key-value db...")

	buckets := make(map[string][]KVEdge)
	var buildErr error
	g.ForEachArc(func(from int32, edge datastructure.Edge) {
		if !edge.Forward || buildErr != nil {
			return
		}

		fromCoord, err := g.GetVertex(from)
		if err != nil {
			buildErr = err
			return
		}
		toCoord, err := g.GetVertex(edge.To)
		if err != nil {
			buildErr = err
			return
		}

		centerLat := (fromCoord.Lat + toCoord.Lat) / 2
		centerLon := (fromCoord.Lon + toCoord.Lon) / 2
		cell := h3.LatLngToCell(h3.NewLatLng(centerLat, centerLon), cellResolution)

		buckets[cell.String()] = append(buckets[cell.String()], KVEdge{
			CenterLoc:    [2]float64{centerLat, centerLon},
			FromVertexID: from,
			ToVertexID:   edge.To,
			TagsRef:      edge.TagsRef,
		})
	})
	if buildErr != nil {
		return buildErr
	}

	batchSize := 1000
	batches := make([]batchData, 0, batchSize)
	for key, value := range buckets {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		batches = append(batches, batchData{
			key:   key,
			value: value,
		})
		if len(batches) == batchSize {
			if err := k.saveBatchEdges(ctx, batches); err != nil {
				return err
			}
			batches = make([]batchData, 0, batchSize)
		}
	}

	if len(batches) > 0 {
		if err := k.saveBatchEdges(ctx, batches); err != nil {
			return err
		}
	}

	log.Printf("creating & saving h3 indexed street to key-value db done...")
	return nil
}

type batchData struct {
	key   string
	value []KVEdge
}

func (k *KVDB) saveBatchEdges(ctx context.Context, batches []batchData) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, data := range batches {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		val, err := encodeEdges(data.value)
		if err != nil {
			return err
		}

		if err := batch.Set([]byte(data.key), val); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		log.Printf("error saving edges: %v", err)
		return err
	}
	return nil
}

func (k *KVDB) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

// GetNearestEdgesFromPointCoord reads the bucket of the query cell and widens
// the search ring by ring until something turns up.
func (k *KVDB) GetNearestEdgesFromPointCoord(lat, lon float64) ([]KVEdge, error) {
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lon), cellResolution)

	edges := []KVEdge{}
	val, err := k.get([]byte(cell.String()))
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, err
	}
	if err == nil {
		bucket, err := loadEdges(val)
		if err != nil {
			return nil, err
		}
		edges = append(edges, bucket...)
	}

	for lev := 1; lev <= 10 && len(edges) == 0; lev++ {
		cells := h3.GridDisk(cell, lev)
		for _, currCell := range cells {
			if currCell == cell {
				continue
			}
			val, err := k.get([]byte(currCell.String()))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			bucket, err := loadEdges(val)
			if err != nil {
				return nil, err
			}
			edges = append(edges, bucket...)
		}
	}

	if len(edges) == 0 {
		return nil, ErrEdgesNotFound
	}
	return edges, nil
}

func (k *KVDB) Close() {
	k.db.Close()
}
