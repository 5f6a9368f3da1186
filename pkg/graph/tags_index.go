package graph

import (
	"errors"
	"sort"
	"strings"

	"github.com/paulmach/osm"
)

var ErrTagsNotFound = errors.New("tags reference not found in index")

// TagsIndex interns edge tag sets. Ways share their tag collection across all
// of their segments, so edges store a small int32 reference instead of the
// collection itself.
type TagsIndex struct {
	tags   []osm.Tags
	lookup map[string]int32
}

func NewTagsIndex() *TagsIndex {
	return &TagsIndex{
		tags:   make([]osm.Tags, 0),
		lookup: make(map[string]int32),
	}
}

// Put returns the reference of an equal tag set already in the index, or
// stores the given one and returns its new reference.
func (ti *TagsIndex) Put(tags osm.Tags) int32 {
	key := tagsKey(tags)
	if ref, ok := ti.lookup[key]; ok {
		return ref
	}
	ref := int32(len(ti.tags))
	ti.tags = append(ti.tags, tags)
	ti.lookup[key] = ref
	return ref
}

func (ti *TagsIndex) Get(ref int32) (osm.Tags, error) {
	if ref < 0 || int(ref) >= len(ti.tags) {
		return nil, ErrTagsNotFound
	}
	return ti.tags[ref], nil
}

func (ti *TagsIndex) Len() int {
	return len(ti.tags)
}

func tagsKey(tags osm.Tags) string {
	pairs := make([]string, 0, len(tags))
	for _, tag := range tags {
		pairs = append(pairs, tag.Key+"="+tag.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\x00")
}
