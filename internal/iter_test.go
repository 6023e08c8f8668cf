package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int{"a": 1}
	second := map[string]int{"b": 2}

	got := maps.Collect(IterSeq2Concat(maps.All(first), maps.All(second)))
	assert.Equal(map[string]int{"a": 1, "b": 2}, got)

	count := 0
	for range IterSeq2Concat(maps.All(first), maps.All(second)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Map(t *testing.T) {
	assert := assert.New(t)

	values := []uint16{1, 2, 3}
	seq := IterSeq2Map(slices.All(values), func(v uint16) int64 { return int64(v) * 10 })

	var keys []int
	var got []int64
	for key, value := range seq {
		keys = append(keys, key)
		got = append(got, value)
	}
	assert.Equal([]int{0, 1, 2}, keys)
	assert.Equal([]int64{10, 20, 30}, got)
}
