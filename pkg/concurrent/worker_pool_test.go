package concurrent

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolProcessesAllJobs(t *testing.T) {
	pool := NewWorkerPool[[]int32, int32](4, 16)
	for i := 0; i < 16; i++ {
		pool.AddJob([]int32{int32(i), int32(i)})
	}
	pool.Close()
	pool.Start(func(job []int32) int32 {
		return job[0] + job[1]
	})
	pool.Wait()

	got := make([]int32, 0, 16)
	for res := range pool.CollectResults() {
		got = append(got, res)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	assert.Len(t, got, 16)
	for i, v := range got {
		assert.Equal(t, int32(2*i), v)
	}
}

func TestWorkerPoolMoreJobsThanWorkers(t *testing.T) {
	pool := NewWorkerPool[[]int32, int32](2, 100)
	for i := 0; i < 100; i++ {
		pool.AddJob([]int32{int32(i)})
	}
	pool.Close()
	pool.Start(func(job []int32) int32 { return job[0] })
	pool.Wait()

	count := 0
	for range pool.CollectResults() {
		count++
	}
	assert.Equal(t, 100, count)
}
