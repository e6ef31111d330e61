package collector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/playground/collector"
)

func TestRingBuffer_Basic(t *testing.T) {
	rb := collector.NewRingBuffer[string](3)

	assert.Equal(t, 0, rb.Len())
	assert.Equal(t, 3, rb.Cap())
	assert.Empty(t, rb.Last(5))

	rb.Add("navigate")
	rb.Add("type")

	assert.Equal(t, 2, rb.Len())
	assert.Equal(t, []string{"navigate", "type"}, rb.All())
}

func TestRingBuffer_Overwrite(t *testing.T) {
	rb := collector.NewRingBuffer[int](3)

	for i := 1; i <= 5; i++ {
		rb.Add(i)
	}

	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []int{3, 4, 5}, rb.All())
}

func TestRingBuffer_Last(t *testing.T) {
	rb := collector.NewRingBuffer[int](4)

	for i := 1; i <= 6; i++ {
		rb.Add(i)
	}

	assert.Equal(t, []int{5, 6}, rb.Last(2))
	assert.Equal(t, []int{3, 4, 5, 6}, rb.Last(10))
	assert.Empty(t, rb.Last(0))
	assert.Empty(t, rb.Last(-1))
}

func TestRingBuffer_ZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() {
		collector.NewRingBuffer[int](0)
	})
}
