package site

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(title string, date time.Time) *Document {
	return &Document{Title: title, Date: date, HasDate: true}
}

func TestPaginate(t *testing.T) {
	posts := make([]*Document, 7)
	for i := range posts {
		posts[i] = doc(fmt.Sprintf("p%d", i), time.Now())
	}

	chunks := paginate(posts, 3)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Posts, 3)
	assert.Len(t, chunks[1].Posts, 3)
	assert.Len(t, chunks[2].Posts, 1)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Number)
		assert.Equal(t, 3, chunk.Total)
	}
}

func TestPaginateExactMultiple(t *testing.T) {
	posts := make([]*Document, 6)
	for i := range posts {
		posts[i] = doc(fmt.Sprintf("p%d", i), time.Now())
	}
	chunks := paginate(posts, 3)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[1].Posts, 3)
}

func TestPaginateEmptyYieldsOneChunk(t *testing.T) {
	chunks := paginate(nil, 10)
	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].Posts)
	assert.Equal(t, 1, chunks[0].Total)
}

func TestGroupByMonthContiguousRuns(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	posts := []*Document{
		doc("feb-1", feb),
		doc("jan-1", jan),
		doc("jan-2", jan.AddDate(0, 0, 1)),
	}

	buckets := groupByMonth(posts)
	require.Len(t, buckets, 2)
	assert.Equal(t, time.February, buckets[0].Month)
	assert.Len(t, buckets[0].Posts, 1)
	assert.Equal(t, time.January, buckets[1].Month)
	assert.Len(t, buckets[1].Posts, 2)
	assert.Equal(t, "January 2024", buckets[1].Label())
}

// A month key reappearing after a different month must stay a separate
// bucket; merging would change the archive layout downstream.
func TestGroupByMonthKeepsNonContiguousRunsSeparate(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	posts := []*Document{doc("a", jan), doc("b", feb), doc("c", jan)}

	buckets := groupByMonth(posts)
	require.Len(t, buckets, 3)
	assert.Equal(t, time.January, buckets[0].Month)
	assert.Equal(t, time.February, buckets[1].Month)
	assert.Equal(t, time.January, buckets[2].Month)
}

func TestGroupByMonthEmpty(t *testing.T) {
	assert.Empty(t, groupByMonth(nil))
}

func TestIndexFileName(t *testing.T) {
	assert.Equal(t, "index.html", indexFileName(0))
	assert.Equal(t, "index1.html", indexFileName(1))
	assert.Equal(t, "index7.html", indexFileName(7))
}
