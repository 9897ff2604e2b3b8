package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCatalog(t *testing.T) {
	catalog := NewStatusCatalog([]Status{
		{ID: StatusPending, Name: "Pending"},
		{ID: StatusValidated, Name: "Validated"},
		{ID: StatusRejected, Name: "Rejected"},
	})

	assert.Equal(t, "Pending", catalog.Name(StatusPending))
	assert.Equal(t, "Validated", catalog.Name(StatusValidated))
	assert.Equal(t, "Rejected", catalog.Name(StatusRejected))

	// Codes 3 and 4 are reserved, not seeded.
	assert.False(t, catalog.Contains(3))
	assert.False(t, catalog.Contains(4))
	assert.Equal(t, "", catalog.Name(4))

	all := catalog.All()
	assert.Len(t, all, 3)
	assert.Equal(t, []Status{
		{ID: 1, Name: "Pending"},
		{ID: 2, Name: "Validated"},
		{ID: 5, Name: "Rejected"},
	}, all)
}

func TestStatusCatalogOpenEnumeration(t *testing.T) {
	// A catalog with an extra intermediate stage works without code changes.
	catalog := NewStatusCatalog([]Status{
		{ID: 1, Name: "Pending"},
		{ID: 3, Name: "Under Review"},
	})

	assert.True(t, catalog.Contains(3))
	assert.Equal(t, "Under Review", catalog.Name(3))
}
