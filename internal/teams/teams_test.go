package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsComplete(t *testing.T) {
	active := 0
	for _, team := range List() {
		if team.Active() {
			active++
		}
		assert.NotEmpty(t, team.PuckpediaSlug, team.ID)
		assert.Equal(t, team.ID, team.NHLAbbrev)
		assert.NotZero(t, team.InceptionYear, team.ID)
	}
	assert.Equal(t, 32, active)
}

func TestLookup(t *testing.T) {
	team, ok := Lookup("sea")
	require.True(t, ok)
	assert.Equal(t, "Seattle Kraken", team.FullName)

	_, ok = Lookup("XYZ")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "TOR", Resolve("tor", "VGK").ID)
	assert.Equal(t, "EDM", Resolve("XYZ", "EDM").ID)
	assert.Equal(t, DefaultTeamID, Resolve("", "").ID)
	assert.Equal(t, DefaultTeamID, Resolve("XYZ", "ABC").ID)
}

func TestListSortedByFullName(t *testing.T) {
	list := List()
	require.NotEmpty(t, list)
	assert.Equal(t, "Anaheim Ducks", list[0].FullName)
	assert.Equal(t, "Arizona Coyotes", list[1].FullName)
	assert.Equal(t, "Winnipeg Jets", list[len(list)-1].FullName)

	var montreal, nashville int
	for i, team := range list {
		switch team.ID {
		case "MTL":
			montreal = i
		case "NSH":
			nashville = i
		}
	}
	assert.Less(t, montreal, nashville, "accented names collate alphabetically")

	list[0].FullName = "mutated"
	assert.Equal(t, "Anaheim Ducks", List()[0].FullName)
}

func TestExistedIn(t *testing.T) {
	ari, ok := Lookup("ARI")
	require.True(t, ok)
	assert.False(t, ari.ExistedIn(2025), "ceased after 2023")
	assert.True(t, ari.ExistedIn(2022))
	assert.True(t, ari.ExistedIn(2023), "cessation year is inclusive")
	assert.False(t, ari.ExistedIn(2013))

	sea, _ := Lookup("SEA")
	assert.False(t, sea.ExistedIn(2020))
	assert.True(t, sea.ExistedIn(2021))

	uta, _ := Lookup("UTA")
	assert.False(t, uta.ExistedIn(2023))
	assert.True(t, uta.ExistedIn(2024))

	bos, _ := Lookup("BOS")
	assert.True(t, bos.ExistedIn(2000))
}

func TestExistedInWithoutInception(t *testing.T) {
	last := 1990
	team := Info{ID: "OLD", CessationYear: &last}
	assert.True(t, team.ExistedIn(1950))
	assert.False(t, team.ExistedIn(1991))
}
