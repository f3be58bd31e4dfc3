package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestSeasonRank(t *testing.T) {
	assert.Equal(t, 0, SeasonRank(ptr("Launch")))
	assert.Equal(t, 3, SeasonRank(ptr("Season 3")))
	assert.Equal(t, 12, SeasonRank(ptr("season12 reloaded")))
	assert.Equal(t, 9999, SeasonRank(ptr("Unreleased")))
	assert.Equal(t, 9999, SeasonRank(nil))
}

func TestBadgeForPrestige(t *testing.T) {
	assert.Equal(t, "Prestige not set", BadgeForPrestige(nil).Label)
	assert.Equal(t, PrestigeBadge{Label: "Prestige 0"}, BadgeForPrestige(ptr(0)))

	b := BadgeForPrestige(ptr(7))
	assert.Equal(t, "Prestige 7", b.Label)
	assert.Equal(t, "prestige/prestige7.png", b.Asset)

	master := BadgeForPrestige(ptr(MasterPrestige))
	assert.True(t, master.Master)
	assert.Equal(t, "Prestige Master", master.Label)
}

func TestPrestigeTierLabel(t *testing.T) {
	assert.Equal(t, "Prestige Master Levels", PrestigeTierLabel("master150"))
	assert.Equal(t, "Prestige Legend", PrestigeTierLabel("LEGEND250"))
	assert.Equal(t, "master all", PrestigeTierLabel("master-all"))
}

func TestActivisionID(t *testing.T) {
	name, tag := SplitActivisionID(ptr("Ghost#1234567"))
	assert.Equal(t, "Ghost", name)
	assert.Equal(t, "1234567", tag)

	assert.Nil(t, JoinActivisionID("Ghost", ""))
	assert.Equal(t, "Ghost#1234567", *JoinActivisionID("Ghost", "1234567"))
}

func TestParseGamemode(t *testing.T) {
	m, err := ParseGamemode("ZM")
	assert.NoError(t, err)
	assert.Equal(t, GamemodeZombies, m)

	m, err = ParseGamemode("")
	assert.NoError(t, err)
	assert.Equal(t, GamemodeMultiplayer, m)

	_, err = ParseGamemode("br")
	assert.ErrorIs(t, err, ErrUnknownGamemode)
}

func TestOpticRange(t *testing.T) {
	assert.Equal(t, RangeMedium, (&Optic{}).Range())
	assert.Equal(t, RangeLong, (&Optic{RangeCategory: ptr("Long")}).Range())
	assert.Equal(t, RangeMedium, (&Optic{RangeCategory: ptr("huge")}).Range())
}
