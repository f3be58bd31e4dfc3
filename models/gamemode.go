package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownGamemode = errors.New("unknown gamemode")

// Gamemode partitions catalogs and progress.
type Gamemode string

const (
	GamemodeMultiplayer Gamemode = "mp"
	GamemodeZombies     Gamemode = "zm"
	GamemodeWarzone     Gamemode = "wz"
	GamemodeEndgame     Gamemode = "eg"
)

var gamemodeLabels = map[Gamemode]string{
	GamemodeMultiplayer: "Multiplayer",
	GamemodeZombies:     "Zombies",
	GamemodeWarzone:     "Warzone",
	GamemodeEndgame:     "Endgame",
}

// ParseGamemode accepts the short code in any case; empty means multiplayer.
func ParseGamemode(s string) (Gamemode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return GamemodeMultiplayer, nil
	}
	m := Gamemode(s)
	if _, ok := gamemodeLabels[m]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownGamemode, s)
	}
	return m, nil
}

func (m Gamemode) Label() string {
	return gamemodeLabels[m]
}
