package entity

import "errors"

const DefaultPlayerName = "anonymous"

var ErrEmptyPiece = errors.New("player piece must not be empty")

type Player struct {
	piece Mark
	name  string
}

func NewPlayer(piece Mark, name string) (*Player, error) {
	if piece.IsEmpty() {
		return nil, ErrEmptyPiece
	}

	player := &Player{piece: piece}
	player.Rename(name)

	return player, nil
}

func (that *Player) Piece() Mark {
	return that.piece
}

func (that *Player) Name() string {
	return that.name
}

// Rename changes the display name. An empty name falls back to DefaultPlayerName.
func (that *Player) Rename(name string) {
	if name == "" {
		name = DefaultPlayerName
	}

	that.name = name
}
