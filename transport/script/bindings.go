package script

import (
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

type session struct {
	logger *slog.Logger
	uGame  uGame
	gameID string
}

func (that *session) register(state *lua.LState) {
	game := state.NewTable()
	state.SetFuncs(game, map[string]lua.LGFunction{
		"move":       that.move,
		"outcome":    that.outcome,
		"winner":     that.winner,
		"filled":     that.filled,
		"running":    that.running,
		"status":     that.status,
		"turn":       that.turn,
		"restart":    that.restart,
		"rename":     that.rename,
		"player":     that.player,
		"piece":      that.piece,
		"dimensions": that.dimensions,
		"board":      that.board,
		"tally":      that.tally,
		"log":        that.log,
	})
	state.SetGlobal("game", game)
}

func (that *session) match(state *lua.LState) *tictactoe.Match {
	match, err := that.uGame.GetGame(state.Context(), that.gameID)
	if err != nil {
		state.RaiseError("%s", err.Error())
	}

	return match
}

// game.move(row, column) -> true | false, message
func (that *session) move(state *lua.LState) int {
	row, column := state.CheckInt(1), state.CheckInt(2)

	if _, err := that.uGame.MakeMove(state.Context(), that.gameID, row, column); err != nil {
		that.logger.Debug("script move refused", "row", row, "column", column, "error", err)
		state.Push(lua.LFalse)
		state.Push(lua.LString(err.Error()))
		return 2
	}

	state.Push(lua.LTrue)
	return 1
}

// game.outcome() -> {piece, row, column, direction, run_length} | nil
func (that *session) outcome(state *lua.LState) int {
	outcome := that.match(state).Engine.ComputeOutcome()
	if !outcome.IsWin() {
		state.Push(lua.LNil)
		return 1
	}

	result := state.NewTable()
	result.RawSetString("piece", lua.LString(outcome.Piece))
	result.RawSetString("row", lua.LNumber(outcome.Row))
	result.RawSetString("column", lua.LNumber(outcome.Column))
	result.RawSetString("direction", lua.LString(outcome.Direction))
	result.RawSetString("run_length", lua.LNumber(outcome.RunLength))
	state.Push(result)

	return 1
}

// game.winner() -> number, piece, name | nil
func (that *session) winner(state *lua.LState) int {
	player, number, err := that.uGame.Winner(that.match(state))
	if err != nil {
		state.Push(lua.LNil)
		return 1
	}

	state.Push(lua.LNumber(number))
	state.Push(lua.LString(player.Piece()))
	state.Push(lua.LString(player.Name()))
	return 3
}

func (that *session) filled(state *lua.LState) int {
	state.Push(lua.LBool(that.match(state).Engine.IsBoardFilled()))
	return 1
}

func (that *session) running(state *lua.LState) int {
	state.Push(lua.LBool(that.match(state).Engine.IsRunning()))
	return 1
}

func (that *session) status(state *lua.LState) int {
	state.Push(lua.LString(that.match(state).Status))
	return 1
}

// game.turn() -> number, piece
func (that *session) turn(state *lua.LState) int {
	engine := that.match(state).Engine

	player, err := engine.CurrentPlayer()
	if err != nil {
		state.RaiseError("%s", err.Error())
		return 0
	}

	state.Push(lua.LNumber(engine.TurnIndex() + 1))
	state.Push(lua.LString(player.Piece()))
	return 2
}

func (that *session) restart(state *lua.LState) int {
	if _, err := that.uGame.Restart(state.Context(), that.gameID); err != nil {
		state.RaiseError("%s", err.Error())
	}

	return 0
}

// game.rename(number, name) -> true | false, message
func (that *session) rename(state *lua.LState) int {
	number, name := state.CheckInt(1), state.OptString(2, "")

	if _, err := that.uGame.RenamePlayer(state.Context(), that.gameID, number, name); err != nil {
		state.Push(lua.LFalse)
		state.Push(lua.LString(err.Error()))
		return 2
	}

	state.Push(lua.LTrue)
	return 1
}

// game.player(number) -> piece, name | nil
func (that *session) player(state *lua.LState) int {
	number := state.CheckInt(1)

	players := that.match(state).Engine.Players()
	if number < 1 || number > len(players) {
		state.Push(lua.LNil)
		return 1
	}

	player := players[number-1]
	state.Push(lua.LString(player.Piece()))
	state.Push(lua.LString(player.Name()))
	return 2
}

// game.piece(row, column) -> string, empty for a free or off-board cell
func (that *session) piece(state *lua.LState) int {
	row, column := state.CheckInt(1), state.CheckInt(2)

	state.Push(lua.LString(that.match(state).Engine.Board().Piece(row, column)))
	return 1
}

func (that *session) dimensions(state *lua.LState) int {
	rows, columns := that.match(state).Engine.Board().Dimensions()

	state.Push(lua.LNumber(rows))
	state.Push(lua.LNumber(columns))
	return 2
}

func (that *session) board(state *lua.LState) int {
	state.Push(lua.LString(that.match(state).Engine.Board().String()))
	return 1
}

// game.tally() -> {wins = {[piece] = n}, ties, rounds}
func (that *session) tally(state *lua.LState) int {
	match := that.match(state)

	wins := state.NewTable()
	for piece, count := range match.Wins {
		wins.RawSetString(string(piece), lua.LNumber(count))
	}

	result := state.NewTable()
	result.RawSetString("wins", wins)
	result.RawSetString("ties", lua.LNumber(match.Ties))
	result.RawSetString("rounds", lua.LNumber(match.Rounds))
	state.Push(result)

	return 1
}

func (that *session) log(state *lua.LState) int {
	that.logger.Info("script says", "message", state.CheckString(1))
	return 0
}
