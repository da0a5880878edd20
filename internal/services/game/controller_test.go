package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crosswordrobot/internal/dependencies/mocks"
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/move"
	"github.com/mcoot/crosswordrobot/internal/services/movegen"
	"github.com/mcoot/crosswordrobot/internal/services/scoring"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
	"github.com/mcoot/crosswordrobot/internal/storage/memory"
	"github.com/mcoot/crosswordrobot/internal/testutil"
	"github.com/mcoot/crosswordrobot/internal/tileset"
)

// tinyTiles deals T A C G to the first seat and D O O S to the second when
// the pile is left unshuffled
const tinyTiles = `
name: tiny
blanks: 0
letters:
  - {letter: S, count: 1, value: 1}
  - {letter: O, count: 2, value: 1}
  - {letter: D, count: 1, value: 2}
  - {letter: G, count: 1, value: 2}
  - {letter: C, count: 1, value: 3}
  - {letter: A, count: 1, value: 1}
  - {letter: T, count: 1, value: 1}
`

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.storage = memory.NewWithClock(s.clock)
	s.ctx = context.Background()

	tiny, err := tileset.Parse([]byte(tinyTiles))
	s.Require().NoError(err)
	cat, err := tileset.Parse([]byte("name: cat\nletters:\n  - {letter: C, count: 1, value: 3}\n  - {letter: A, count: 1, value: 1}\n  - {letter: T, count: 1, value: 1}\n"))
	s.Require().NoError(err)

	logger := testutil.NopLogger()
	dict := testutil.Dictionary(s.T())
	scorer := scoring.New(scoring.Config{})
	check := validator.New(dict, scorer)
	applier := move.New(check, scorer, logger)
	generator := movegen.New(dict, check, scorer, applier, logger)

	s.controller = NewController(s.storage, generator, applier, check, scorer, Config{
		HintTTL:  time.Minute,
		TileSets: []*tileset.TileSet{tiny, cat},
	}, s.clock, s.random, logger)
}

func (s *ControllerSuite) tinyGame(passes int) *model.Game {
	cfg := model.GameConfig{RackSize: 4, TileSet: "tiny", MaxConsecutivePasses: passes}
	game, err := s.controller.CreateGame(s.ctx, []PlayerSpec{{DisplayName: "Alice"}, {DisplayName: "Bob"}}, cfg)
	s.Require().NoError(err)
	return game
}

func catAt(row, col int, axis model.Axis, word string) model.Move {
	return model.Move{Row: row, Col: col, Axis: axis, Word: word}
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameDealsRacks() {
	game := s.tinyGame(2)

	s.Equal(model.GameStatePlaying, game.State)
	s.Equal(15, game.Config.BoardSize)
	s.Equal(model.TopologyBounded, game.Config.Topology)
	s.Require().Len(game.Players, 2)
	s.Equal("TACG", game.Players[0].Rack.String())
	s.Equal("DOOS", game.Players[1].Rack.String())
	s.Equal(0, game.Pile.Len())
	s.Equal(1, s.random.Shuffles)

	stored, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("Alice", stored.Players[0].Player.DisplayName)

	player, err := s.storage.GetPlayer(s.ctx, game.Players[1].Player.ID)
	s.Require().NoError(err)
	s.Equal("Bob", player.DisplayName)
}

func (s *ControllerSuite) TestCreateGamePrivateBoardsAndPiles() {
	cfg := model.GameConfig{
		Topology:  model.TopologyToroidal,
		BoardSize: 9,
		BoardMode: model.BoardModePrivate,
		PileMode:  model.PileModePrivate,
		RackSize:  4,
		TileSet:   "tiny",
	}
	game, err := s.controller.CreateGame(s.ctx, []PlayerSpec{{}, {Bot: true}}, cfg)
	s.Require().NoError(err)

	s.Nil(game.Board)
	s.Nil(game.Pile)
	for _, p := range game.Players {
		s.Require().NotNil(p.Board)
		s.Equal(model.TopologyToroidal, p.Board.Topology())
		s.Equal("TACG", p.Rack.String())
		s.Equal(4, p.Pile.Len())
	}
	s.Equal("Player 1", game.Players[0].Player.DisplayName)
	s.True(game.Players[1].Player.IsBot)
	s.Equal(model.BotStrategyBest, game.Players[1].Player.BotStrategy)
}

func (s *ControllerSuite) TestCreateGameAppliesBonusLayout() {
	game, err := s.controller.CreateGame(s.ctx, []PlayerSpec{{}}, model.GameConfig{BonusLayout: model.BonusLayoutClassic})
	s.Require().NoError(err)

	s.Equal(model.BonusLayoutClassic, game.Board.Layout())
	_, word := game.Board.Multipliers(model.Position{Row: 0, Col: 0})
	s.Equal(3, word)
}

func (s *ControllerSuite) TestCreateGameRejectsBadInput() {
	cases := map[string]struct {
		players []PlayerSpec
		cfg     model.GameConfig
		err     error
	}{
		"no players":     {nil, model.GameConfig{}, model.ErrInsufficientPlayers},
		"bad strategy":   {[]PlayerSpec{{Bot: true, Strategy: "genius"}}, model.GameConfig{}, model.ErrUnknownStrategy},
		"bad topology":   {[]PlayerSpec{{}}, model.GameConfig{Topology: "sphere"}, model.ErrInvalidGameConfig},
		"tiny board":     {[]PlayerSpec{{}}, model.GameConfig{BoardSize: 1}, model.ErrInvalidGameConfig},
		"unknown tiles":  {[]PlayerSpec{{}}, model.GameConfig{TileSet: "klingon"}, model.ErrInvalidGameConfig},
		"layout misfit":  {[]PlayerSpec{{}}, model.GameConfig{BoardSize: 11, BonusLayout: model.BonusLayoutClassic}, model.ErrUnknownBonusLayout},
		"bad board mode": {[]PlayerSpec{{}}, model.GameConfig{BoardMode: "split"}, model.ErrInvalidGameConfig},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			_, err := s.controller.CreateGame(s.ctx, tc.players, tc.cfg)
			s.ErrorIs(err, tc.err)
		})
	}
	ids, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(ids)
}

// PlayMove tests

func (s *ControllerSuite) TestPlayMoveScoresAndAdvances() {
	game := s.tinyGame(2)
	alice := game.Players[0].Player.ID

	result, err := s.controller.PlayMove(s.ctx, game.ID, alice, catAt(7, 7, model.Horizontal, "cat"))
	s.Require().NoError(err)

	s.Equal(5, result.Delta.Points)
	s.Equal(5, result.Game.Players[0].Score)
	s.Equal("G", result.Game.Players[0].Rack.String())
	s.Equal(1, result.Game.CurrentIdx)
	s.Require().Len(result.Game.Log, 1)
	s.Equal("7:7:H:CAT", result.Game.Log[0].Move)
	s.Equal([]string{"CAT"}, result.Game.Log[0].Words)

	stored, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(3, stored.Board.TileCount())
}

func (s *ControllerSuite) TestPlayMoveOutOfTurn() {
	game := s.tinyGame(2)

	_, err := s.controller.PlayMove(s.ctx, game.ID, game.Players[1].Player.ID, catAt(7, 7, model.Horizontal, "DO"))
	s.ErrorIs(err, model.ErrNotPlayerTurn)

	_, err = s.controller.PlayMove(s.ctx, game.ID, "stranger", catAt(7, 7, model.Horizontal, "DO"))
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.controller.PlayMove(s.ctx, "missing", game.Players[0].Player.ID, catAt(7, 7, model.Horizontal, "CAT"))
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestIllegalMoveLeavesGameUnchanged() {
	game := s.tinyGame(2)
	alice := game.Players[0].Player.ID

	_, err := s.controller.PlayMove(s.ctx, game.ID, alice, catAt(7, 7, model.Horizontal, "TAC"))
	s.ErrorIs(err, model.ErrNonWord)

	stored, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(0, stored.Board.TileCount())
	s.Equal("TACG", stored.Players[0].Rack.String())
	s.Equal(0, stored.CurrentIdx)
	s.Empty(stored.Log)
}

func (s *ControllerSuite) TestPassesEndGameWithPenalties() {
	game := s.tinyGame(2)
	alice, bob := game.Players[0].Player.ID, game.Players[1].Player.ID

	_, err := s.controller.PlayMove(s.ctx, game.ID, alice, catAt(7, 7, model.Horizontal, "CAT"))
	s.Require().NoError(err)
	result, err := s.controller.PlayMove(s.ctx, game.ID, bob, catAt(7, 7, model.Horizontal, "CATS"))
	s.Require().NoError(err)
	s.Equal(6, result.Delta.Points)

	g, err := s.controller.Pass(s.ctx, game.ID, alice)
	s.Require().NoError(err)
	s.False(g.IsComplete())

	g, err = s.controller.Pass(s.ctx, game.ID, bob)
	s.Require().NoError(err)
	s.True(g.IsComplete())
	s.Equal(5-2, g.Players[0].Score, "G left on the rack")
	s.Equal(6-4, g.Players[1].Score, "D O O left on the rack")
	s.Equal(alice, g.Winner)

	_, err = s.controller.Pass(s.ctx, game.ID, alice)
	s.ErrorIs(err, model.ErrGameComplete)

	summary, err := s.controller.Summary(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(4, summary.Turns)
	s.Equal(map[model.PlayerID]int{alice: 3, bob: 2}, summary.FinalScores)
}

func (s *ControllerSuite) TestGoingOutEndsGame() {
	cfg := model.GameConfig{RackSize: 3, TileSet: "cat"}
	game, err := s.controller.CreateGame(s.ctx, []PlayerSpec{{DisplayName: "Solo"}}, cfg)
	s.Require().NoError(err)
	solo := game.Players[0].Player.ID

	result, err := s.controller.PlayMove(s.ctx, game.ID, solo, catAt(7, 7, model.Horizontal, "CAT"))
	s.Require().NoError(err)

	s.True(result.Game.IsComplete())
	s.Equal(5, result.Game.Players[0].Score)
	s.Equal(solo, result.Game.Winner)
}

func (s *ControllerSuite) TestRackRefillsFromPile() {
	cfg := model.GameConfig{RackSize: 3, TileSet: "tiny"}
	game, err := s.controller.CreateGame(s.ctx, []PlayerSpec{{}}, cfg)
	s.Require().NoError(err)
	s.Equal("TAC", game.Players[0].Rack.String())

	_, err = s.controller.PlayMove(s.ctx, game.ID, game.Players[0].Player.ID, catAt(7, 7, model.Horizontal, "CAT"))
	s.Require().NoError(err)

	stored, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.False(stored.IsComplete(), "pile still holds tiles")
	s.Equal("GDO", stored.Players[0].Rack.String())
}

func (s *ControllerSuite) TestSummaryBeforeEnd() {
	game := s.tinyGame(2)
	_, err := s.controller.Summary(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameInProgress)
}

// Hint and Validate tests

func (s *ControllerSuite) TestHintIsCached() {
	game := s.tinyGame(2)
	alice := game.Players[0].Player.ID

	words, err := s.controller.Hint(s.ctx, game.ID, alice, HintOptions{})
	s.Require().NoError(err)
	s.Require().NotEmpty(words)
	s.Equal(5, words[0].Score, "CAT or ACT through the centre")

	key := HintKey(game.Board, game.Players[0].Rack, 0)
	cached, err := s.storage.GetHint(s.ctx, key)
	s.Require().NoError(err)
	s.Len(cached, len(words))

	limited, err := s.controller.Hint(s.ctx, game.ID, alice, HintOptions{Limit: 1})
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *ControllerSuite) TestHintKeyIgnoresRackOrder() {
	board := testutil.Board(s.T(), model.TopologyBounded, 15)
	a := HintKey(board, testutil.Rack("CAT", 7), 0)
	b := HintKey(board, testutil.Rack("TCA", 7), 0)
	c := HintKey(board, testutil.Rack("TCA", 7), 100)

	s.Equal(a, b)
	s.NotEqual(a, c)
}

func (s *ControllerSuite) TestValidate() {
	game := s.tinyGame(2)
	_, err := s.controller.PlayMove(s.ctx, game.ID, game.Players[0].Player.ID, catAt(7, 7, model.Vertical, "CAT"))
	s.Require().NoError(err)

	result, err := s.controller.Validate(s.ctx, game.ID, "")
	s.Require().NoError(err)
	s.True(result.Valid())
	s.Equal(3, result.TileCount)

	_, err = s.controller.Validate(s.ctx, game.ID, "stranger")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestDeleteGame() {
	game := s.tinyGame(2)

	s.Require().NoError(s.controller.DeleteGame(s.ctx, game.ID))

	_, err := s.controller.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = s.controller.GetPlayer(s.ctx, game.Players[0].Player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	s.ErrorIs(s.controller.DeleteGame(s.ctx, game.ID), model.ErrGameNotFound)
}
