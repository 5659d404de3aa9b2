package plannerserver

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
	"github.com/mitchelldurbincs/Evolve2048/internal/mcts"
)

// Server implements PlannerService on top of an mcts.Planner. It holds no
// per-game state; every request carries the board it is about.
type Server struct {
	planner *mcts.Planner
	logger  zerolog.Logger
}

// NewServer creates a new planner service
func NewServer(planner *mcts.Planner, logger zerolog.Logger) *Server {
	return &Server{
		planner: planner,
		logger:  logger.With().Str("component", "PlannerServer").Logger(),
	}
}

// SuggestMove runs the planner on the requested board
func (s *Server) SuggestMove(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	st, err := stateFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	d, ok := s.planner.Suggest(st)
	fields := map[string]interface{}{"has_move": ok}
	if ok {
		fields["direction"] = d.String()
	}

	s.logger.Debug().
		Bool("found", ok).
		Stringer("direction", d).
		Uint32("score", st.Score).
		Msg("Move suggested")
	return newStruct(fields)
}

// Evaluate reports the aggregate rollout score of every legal direction
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	st, err := stateFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates := s.planner.Evaluate(st)
	list := make([]interface{}, len(candidates))
	for i, c := range candidates {
		list[i] = map[string]interface{}{
			"direction": c.Direction.String(),
			"score":     float64(c.Score),
		}
	}
	return newStruct(map[string]interface{}{"candidates": list})
}

// LegalMoves lists the directions that change the requested board
func (s *Server) LegalMoves(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	st, err := stateFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	moves := st.LegalMoves()
	list := make([]interface{}, len(moves))
	for i, d := range moves {
		list[i] = d.String()
	}
	return newStruct(map[string]interface{}{
		"directions": list,
		"terminal":   len(moves) == 0,
	})
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

// stateFromRequest validates the "board" and "score" fields.
func stateFromRequest(ctx context.Context, req *structpb.Struct) (game.State, error) {
	if err := ctx.Err(); err != nil {
		return game.State{}, status.FromContextError(err).Err()
	}
	if req == nil {
		return game.State{}, status.Error(codes.InvalidArgument, "request is required")
	}

	list := req.GetFields()["board"].GetListValue()
	if list == nil {
		return game.State{}, status.Error(codes.InvalidArgument, "board must be a list of tile exponents")
	}
	values := list.GetValues()
	if len(values) != core.Cells {
		return game.State{}, status.Errorf(codes.InvalidArgument, "board must have %d cells, got %d", core.Cells, len(values))
	}

	var exps [core.Cells]uint32
	for i, v := range values {
		e, err := wholeNumber(v, core.MaxExponent)
		if err != nil {
			return game.State{}, status.Errorf(codes.InvalidArgument, "board[%d]: %v", i, err)
		}
		exps[i] = uint32(e)
	}

	st, err := game.FromExponents(exps)
	if err != nil {
		return game.State{}, status.Errorf(codes.InvalidArgument, "invalid board: %v", err)
	}

	if sv, ok := req.GetFields()["score"]; ok {
		score, err := wholeNumber(sv, math.MaxUint32)
		if err != nil {
			return game.State{}, status.Errorf(codes.InvalidArgument, "score: %v", err)
		}
		st.Score = uint32(score)
	}
	return st, nil
}

func wholeNumber(v *structpb.Value, max float64) (float64, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("expected a number")
	}
	f := n.NumberValue
	if math.IsNaN(f) || f < 0 || f > max || f != math.Trunc(f) {
		return 0, fmt.Errorf("expected a whole number in [0, %v], got %v", max, f)
	}
	return f, nil
}
