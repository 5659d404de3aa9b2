package plannerserver

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
	"github.com/mitchelldurbincs/Evolve2048/internal/mcts"
)

// Client is a thin PlannerService client.
type Client struct {
	cc      grpc.ClientConnInterface
	timeout time.Duration
}

// NewClient wraps cc. timeout bounds each call made through Suggest.
func NewClient(cc grpc.ClientConnInterface, timeout time.Duration) *Client {
	return &Client{cc: cc, timeout: timeout}
}

func boardRequest(s game.State) (*structpb.Struct, error) {
	exps := s.Board.Exponents()
	board := make([]interface{}, len(exps))
	for i, e := range exps {
		board[i] = float64(e)
	}
	return structpb.NewStruct(map[string]interface{}{
		"board": board,
		"score": float64(s.Score),
	})
}

func (c *Client) call(ctx context.Context, method string, s game.State) (*structpb.Struct, error) {
	req, err := boardRequest(s)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SuggestMove asks the server for the best move on s.
func (c *Client) SuggestMove(ctx context.Context, s game.State) (core.Direction, bool, error) {
	out, err := c.call(ctx, SuggestMoveMethod, s)
	if err != nil {
		return 0, false, err
	}
	if !out.GetFields()["has_move"].GetBoolValue() {
		return 0, false, nil
	}
	d, err := core.ParseDirection(out.GetFields()["direction"].GetStringValue())
	if err != nil {
		return 0, false, fmt.Errorf("decoding reply: %w", err)
	}
	return d, true, nil
}

// Evaluate returns the server's rollout score for every legal direction.
func (c *Client) Evaluate(ctx context.Context, s game.State) ([]mcts.Candidate, error) {
	out, err := c.call(ctx, EvaluateMethod, s)
	if err != nil {
		return nil, err
	}
	values := out.GetFields()["candidates"].GetListValue().GetValues()
	candidates := make([]mcts.Candidate, 0, len(values))
	for _, v := range values {
		fields := v.GetStructValue().GetFields()
		d, err := core.ParseDirection(fields["direction"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("decoding reply: %w", err)
		}
		candidates = append(candidates, mcts.Candidate{
			Direction: d,
			Score:     uint64(fields["score"].GetNumberValue()),
		})
	}
	return candidates, nil
}

// LegalMoves returns the directions that change s, as computed by the server.
func (c *Client) LegalMoves(ctx context.Context, s game.State) ([]core.Direction, error) {
	out, err := c.call(ctx, LegalMovesMethod, s)
	if err != nil {
		return nil, err
	}
	values := out.GetFields()["directions"].GetListValue().GetValues()
	moves := make([]core.Direction, 0, len(values))
	for _, v := range values {
		d, err := core.ParseDirection(v.GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("decoding reply: %w", err)
		}
		moves = append(moves, d)
	}
	return moves, nil
}

// Suggest implements game.Suggester. Transport errors are reported as no move.
func (c *Client) Suggest(s game.State) (core.Direction, bool) {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	d, ok, err := c.SuggestMove(ctx, s)
	if err != nil {
		return 0, false
	}
	return d, ok
}
