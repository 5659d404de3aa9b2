package plannerserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
	"github.com/mitchelldurbincs/Evolve2048/internal/mcts"
	"github.com/mitchelldurbincs/Evolve2048/internal/testutil"
)

const bufSize = 1024 * 1024

// setupTestServer creates an in-memory gRPC server for testing
func setupTestServer(t *testing.T) (*grpc.ClientConn, func()) {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	logger := testutil.NopLogger()
	s := grpc.NewServer(ServerOptions(logger)...)
	planner := mcts.New(mcts.Config{SearchesPerMove: 20, Depth: 5, Workers: 2, Seed: 7, Logger: logger})
	RegisterPlannerServiceServer(s, NewServer(planner, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		if err := s.Serve(lis); err != nil {
			t.Logf("Server exited with error: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	cleanup := func() {
		conn.Close()
		s.Stop()
		lis.Close()
	}
	return conn, cleanup
}

func stateOf(t *testing.T, rows [core.Size][core.Size]uint32) game.State {
	t.Helper()
	s, err := game.FromExponents(testutil.Flatten(rows))
	require.NoError(t, err)
	return s
}

func TestSuggestMove(t *testing.T) {
	conn, cleanup := setupTestServer(t)
	defer cleanup()
	client := NewClient(conn, time.Second)
	ctx := context.Background()

	d, ok, err := client.SuggestMove(ctx, stateOf(t, testutil.OnlyRightExponents()))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.Right, d)

	_, ok, err = client.SuggestMove(ctx, stateOf(t, testutil.TerminalExponents()))
	require.NoError(t, err)
	assert.False(t, ok, "a terminal board has no move")
}

func TestSuggestMove_RandomGame(t *testing.T) {
	conn, cleanup := setupTestServer(t)
	defer cleanup()
	client := NewClient(conn, time.Second)

	s := game.New(testutil.NewTestRNG(3))
	d, ok, err := client.SuggestMove(context.Background(), s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, s.LegalMoves(), d)
}

func TestEvaluate(t *testing.T) {
	conn, cleanup := setupTestServer(t)
	defer cleanup()
	client := NewClient(conn, time.Second)
	ctx := context.Background()

	candidates, err := client.Evaluate(ctx, stateOf(t, testutil.OnlyRightExponents()))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, core.Right, candidates[0].Direction)

	s := game.New(testutil.NewTestRNG(5))
	candidates, err = client.Evaluate(ctx, s)
	require.NoError(t, err)
	require.Len(t, candidates, len(s.LegalMoves()))
	for i, c := range candidates {
		assert.Equal(t, s.LegalMoves()[i], c.Direction)
	}
}

func TestLegalMoves(t *testing.T) {
	conn, cleanup := setupTestServer(t)
	defer cleanup()
	client := NewClient(conn, time.Second)
	ctx := context.Background()

	moves, err := client.LegalMoves(ctx, stateOf(t, testutil.OnlyRightExponents()))
	require.NoError(t, err)
	assert.Equal(t, []core.Direction{core.Right}, moves)

	moves, err = client.LegalMoves(ctx, stateOf(t, testutil.TerminalExponents()))
	require.NoError(t, err)
	assert.Empty(t, moves)

	out := new(structpb.Struct)
	req, err := boardRequest(stateOf(t, testutil.TerminalExponents()))
	require.NoError(t, err)
	require.NoError(t, conn.Invoke(ctx, LegalMovesMethod, req, out))
	assert.True(t, out.GetFields()["terminal"].GetBoolValue())
}

func TestInvalidRequests(t *testing.T) {
	conn, cleanup := setupTestServer(t)
	defer cleanup()

	full := func(v interface{}) []interface{} {
		board := make([]interface{}, core.Cells)
		for i := range board {
			board[i] = 0.0
		}
		board[5] = v
		return board
	}

	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{"missing board", map[string]interface{}{}},
		{"board not a list", map[string]interface{}{"board": "left"}},
		{"short board", map[string]interface{}{"board": []interface{}{1.0, 2.0}}},
		{"fractional exponent", map[string]interface{}{"board": full(1.5)}},
		{"exponent too large", map[string]interface{}{"board": full(18.0)}},
		{"negative exponent", map[string]interface{}{"board": full(-1.0)}},
		{"string cell", map[string]interface{}{"board": full("two")}},
		{"negative score", map[string]interface{}{"board": full(1.0), "score": -4.0}},
	}

	for _, method := range []string{SuggestMoveMethod, EvaluateMethod, LegalMovesMethod} {
		for _, tt := range tests {
			t.Run(method+"/"+tt.name, func(t *testing.T) {
				req, err := structpb.NewStruct(tt.fields)
				require.NoError(t, err)
				err = conn.Invoke(context.Background(), method, req, new(structpb.Struct))
				require.Error(t, err)
				assert.Equal(t, codes.InvalidArgument, status.Code(err))
			})
		}
	}
}

func TestHealth(t *testing.T) {
	conn, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}

func TestClientSuggest_TransportError(t *testing.T) {
	conn, cleanup := setupTestServer(t)
	client := NewClient(conn, 50*time.Millisecond)
	cleanup()

	_, ok := client.Suggest(game.New(testutil.NewTestRNG(1)))
	assert.False(t, ok)
}

func TestClientSuggest_ImplementsSuggester(t *testing.T) {
	conn, cleanup := setupTestServer(t)
	defer cleanup()

	var s game.Suggester = NewClient(conn, time.Second)
	engine := game.NewEngine(game.GameConfig{Rng: testutil.NewTestRNG(9), Logger: testutil.NopLogger()})
	d, ok := engine.SuggestAndStep(s)
	require.True(t, ok)
	assert.True(t, d.Valid())
	assert.Equal(t, 1, engine.Moves())
}
