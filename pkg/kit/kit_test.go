package kit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				trace = append(trace, name)
				return next(ctx, req)
			}
		}
	}
	ep := Chain(mark("a"), mark("b"), mark("c"))(func(context.Context, any) (any, error) {
		trace = append(trace, "endpoint")
		return nil, nil
	})
	ep(context.Background(), nil)
	if want := []string{"a", "b", "c", "endpoint"}; !reflect.DeepEqual(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	failing := Logging(logger, "crosstab")(func(context.Context, any) (any, error) {
		return nil, errors.New("category mismatch")
	})
	ctx := WithRequestID(WithTransport(context.Background(), "mcp"), "r-1")
	if _, err := failing(ctx, nil); err == nil {
		t.Fatal("error swallowed")
	}
	out := buf.String()
	for _, want := range []string{"endpoint failed", "endpoint=crosstab", "transport=mcp", "request_id=r-1", "category mismatch"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q lacks %q", out, want)
		}
	}
}

func TestTransportDefault(t *testing.T) {
	if got := Transport(context.Background()); got != "http" {
		t.Errorf("Transport = %q", got)
	}
}

func TestMCPHandler(t *testing.T) {
	var seen string
	ep := func(ctx context.Context, req any) (any, error) {
		seen = Transport(ctx)
		return map[string]string{"echo": req.(string)}, nil
	}
	decode := func(r mcp.CallToolRequest) (any, error) {
		v, _ := r.GetArguments()["variable"].(string)
		if v == "" {
			return nil, errors.New("variable is required")
		}
		return v, nil
	}
	h := MCPHandler(ep, decode)

	call := func(args map[string]any) *mcp.CallToolResult {
		t.Helper()
		req := mcp.CallToolRequest{}
		req.Params.Name = "tabulate"
		req.Params.Arguments = args
		res, err := h(context.Background(), req)
		if err != nil {
			t.Fatalf("handler: %v", err)
		}
		return res
	}

	res := call(map[string]any{"variable": "q1"})
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok || text.Text != `{"echo":"q1"}` {
		t.Errorf("content = %+v", res.Content)
	}
	if seen != "mcp" {
		t.Errorf("transport = %q, want mcp", seen)
	}

	if res := call(map[string]any{}); !res.IsError {
		t.Error("missing argument should be a tool error")
	}
}
