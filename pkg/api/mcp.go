package api

import (
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/surveyreport/pkg/kit"
)

// RegisterMCPTools registers the tabulation tools on the server.
func RegisterMCPTools(srv *server.MCPServer, ws *Workspace, logger *slog.Logger) {
	eps := newEndpoints(ws, logger)

	kit.RegisterMCPTool(srv, mcp.NewTool("list_questions",
		mcp.WithDescription("List the survey questions in the codebook with their titles."),
	), eps.listQuestions, func(mcp.CallToolRequest) (any, error) {
		return nil, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("get_question",
		mcp.WithDescription("Describe one question: title, missing label and its answer codes in order."),
		mcp.WithString("variable", mcp.Required(), mcp.Description("Question variable name")),
	), eps.getQuestion, decodeQuestion)

	kit.RegisterMCPTool(srv, mcp.NewTool("tabulate",
		mcp.WithDescription("Frequency table of one question, as counts or percentages."),
		mcp.WithString("variable", mcp.Required(), mcp.Description("Question variable name")),
		mcp.WithBoolean("percentage", mcp.Description("Return column percentages instead of counts")),
		mcp.WithBoolean("skip_missing", mcp.Description("Drop the missing category")),
		mcp.WithString("order", mcp.Description("Comma-separated label order override")),
		mcp.WithNumber("decimals", mcp.Description("Round values to this many decimals")),
	), eps.tabulate, decodeTabulate)

	kit.RegisterMCPTool(srv, mcp.NewTool("crosstab",
		mcp.WithDescription("Cross-tabulate a question by a stratification variable."),
		mcp.WithString("variable", mcp.Required(), mcp.Description("Question variable name")),
		mcp.WithString("strat", mcp.Required(), mcp.Description("Stratification variable name")),
		mcp.WithBoolean("percentage", mcp.Description("Return column percentages instead of counts")),
		mcp.WithBoolean("skip_missing", mcp.Description("Drop the missing category")),
		mcp.WithBoolean("margins", mcp.Description("Add an All row and column")),
		mcp.WithNumber("decimals", mcp.Description("Round values to this many decimals")),
	), eps.crosstab, decodeCrosstab)

	kit.RegisterMCPTool(srv, mcp.NewTool("multibinary",
		mcp.WithDescription("Tabulate several binary items by a stratification variable, one row per item."),
		mcp.WithString("items", mcp.Required(), mcp.Description("Comma-separated item variable names (max 100)")),
		mcp.WithString("strat", mcp.Required(), mcp.Description("Stratification variable name")),
		mcp.WithBoolean("percentage", mcp.Description("Return percentages instead of counts")),
		mcp.WithString("fetch", mcp.Description("Answer code to report for each item (default 1)")),
		mcp.WithBoolean("transpose", mcp.Description("Put items on columns")),
		mcp.WithNumber("decimals", mcp.Description("Round values to this many decimals")),
	), eps.multiBinary, decodeMultiBinary)
}

func decodeQuestion(req mcp.CallToolRequest) (any, error) {
	args := req.GetArguments()
	v, _ := args["variable"].(string)
	return &questionReq{Variable: v}, nil
}

func decodeTabulate(req mcp.CallToolRequest) (any, error) {
	args := req.GetArguments()
	out := &tabulateReq{
		Variable:    stringArg(args, "variable"),
		Percentage:  boolArg(args, "percentage"),
		SkipMissing: boolArg(args, "skip_missing"),
		Order:       splitList(stringArg(args, "order")),
		Decimals:    intArg(args, "decimals"),
	}
	return out, nil
}

func decodeCrosstab(req mcp.CallToolRequest) (any, error) {
	args := req.GetArguments()
	return &crosstabReq{
		Variable:    stringArg(args, "variable"),
		Strat:       stringArg(args, "strat"),
		Percentage:  boolArg(args, "percentage"),
		SkipMissing: boolArg(args, "skip_missing"),
		Margins:     boolArg(args, "margins"),
		Decimals:    intArg(args, "decimals"),
	}, nil
}

func decodeMultiBinary(req mcp.CallToolRequest) (any, error) {
	args := req.GetArguments()
	return &multiBinaryReq{
		Items:      splitList(stringArg(args, "items")),
		Strat:      stringArg(args, "strat"),
		Percentage: boolArg(args, "percentage"),
		Fetch:      stringArg(args, "fetch"),
		Transpose:  boolArg(args, "transpose"),
		Decimals:   intArg(args, "decimals"),
	}, nil
}

func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return strings.TrimSpace(v)
}

// boolArg accepts JSON booleans and the strings "true"/"false".
func boolArg(args map[string]any, name string) bool {
	switch v := args[name].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}

func intArg(args map[string]any, name string) *int {
	v, ok := args[name].(float64)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
