package tools

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/platform/blob"
)

const (
	ServerName    = "CricketQuizGenerator"
	ServerVersion = "1.0.0"
)

// Toolset exposes quiz generation and the data container to MCP clients.
type Toolset struct {
	generator *service.GenerationService
	store     blob.Store
}

func NewToolset(generator *service.GenerationService, store blob.Store) *Toolset {
	return &Toolset{generator: generator, store: store}
}

func NewServer(ts *Toolset) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	ts.Register(s)
	return s
}

func (ts *Toolset) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("generate_quiz_questions",
		mcp.WithDescription("Sends cricket data and a prompt to Gemini to generate quiz questions."),
		mcp.WithString("data", mcp.Required(), mcp.Description("The cricket match data (JSON string or text) to be analyzed.")),
		mcp.WithNumber("offset", mcp.Required(), mcp.Description("The data offset (e.g. match ID or line number) to keep context between calls.")),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Instructions for Gemini on how to generate the questions.")),
	), ts.generateQuizQuestions)

	s.AddTool(mcp.NewTool("generate_topic_quiz",
		mcp.WithDescription("Generates multiple-choice questions about a topic as a JSON array."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Subject of the quiz.")),
		mcp.WithNumber("count", mcp.Description("Number of questions, 1 to 50. Defaults to 5.")),
		mcp.WithString("difficulty", mcp.Description("Difficulty label. Defaults to Medium.")),
	), ts.generateTopicQuiz)

	s.AddTool(mcp.NewTool("list_cricket_data",
		mcp.WithDescription("Lists the blob names in the cricket data container, one per line."),
	), ts.listCricketData)

	s.AddTool(mcp.NewTool("get_cricket_data",
		mcp.WithDescription("Returns the text of a blob. Zip archives are unpacked file by file."),
		mcp.WithString("blob_name", mcp.Required(), mcp.Description("Name of the blob to read.")),
	), ts.getCricketData)

	s.AddTool(mcp.NewTool("upload_cricket_data",
		mcp.WithDescription("Stores text under a blob name, replacing any existing blob."),
		mcp.WithString("blob_name", mcp.Required(), mcp.Description("Name of the blob to write.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text content to store.")),
	), ts.uploadCricketData)
}

func (ts *Toolset) generateQuizQuestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := req.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	offset := req.GetInt("offset", 0)

	text, err := ts.generator.GenerateFromData(ctx, prompt, offset, data)
	if err != nil {
		return toolError("generate_quiz_questions", err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (ts *Toolset) generateTopicQuiz(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := ts.generator.GenerateQuiz(ctx, service.GenerateQuizRequest{
		Topic:      topic,
		Count:      req.GetInt("count", service.DefaultQuestionCount),
		Difficulty: req.GetString("difficulty", service.DefaultDifficulty),
	})
	if err != nil {
		return toolError("generate_topic_quiz", err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (ts *Toolset) listCricketData(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := ts.store.List(ctx)
	if err != nil {
		return toolError("list_cricket_data", err), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (ts *Toolset) getCricketData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("blob_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := blob.ReadText(ctx, ts.store, name)
	if err != nil {
		return toolError("get_cricket_data", err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (ts *Toolset) uploadCricketData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("blob_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := ts.store.Put(ctx, name, []byte(content)); err != nil {
		return toolError("upload_cricket_data", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully uploaded %s", name)), nil
}

func toolError(tool string, err error) *mcp.CallToolResult {
	log.Printf("ERROR: tool %s: %v", tool, err)
	return mcp.NewToolResultError(err.Error())
}
