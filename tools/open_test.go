package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type fakeOpener struct {
	accept bool
	opened string
}

func (f *fakeOpener) OpenProject(path string, line int, column int) bool {
	if f.accept {
		f.opened = path
	}
	return f.accept
}

func (f *fakeOpener) CommandLine(path string, line int, column int) (string, []string) {
	return "/usr/bin/code", []string{"/work/Game", "-g", path + ":1:0"}
}

func Test_OpenHandler_EmptyPath(t *testing.T) {
	h := &OpenHandler{Opener: &fakeOpener{}, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	result, _, err := h.Handle(context.Background(), nil, OpenArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty path")
	}
}

func Test_OpenHandler_Opens(t *testing.T) {
	opener := &fakeOpener{accept: true}
	h := &OpenHandler{Opener: opener, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	result, _, err := h.Handle(context.Background(), nil, OpenArgs{Path: "Assets/Core/Foo.cs", Line: -1, Column: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}
	if opener.opened != "Assets/Core/Foo.cs" {
		t.Errorf("expected the file to be opened, got %q", opener.opened)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "/usr/bin/code") || !strings.Contains(text, "Assets/Core/Foo.cs:1:0") {
		t.Errorf("expected the command line, got:\n%s", text)
	}
}

func Test_OpenHandler_Rejected(t *testing.T) {
	h := &OpenHandler{Opener: &fakeOpener{}, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	result, _, _ := h.Handle(context.Background(), nil, OpenArgs{Path: "Assets/Textures/Rock.png"})

	if !result.IsError {
		t.Fatal("expected IsError=true for rejected file")
	}
}
