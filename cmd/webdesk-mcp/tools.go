package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"webdesk/pkg/desktop"
	"webdesk/pkg/terminal"
	"webdesk/pkg/timer"
	"webdesk/pkg/vfs"
)

// maxDrain bounds the script callbacks run after one command.
const maxDrain = 1000

// tools serves MCP tool calls against one desktop session and its first
// terminal.
type tools struct {
	mu    sync.Mutex
	sess  *desktop.Session
	term  *terminal.Terminal
	clock *timer.Manual
}

func newTools(cfg desktop.Config) (*tools, error) {
	clock := timer.NewManual()
	cfg.Scheduler = clock
	sess := desktop.NewSession(cfg)

	id, err := sess.Launch(desktop.AppTerminal)
	if err != nil {
		sess.Close()
		return nil, err
	}
	term, err := sess.Terminal(id)
	if err != nil {
		sess.Close()
		return nil, err
	}
	return &tools{sess: sess, term: term, clock: clock}, nil
}

func (t *tools) Close() error {
	return t.sess.Close()
}

func (t *tools) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("run_command",
		mcp.WithDescription("Run a command in the desktop terminal and return its output"),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Command line, for example 'ls' or 'cd Documents'"),
		),
	), t.handleRunCommand)

	s.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read a file from the desktop file system"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the file"),
		),
	), t.handleReadFile)

	s.AddTool(mcp.NewTool("write_file",
		mcp.WithDescription("Create or overwrite a file in the desktop file system"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the file"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("New content of the file"),
		),
	), t.handleWriteFile)

	s.AddTool(mcp.NewTool("list_directory",
		mcp.WithDescription("List a directory of the desktop file system"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the directory"),
		),
	), t.handleListDirectory)

	s.AddTool(mcp.NewTool("desktop_snapshot",
		mcp.WithDescription("Describe the open windows of the desktop as JSON"),
	), t.handleSnapshot)
}

func (t *tools) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return mcp.NewToolResultError("command is empty"), nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.term.Len()
	t.term.Execute(command)
	for i := 0; i < maxDrain && t.clock.Pending() > 0; i++ {
		t.clock.Advance(time.Second)
	}
	if _, ok := t.term.Nano(); ok {
		t.term.NanoClose()
	}

	lines := t.term.Lines()
	if len(lines) < before {
		// cleared
		before = 0
	} else {
		before++ // echo
	}
	if before > len(lines) {
		before = len(lines)
	}
	out := strings.TrimRight(strings.Join(lines[before:], "\n"), "\n")
	return mcp.NewToolResultText(out), nil
}

func (t *tools) handleReadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, ok := t.sess.FS.Resolve(path)
	switch {
	case !ok:
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", path, vfs.ErrNotFound)), nil
	case node.IsDir():
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", path, vfs.ErrIsDirectory)), nil
	}
	return mcp.NewToolResultText(node.Content), nil
}

func (t *tools) handleWriteFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path = vfs.Normalize(path)
	if node, ok := t.sess.FS.Resolve(path); ok && node.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", path, vfs.ErrIsDirectory)), nil
	}
	if err := t.sess.FS.MakeFile(vfs.Parent(path), vfs.Base(path), content); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", path, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Wrote %s (%s)", path, vfs.FormatSize(int64(vfs.Size(content))))), nil
}

func (t *tools) handleListDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, ok := t.sess.FS.ResolveDir(path)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", path, vfs.ErrNotDirectory)), nil
	}

	var b strings.Builder
	for _, child := range dir.Children() {
		if child.IsDir() {
			fmt.Fprintf(&b, "%s/\n", child.Name)
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\n", child.Name, vfs.FormatSize(int64(vfs.Size(child.Content))))
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func (t *tools) handleSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(t.sess.Snapshot(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
