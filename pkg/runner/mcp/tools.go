package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerGetSessionTool(srv, svc)
	registerEditSessionTool(srv, svc)
	registerNewEntryTool(srv, svc)
	registerSaveEntryTool(srv, svc)
	registerOpenEntryTool(srv, svc)
	registerListEntriesTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerGetReportTool(srv, svc)
	registerGetCalendarTool(srv, svc)
	registerAssistTool(srv, svc)
}

func registerGetSessionTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_session",
		mcp.WithDescription("Show the entry being edited: scripture reference, reflection, application, prayer and tags."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Session(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerEditSessionTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"edit_session",
		mcp.WithDescription("Change fields of the entry being edited. Omitted fields are left alone. Changes are kept as a draft until save_entry."),
		mcp.WithString("book",
			mcp.Description("Book name in English or Korean, e.g. John or 요한복음. Changing the book resets the chapter to 1."),
		),
		mcp.WithNumber("chapter",
			mcp.Description("Chapter number, clamped to the chapters of the book."),
			mcp.Min(1),
		),
		mcp.WithString("verse_range",
			mcp.Description("Free-form verse range such as 1-5."),
		),
		mcp.WithString("reflection",
			mcp.Description("Reflection text. Replaces the current reflection."),
		),
		mcp.WithString("application",
			mcp.Description("How the passage applies today."),
		),
		mcp.WithString("prayer",
			mcp.Description("Prayer text."),
		),
		mcp.WithArray("add_tags",
			mcp.Description("Tags to add. Duplicates are ignored."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("remove_tags",
			mcp.Description("Tags to remove."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args EditOptions
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.EditSession(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerNewEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"new_entry",
		mcp.WithDescription("Discard the draft and start a blank entry at the last used scripture reference."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.NewEntry(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSaveEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"save_entry",
		mcp.WithDescription("Save the entry being edited as today's entry. Requires a non-empty reflection."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.SaveEntry(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerOpenEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"open_entry",
		mcp.WithDescription("Load a saved entry into the editor, by id or by date."),
		mcp.WithString("id",
			mcp.Description("Entry identifier."),
		),
		mcp.WithString("date",
			mcp.Description("Date of the entry as YYYY-MM-DD or M/D. Used when id is empty."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("id", "")
		date := request.GetString("date", "")

		dto, err := svc.OpenEntry(ctx, id, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_entries",
		mcp.WithDescription("List saved entries, newest first."),
		mcp.WithString("window",
			mcp.Description("Optional window such as 3d, 2w or 1mo. Omit for every entry."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 50)."),
			mcp.Min(1),
			mcp.Max(500),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		window := strings.TrimSpace(request.GetString("window", ""))
		limit := request.GetInt("limit", 50)

		results, err := svc.ListEntries(ctx, window, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"window":  window,
			"entries": results,
			"count":   len(results),
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch a single saved entry by identifier without opening it."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_report",
		mcp.WithDescription("Premium analytics: current streak, total entries and the most used recent tags."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := svc.Report(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(report)
	})
}

func registerGetCalendarTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_calendar",
		mcp.WithDescription("Month grid marking days with entries, plus the entries of the selected day."),
		mcp.WithString("month",
			mcp.Description("Month as YYYY-MM. Defaults to the month of the selected day."),
		),
		mcp.WithString("on",
			mcp.Description("Selected day as YYYY-MM-DD or M/D. Defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		view, err := svc.Calendar(ctx, request.GetString("month", ""), request.GetString("on", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func registerAssistTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"assist",
		mcp.WithDescription("Premium: generate observations, applications, prayers and a shareable summary for the reflection being edited."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := svc.Assist(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(resp)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
