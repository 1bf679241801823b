package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListBoardArgs selects the project to list.
type ListBoardArgs struct {
	ProjectID string `json:"project_id,omitempty"`
}

type CardArgs struct {
	CardID string `json:"card_id"`
}

type AddCardArgs struct {
	LaneID      string `json:"lane_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Labels      string `json:"labels,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
}

// UpdateCardArgs uses pointers so omitted fields stay untouched.
// An empty due_date or assignee clears the field.
type UpdateCardArgs struct {
	CardID      string  `json:"card_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Labels      *string `json:"labels,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
}

type MoveCardArgs struct {
	CardID string `json:"card_id"`
	LaneID string `json:"lane_id"`
	Index  *int   `json:"index,omitempty"`
}

type AddLaneArgs struct {
	Title string `json:"title"`
}

type AddProjectArgs struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type DispatchArgs struct {
	Action string `json:"action"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_board",
		mcp.WithDescription("List the lanes and live cards of a project (the active project by default)."),
		mcp.WithString("project_id", mcp.Description("Project to list (optional)")),
		mcp.WithOutputSchema[presentation.BoardView](),
	), mcp.NewStructuredToolHandler(s.handleListBoard))

	s.mcpServer.AddTool(mcp.NewTool("add_card",
		mcp.WithDescription("Create a card at the bottom of a lane of the active project."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Card title")),
		mcp.WithString("lane_id", mcp.Description("Target lane (default: first lane)")),
		mcp.WithString("description", mcp.Description("Free text")),
		mcp.WithString("type", mcp.Enum("feature", "bug", "task", "story")),
		mcp.WithString("priority", mcp.Enum("low", "medium", "high", "urgent")),
		mcp.WithString("due_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithString("labels", mcp.Description("Comma-separated label ids: bug, feature, enhancement, documentation, urgent, design")),
		mcp.WithString("assignee", mcp.Description("Assignee name")),
	), mcp.NewTypedToolHandler(s.handleAddCard))

	s.mcpServer.AddTool(mcp.NewTool("update_card",
		mcp.WithDescription("Change card fields. Omitted fields are kept; an empty due_date or assignee clears it."),
		mcp.WithString("card_id", mcp.Required()),
		mcp.WithString("title"),
		mcp.WithString("description"),
		mcp.WithString("type", mcp.Enum("feature", "bug", "task", "story")),
		mcp.WithString("priority", mcp.Enum("low", "medium", "high", "urgent")),
		mcp.WithString("due_date", mcp.Description("YYYY-MM-DD, or empty to clear")),
		mcp.WithString("labels", mcp.Description("Comma-separated label ids; replaces the current labels")),
		mcp.WithString("assignee", mcp.Description("Assignee, or empty to clear")),
	), mcp.NewTypedToolHandler(s.handleUpdateCard))

	s.mcpServer.AddTool(mcp.NewTool("move_card",
		mcp.WithDescription("Move a card to a lane of its project, at a position (default: bottom)."),
		mcp.WithString("card_id", mcp.Required()),
		mcp.WithString("lane_id", mcp.Required()),
		mcp.WithNumber("index", mcp.Description("0-based position in the destination lane")),
	), mcp.NewTypedToolHandler(s.handleMoveCard))

	for _, t := range []struct {
		name, desc string
		verb       func(string) bool
	}{
		{"delete_card", "Soft-delete a card. It can be restored or undone.", s.board.DeleteCard},
		{"restore_card", "Restore a soft-deleted card to its lane.", s.board.RestoreCard},
		{"undo_card", "Step a card back to its previous version.", s.board.UndoCard},
	} {
		s.mcpServer.AddTool(mcp.NewTool(t.name,
			mcp.WithDescription(t.desc),
			mcp.WithString("card_id", mcp.Required()),
		), mcp.NewTypedToolHandler(s.cardVerb(t.name, t.verb)))
	}

	s.mcpServer.AddTool(mcp.NewTool("add_lane",
		mcp.WithDescription("Append a lane to the active project."),
		mcp.WithString("title", mcp.Required()),
	), mcp.NewTypedToolHandler(s.handleAddLane))

	s.mcpServer.AddTool(mcp.NewTool("add_project",
		mcp.WithDescription("Create a project with Todo/Doing/Done lanes and make it active."),
		mcp.WithString("title", mcp.Required()),
		mcp.WithString("thumbnail_url"),
	), mcp.NewTypedToolHandler(s.handleAddProject))

	s.mcpServer.AddTool(mcp.NewTool("dispatch_action",
		mcp.WithDescription(`Apply a raw action envelope, e.g. {"type":"REORDER_LANES","payload":{"laneIds":["a","b"]}}.`),
		mcp.WithString("action", mcp.Required(), mcp.Description("JSON action envelope")),
	), mcp.NewTypedToolHandler(s.handleDispatch))
}

func (s *Server) handleListBoard(ctx context.Context, request mcp.CallToolRequest, args ListBoardArgs) (presentation.BoardView, error) {
	return s.view(args.ProjectID)
}

func (s *Server) handleAddCard(ctx context.Context, request mcp.CallToolRequest, args AddCardArgs) (*mcp.CallToolResult, error) {
	before := s.board.State()
	if strings.TrimSpace(args.Title) == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	in := domain.CardInput{LaneID: args.LaneID, Title: args.Title, Description: args.Description}
	if in.LaneID == "" {
		v, err := s.view("")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(v.Lanes) == 0 {
			return mcp.NewToolResultError("active project has no lanes"), nil
		}
		in.LaneID = v.Lanes[0].ID
	}

	var err error
	if args.Type != "" {
		if in.Type, err = domain.ParseCardType(args.Type); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if args.Priority != "" {
		if in.Priority, err = domain.ParsePriority(args.Priority); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if in.DueDate, err = domain.ParseDueDate(args.DueDate); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if in.Labels, err = domain.ParseLabels(splitList(args.Labels)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Assignee != "" {
		in.Assignee = &args.Assignee
	}

	id, changed := s.board.AddCard(in)
	card, _ := s.board.Card(id)
	return s.commit(ctx, before, changed, fmt.Sprintf("lane %q is not in the active project", in.LaneID), card)
}

func (s *Server) handleUpdateCard(ctx context.Context, request mcp.CallToolRequest, args UpdateCardArgs) (*mcp.CallToolResult, error) {
	before := s.board.State()
	patch, err := buildPatch(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if patch.IsEmpty() {
		return mcp.NewToolResultError("nothing to update"), nil
	}
	changed := s.board.UpdateCard(args.CardID, patch)
	card, _ := s.board.Card(args.CardID)
	return s.commit(ctx, before, changed, fmt.Sprintf("card %q not found", args.CardID), card)
}

func buildPatch(args UpdateCardArgs) (domain.CardPatch, error) {
	patch := domain.CardPatch{Title: args.Title, Description: args.Description}
	if args.Type != nil {
		t, err := domain.ParseCardType(*args.Type)
		if err != nil {
			return patch, err
		}
		patch.Type = &t
	}
	if args.Priority != nil {
		p, err := domain.ParsePriority(*args.Priority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if args.DueDate != nil {
		due, err := domain.ParseDueDate(*args.DueDate)
		if err != nil {
			return patch, err
		}
		if due == nil {
			patch.DueDate = domain.Null[string]()
		} else {
			patch.DueDate = domain.Some(*due)
		}
	}
	if args.Labels != nil {
		labels, err := domain.ParseLabels(splitList(*args.Labels))
		if err != nil {
			return patch, err
		}
		patch.Labels = &labels
	}
	if args.Assignee != nil {
		if *args.Assignee == "" {
			patch.Assignee = domain.Null[string]()
		} else {
			patch.Assignee = domain.Some(*args.Assignee)
		}
	}
	return patch, nil
}

func (s *Server) handleMoveCard(ctx context.Context, request mcp.CallToolRequest, args MoveCardArgs) (*mcp.CallToolResult, error) {
	before := s.board.State()
	index := len(s.board.State().CardsByLane(args.LaneID))
	if args.Index != nil {
		index = max(*args.Index, 0)
	}
	changed := s.board.MoveCard(args.CardID, args.LaneID, index)
	card, _ := s.board.Card(args.CardID)
	return s.commit(ctx, before, changed,
		fmt.Sprintf("cannot move card %q to lane %q: unknown card, deleted card or lane of another project", args.CardID, args.LaneID),
		card)
}

func (s *Server) cardVerb(name string, verb func(string) bool) func(context.Context, mcp.CallToolRequest, CardArgs) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args CardArgs) (*mcp.CallToolResult, error) {
		before := s.board.State()
		changed := verb(args.CardID)
		card, _ := s.board.Card(args.CardID)
		return s.commit(ctx, before, changed, fmt.Sprintf("%s: nothing to do for card %q", name, args.CardID), card)
	}
}

func (s *Server) handleAddLane(ctx context.Context, request mcp.CallToolRequest, args AddLaneArgs) (*mcp.CallToolResult, error) {
	before := s.board.State()
	id, changed := s.board.AddLane(args.Title)
	p, _ := s.board.ActiveProject()
	lane, _ := p.Lane(id)
	return s.commit(ctx, before, changed, "no active project", lane)
}

func (s *Server) handleAddProject(ctx context.Context, request mcp.CallToolRequest, args AddProjectArgs) (*mcp.CallToolResult, error) {
	before := s.board.State()
	var thumb *string
	if args.ThumbnailURL != "" {
		thumb = &args.ThumbnailURL
	}
	id, changed := s.board.AddProject(args.Title, thumb)
	p, _ := s.board.State().Project(id)
	return s.commit(ctx, before, changed, "project not created", p)
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args DispatchArgs) (*mcp.CallToolResult, error) {
	before := s.board.State()
	action, err := domain.DecodeAction([]byte(args.Action))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changed := s.board.Dispatch(action)
	v, _ := presentation.Build(s.board.State(), "")
	return s.commit(ctx, before, changed, fmt.Sprintf("%s did not change the board", action.Kind()), v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
