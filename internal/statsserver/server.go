package statsserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workwell/internal/core/clock"
	"workwell/internal/core/model"
	"workwell/internal/core/stats"
)

const (
	serverName    = "workwell-stats"
	serverVersion = "1.0.0"

	defaultHistoryDays = 7
	maxHistoryDays     = 90
)

// Server exposes the event log as read-only MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	store     stats.Store
	eventLog  *stats.Log
	clock     clock.Clock
	goalMl    func() int
}

// NewServer creates the stats server. goalMl reports the daily water goal;
// nil leaves it out of the summary.
func NewServer(store stats.Store, clk clock.Clock, goalMl func() int) *Server {
	if clk == nil {
		clk = clock.Real{}
	}
	s := &Server{
		store:    store,
		eventLog: stats.New(store, clk),
		clock:    clk,
		goalMl:   goalMl,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

type todaySummary struct {
	Date        string         `json:"date"`
	WaterMl     int            `json:"water_ml"`
	WaterGoalMl int            `json:"water_goal_ml,omitempty"`
	Completed   map[string]int `json:"completed"`
	StreakDays  int            `json:"streak_days"`
}

type historyEntry struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Completed bool      `json:"completed"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("today_summary",
			mcp.WithDescription("Today's water intake, completed eye rests and movement breaks, and the current streak"),
		),
		s.handleTodaySummary,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("current_streak",
			mcp.WithDescription("Number of consecutive days, ending today, with at least one completed reminder"),
		),
		s.handleCurrentStreak,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("water_today",
			mcp.WithDescription("Millilitres of water logged today"),
		),
		s.handleWaterToday,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reminder_history",
			mcp.WithDescription("Resolved reminders of the last days, oldest first"),
			mcp.WithNumber("days", mcp.Description(fmt.Sprintf("Days to look back including today (default %d, max %d)", defaultHistoryDays, maxHistoryDays))),
			mcp.WithString("type", mcp.Description("Filter by type: water, eye_rest, movement")),
		),
		s.handleReminderHistory,
	)
}

func (s *Server) handleTodaySummary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.eventLog.Today()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load today's summary: %v", err)), nil
	}

	result := todaySummary{
		Date:       s.clock.Now().Format("2006-01-02"),
		WaterMl:    summary.WaterMl,
		Completed:  make(map[string]int, len(summary.Completed)),
		StreakDays: summary.Streak,
	}
	if s.goalMl != nil {
		result.WaterGoalMl = s.goalMl()
	}
	for reminder, count := range summary.Completed {
		result.Completed[string(reminder)] = count
	}

	output, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCurrentStreak(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	streak, err := s.eventLog.CurrentStreak()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute streak: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d", streak)), nil
}

func (s *Server) handleWaterToday(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	total, err := s.eventLog.TotalWaterToday()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to sum water: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d ml", total)), nil
}

func (s *Server) handleReminderHistory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := int(req.GetFloat("days", defaultHistoryDays))
	if days <= 0 || days > maxHistoryDays {
		return mcp.NewToolResultError(fmt.Sprintf("days must be between 1 and %d", maxHistoryDays)), nil
	}

	var filter model.ReminderType
	if name := req.GetString("type", ""); name != "" {
		reminder, err := model.ParseReminderType(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter = reminder
	}

	now := s.clock.Now()
	year, month, day := now.Date()
	to := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -days)

	entries, err := s.store.Entries(from, to)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}

	history := make([]historyEntry, 0, len(entries))
	for _, entry := range entries {
		if filter != "" && entry.Type != filter {
			continue
		}
		history = append(history, historyEntry{
			Type:      string(entry.Type),
			Timestamp: entry.Timestamp,
			Completed: entry.Completed,
		})
	}
	if len(history) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(history, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}
