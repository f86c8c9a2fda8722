package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"ctxrank/internal/engine"
	"ctxrank/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyProject  = -32001 // Directory holds no supported source files
	ErrorCodeEmptyQuery    = -32002 // Query parameter is empty
)

// handleSearchContext handles the search_context tool invocation
func (s *Server) handleSearchContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}
	entryPoint := getStringDefault(args, "entry_point", "")

	files, err := s.loader.Load(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load project", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if len(files) == 0 {
		return nil, newMCPError(ErrorCodeEmptyProject, "no supported source files under path", map[string]interface{}{
			"path": path,
		})
	}

	req := engine.Request{Query: query, Files: files}
	if entryPoint != "" {
		for i := range files {
			if files[i].Path == entryPoint {
				req.EntryPointFile = &files[i]
				break
			}
		}
		if req.EntryPointFile == nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "entry_point does not name a loaded file", map[string]interface{}{
				"param": "entry_point",
				"value": entryPoint,
			})
		}
	}

	event, err := s.engine.Search(ctx, req)
	if errors.Is(err, engine.ErrSuperseded) {
		return nil, newMCPError(ErrorCodeInternalError, "search superseded by a newer request", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if len(event.Data.Files) > limit {
		event.Data.Files = event.Data.Files[:limit]
	}
	s.log.Info("search served",
		zap.String("query", query),
		zap.Int("files", len(files)),
		zap.Int("returned", len(event.Data.Files)))

	return mcp.NewToolResultText(formatEvent(event)), nil
}

// handleCacheStatus handles the cache_status tool invocation
func (s *Server) handleCacheStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileCount, projectCount := s.cache.Counts(ctx)

	response := map[string]interface{}{
		"cache_path":        s.cfg.Cache.Path,
		"file_embeddings":   fileCount,
		"project_snapshots": projectCount,
		"ttl_hours":         s.cache.TTL().Hours(),
		"sweep_schedule":    s.cfg.Cache.SweepSchedule,
		"provider":          s.provider.Name(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleClearCache handles the clear_cache tool invocation
func (s *Server) handleClearCache(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.cache.Clear(ctx)
	s.log.Info("embedding cache cleared")

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"cleared": true,
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path exists and is a readable directory
func validatePath(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	return nil
}

// formatEvent renders the search envelope as indented JSON
func formatEvent(event types.SearchEvent) string {
	bytes, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", event)
	}
	return string(bytes)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
