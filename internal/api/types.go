package api

// FileEntry describes a directory entry in a transport-friendly format.
type FileEntry struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Path        string `json:"path"`
	Kind        string `json:"kind,omitempty"`
	Size        int64  `json:"size"`
	IsDir       bool   `json:"isDir"`
}

// ListResponse wraps a directory listing.
type ListResponse struct {
	Files []FileEntry `json:"files"`
}

// AnalyzeAccepted acknowledges a submitted analysis task.
type AnalyzeAccepted struct {
	TaskID string `json:"taskId"`
}

// Task state tags used in TaskState payloads.
const (
	TaskStatePending   = "pending"
	TaskStateCompleted = "completed"
	TaskStateFailed    = "failed"
)

// TaskState is the tagged poll response: pending carries progress, completed
// carries the duplicate groups, failed carries the error message.
type TaskState struct {
	Type     string     `json:"type"`
	Progress int        `json:"progress,omitempty"`
	Data     [][]string `json:"data,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// StatusResponse aggregates daemon runtime information for API consumers.
type StatusResponse struct {
	Running        bool   `json:"running"`
	PID            int    `json:"pid"`
	LockFilePath   string `json:"lockFilePath"`
	CacheEntries   int    `json:"cacheEntries"`
	FreeDiskBytes  uint64 `json:"freeDiskBytes,omitempty"`
	TotalDiskBytes uint64 `json:"totalDiskBytes,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
