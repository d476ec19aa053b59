package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vivekgym/gymdesk/internal/backup"
)

// BackupHandler triggers manual backup passes.
type BackupHandler struct {
	mgr *backup.Manager // Nil when the store is not a single file.
}

// NewBackupHandler constructs a backup handler.
func NewBackupHandler(mgr *backup.Manager) *BackupHandler {
	return &BackupHandler{mgr: mgr}
}

// Create runs one snapshot-and-prune pass on demand.
func (h *BackupHandler) Create(c *gin.Context) {
	if h.mgr == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "backups require a file-backed sqlite store"})
		return
	}
	result, errRun := h.mgr.Run(time.Now())
	if errRun != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errRun.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"snapshot_path": result.SnapshotPath,
		"pruned":        result.Pruned,
	})
}
