package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/mmlu-eval/internal/history"
	"github.com/stellarlinkco/mmlu-eval/internal/report"
)

type runEntry struct {
	ID       int64     `json:"id"`
	Model    string    `json:"model"`
	Provider string    `json:"provider"`
	Dataset  string    `json:"dataset"`
	Correct  int       `json:"correct"`
	Total    int       `json:"total"`
	Accuracy float64   `json:"accuracy"`
	RunAt    time.Time `json:"run_at"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := s.store.List(c.Request.Context(), history.Filter{
		Dataset: c.Query("dataset"),
		Model:   c.Query("model"),
		Limit:   limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": toRunEntries(entries)})
}

func (s *Server) handleModelHistory(c *gin.Context) {
	model := strings.TrimSpace(c.Query("model"))
	dataset := strings.TrimSpace(c.Query("dataset"))
	if model == "" || dataset == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model and dataset are required"})
		return
	}

	entries, err := s.store.ModelHistory(c.Request.Context(), model, dataset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": toRunEntries(entries)})
}

func (s *Server) handleListResults(c *gin.Context) {
	names, err := report.List(s.resultsDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"results": []string{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"results": names})
}

func (s *Server) handleGetResult(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	// Artifact names are plain file names; anything path-like is rejected.
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result name"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		name += ".json"
	}

	b, err := os.ReadFile(filepath.Join(s.resultsDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var doc json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored result is not valid JSON"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "result": doc})
}

func toRunEntries(entries []history.Entry) []runEntry {
	out := make([]runEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, runEntry{
			ID:       e.ID,
			Model:    e.Model,
			Provider: e.Provider,
			Dataset:  e.Dataset,
			Correct:  e.Correct,
			Total:    e.Total,
			Accuracy: e.Accuracy,
			RunAt:    e.RunAt,
		})
	}
	return out
}
