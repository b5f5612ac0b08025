package audit

import (
	"testing"

	"perde-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildLog(t *testing.T) {
	entry := BuildLog(LogOptions{
		EntityType: "order",
		EntityID:   12,
		Action:     models.AuditActionUpdate,
		Before:     map[string]any{"version": 1},
		After:      map[string]any{"version": 2},
	})

	assert.Equal(t, "order", entry.EntityType)
	assert.Equal(t, uint(12), entry.EntityID)
	assert.JSONEq(t, `{"version":1}`, entry.BeforeData)
	assert.JSONEq(t, `{"version":2}`, entry.AfterData)
}

func TestBuildLog_NilPayloads(t *testing.T) {
	entry := BuildLog(LogOptions{EntityType: "payment", Action: models.AuditActionDelete})
	assert.Equal(t, "null", entry.BeforeData)
	assert.Equal(t, "null", entry.AfterData)
}
