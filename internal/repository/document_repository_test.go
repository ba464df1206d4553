package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tenantrag/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection would get its own in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Organization{},
		&model.Workspace{},
		&model.Document{},
		&model.ChatMessage{},
	))
	return db
}

func recordDocument(t *testing.T, store *TenantStore, fileID, organizationID, workspaceID, filename string) {
	t.Helper()
	require.NoError(t, store.RecordDocument(&model.Document{
		FileID:         fileID,
		Filename:       filename,
		OrganizationID: organizationID,
		WorkspaceID:    workspaceID,
	}))
}

func newTestStore(db *gorm.DB) *TenantStore {
	return NewTenantStore(
		NewOrganizationRepository(db),
		NewWorkspaceRepository(db),
		NewDocumentRepository(db),
	)
}

func TestRecordDocumentCreatesParents(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(db)

	recordDocument(t, store, "doc-1", "org1", "ws1", "a.txt")

	var orgCount, wsCount, docCount int64
	require.NoError(t, db.Model(&model.Organization{}).Count(&orgCount).Error)
	require.NoError(t, db.Model(&model.Workspace{}).Count(&wsCount).Error)
	require.NoError(t, db.Model(&model.Document{}).Count(&docCount).Error)
	assert.EqualValues(t, 1, orgCount)
	assert.EqualValues(t, 1, wsCount)
	assert.EqualValues(t, 1, docCount)
}

func TestRecordDocumentIsIdempotentOnParents(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(db)

	recordDocument(t, store, "doc-1", "org1", "ws1", "a.txt")
	recordDocument(t, store, "doc-2", "org1", "ws1", "b.txt")

	var orgCount, wsCount int64
	require.NoError(t, db.Model(&model.Organization{}).Count(&orgCount).Error)
	require.NoError(t, db.Model(&model.Workspace{}).Count(&wsCount).Error)
	assert.EqualValues(t, 1, orgCount)
	assert.EqualValues(t, 1, wsCount)
}

func TestUpsertRefreshesExistingRecord(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(db)

	recordDocument(t, store, "doc-1", "org1", "ws1", "old.txt")
	recordDocument(t, store, "doc-1", "org1", "ws1", "new.txt")

	docs := NewDocumentRepository(db)
	doc, err := docs.GetByScope("doc-1", "org1", "ws1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "new.txt", doc.Filename)

	var count int64
	require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertMovesScopeOnFileIDReuse(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(db)

	recordDocument(t, store, "doc-1", "org1", "ws1", "a.txt")
	recordDocument(t, store, "doc-1", "org2", "ws2", "a.txt")

	docs := NewDocumentRepository(db)

	// The single record follows the latest upload's scope.
	old, err := docs.GetByScope("doc-1", "org1", "ws1")
	require.NoError(t, err)
	assert.Nil(t, old)

	moved, err := docs.GetByScope("doc-1", "org2", "ws2")
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, "org2", moved.OrganizationID)
	assert.Equal(t, "ws2", moved.WorkspaceID)

	var count int64
	require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetByScopeMissingReturnsNil(t *testing.T) {
	db := newTestDB(t)
	docs := NewDocumentRepository(db)

	doc, err := docs.GetByScope("nope", "org1", "ws1")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDeleteByScopeMissingIsNoOp(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(db)

	assert.NoError(t, store.DeleteDocument("never-there", "org1", "ws1"))
}

func TestListByScopeFiltersTenant(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(db)

	recordDocument(t, store, "doc-1", "org1", "ws1", "a.txt")
	recordDocument(t, store, "doc-2", "org1", "ws2", "b.txt")
	recordDocument(t, store, "doc-3", "org2", "ws1", "c.txt")

	docs := NewDocumentRepository(db)
	list, err := docs.ListByScope("org1", "ws1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "doc-1", list[0].FileID)
}
