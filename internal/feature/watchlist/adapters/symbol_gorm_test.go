package adapters

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_insight/internal/feature/watchlist/domain/entity"
)

// setupTestDB はテスト用の一時SQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "watchlist.db")), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.Symbol{})
	require.NoError(t, err, "failed to migrate table")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// seedSymbol はテスト用の銘柄データをデータベースに作成します。
func seedSymbol(t *testing.T, db *gorm.DB, code, name string, isActive bool, sortKey int) {
	t.Helper()

	s := &entity.Symbol{Code: code, Name: name, Exchange: "NASDAQ", IsActive: true, SortKey: sortKey}
	require.NoError(t, db.Create(s).Error, "failed to seed symbol")
	// default:true のためゼロ値のfalseはINSERTで無視される。明示的に更新する
	if !isActive {
		require.NoError(t, db.Model(s).Update("is_active", false).Error)
	}
}

// TestSymbolGorm_ListActive はListActiveメソッドの各種シナリオをテーブル駆動テストで検証します。
func TestSymbolGorm_ListActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T, db *gorm.DB)
		wantCodes []string
	}{
		{
			name: "success: returns active symbols sorted by sort_key",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedSymbol(t, db, "MSFT", "Microsoft", true, 2)
				seedSymbol(t, db, "AAPL", "Apple", true, 1)
				seedSymbol(t, db, "NVDA", "NVIDIA", true, 3)
			},
			wantCodes: []string{"AAPL", "MSFT", "NVDA"},
		},
		{
			name: "success: inactive symbols are excluded",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedSymbol(t, db, "AAPL", "Apple", true, 1)
				seedSymbol(t, db, "TWTR", "Twitter", false, 2)
			},
			wantCodes: []string{"AAPL"},
		},
		{
			name: "success: ties broken by code",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedSymbol(t, db, "IBM", "IBM", true, 0)
				seedSymbol(t, db, "AMZN", "Amazon", true, 0)
			},
			wantCodes: []string{"AMZN", "IBM"},
		},
		{
			name:      "success: empty table",
			setupFunc: func(t *testing.T, db *gorm.DB) {},
			wantCodes: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			tt.setupFunc(t, db)
			repo := NewSymbolRepository(db)

			symbols, err := repo.ListActive(context.Background())
			require.NoError(t, err)
			got := make([]string, 0, len(symbols))
			for _, s := range symbols {
				got = append(got, s.Code)
			}
			assert.Equal(t, tt.wantCodes, got)

			codes, err := repo.ListActiveCodes(context.Background())
			require.NoError(t, err)
			if len(tt.wantCodes) == 0 {
				assert.Empty(t, codes)
			} else {
				assert.Equal(t, tt.wantCodes, codes)
			}
		})
	}
}

// TestSymbolGorm_ClosedDB はDBエラーがそのまま返されることを検証します。
func TestSymbolGorm_ClosedDB(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	repo := NewSymbolRepository(db)
	_, err = repo.ListActive(context.Background())
	assert.Error(t, err)
	_, err = repo.ListActiveCodes(context.Background())
	assert.Error(t, err)
}
