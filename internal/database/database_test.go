package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/anon-forum/internal/config"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/utils"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db, zap.NewNop()))

	assert.True(t, db.Migrator().HasTable(&models.Vote{}))
	assert.True(t, db.Migrator().HasTable("post_tags"))
	assert.True(t, db.Migrator().HasIndex("posts", "idx_posts_pinned_created_at"))
	assert.True(t, db.Migrator().HasIndex(&models.Vote{}, "idx_votes_user_post"))

	// Second run skips existing indexes
	require.NoError(t, Migrate(db, zap.NewNop()))
}

func TestDialectorFor_UnknownDriver(t *testing.T) {
	_, err := dialectorFor(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Tag{}))

	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, db.Create(&models.Tag{Name: name}).Error)
	}

	var tags []models.Tag
	err = db.Order("name").Scopes(Paginate(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})).Find(&tags).Error
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "c", tags[0].Name)
}

func TestCaseSensitiveTagNames_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectExec("ALTER TABLE `tags` MODIFY `name` VARCHAR\\(50\\) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, CaseSensitiveTagNames(db, zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseSensitiveTagNames_SQLiteUntouched(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Tag{}))

	require.NoError(t, CaseSensitiveTagNames(db, zap.NewNop()))

	require.NoError(t, db.Create(&models.Tag{Name: "News"}).Error)
	require.NoError(t, db.Create(&models.Tag{Name: "news"}).Error)
}
