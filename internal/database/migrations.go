package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes that struct tags do not express
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Feed: pinned partition then recency
		{"posts", "idx_posts_pinned_created_at", "pinned, created_at"},

		// Reply threads are read oldest-first per post
		{"replies", "idx_replies_post_created_at", "post_id, created_at"},

		// Tag GC looks up references by tag
		{"post_tags", "idx_post_tags_tag_id", "tag_id"},

		// Unread counters and conversation lookups
		{"direct_messages", "idx_dm_receiver_sender_read", "receiver_id, sender_id, is_read"},

		// Duplicate-report check
		{"reports", "idx_reports_reporter_reported_resolved", "reporter_id, reported_user_id, is_resolved"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}

// CaseSensitiveTagNames makes tags.name compare byte for byte on MySQL, whose
// default collation folds case and accents. SQLite and PostgreSQL already
// compare exactly.
func CaseSensitiveTagNames(db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}

	sql := "ALTER TABLE `tags` MODIFY `name` VARCHAR(50) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
	if err := db.Exec(sql).Error; err != nil {
		return fmt.Errorf("failed to set tag name collation: %w", err)
	}

	log.Info("tag names set to binary collation")
	return nil
}
